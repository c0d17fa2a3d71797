/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero session timeout", func(c *Config) { c.sessionTimeout = 0 }, false},
		{"tiny session timeout", func(c *Config) { c.sessionTimeout = time.Nanosecond }, false},
		{"negative session timeout", func(c *Config) { c.sessionTimeout = -time.Minute }, true},
		{"negative submit delay", func(c *Config) { c.submitDelay = -time.Second }, true},
		{"port zero", func(c *Config) { c.port = 0 }, true},
		{"port too large", func(c *Config) { c.port = 70000 }, true},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"empty admin pass", func(c *Config) { c.adminPass = "" }, true},
		{"same credentials", func(c *Config) { c.superUser, c.superPass = c.adminUser, c.adminPass }, true},
		{"unknown log format", func(c *Config) { c.logFormat = "xml" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.port = 8080
			cfg.logFormat = "console"
			cfg.sessionTimeout = 30 * time.Minute
			tc.mutate(cfg)

			if err := cfg.validate(); (err != nil) != tc.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

var (
	ErrMissingField      = errors.New("full name and whatsapp number are required")
	ErrInvalidTransition = errors.New("action not available on the current screen")
	ErrNotAuthorized     = errors.New("action requires an admin screen")
	ErrAccessDenied      = errors.New("access denied")
	ErrSubmissionPending = errors.New("rsvp submission already in progress")
	ErrGameNotWon        = errors.New("game has not been won")
	ErrGameInProgress    = errors.New("game is still in progress")
	ErrCellOutOfRange    = errors.New("cell index out of range")
	ErrNotFound          = errors.New("key not found")
	ErrUnknownStorage    = errors.New("unknown storage backend")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	cfg.logger.Debug().Msgf(format, args...)
}

func logErr(cfg *Config, err error, msg string) {
	cfg.logger.Error().Err(err).Msg(msg)
}

func newPage(cfg *Config, title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon(cfg))
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"%s/\">%s</a></body></html>", cfg.prefix, html.EscapeString(body)))

	return htmlBody.String()
}

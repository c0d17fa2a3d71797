/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// decodeForm copies posted values into the fields of target tagged with
// `form:"name"`. Only the first value of each key is used. Keys absent from
// input leave the field untouched.
func decodeForm(input url.Values, target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode form: target must be a non-nil struct pointer, got %T", target)
	}

	v := val.Elem()
	t := v.Type()

	for i := range v.NumField() {
		name := t.Field(i).Tag.Get("form")
		if name == "" {
			continue
		}

		values, ok := input[name]
		if !ok || len(values) == 0 {
			continue
		}

		raw := values[0]
		field := v.Field(i)

		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Bool:
			field.SetBool(strings.EqualFold(raw, "true") || raw == "on")
		case reflect.Int:
			if raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("decode form field %q: %w", name, err)
			}
			field.SetInt(int64(n))
		}
	}

	return nil
}

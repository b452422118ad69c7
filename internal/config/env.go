package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// env reads typed values from the process environment. The first failure is
// kept and every later read returns its fallback, so Load checks once.
type env struct {
	err error
}

// raw returns the trimmed value of key, or fallback when unset or blank.
func (e *env) raw(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *env) fail(format string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf(format, args...)
	}
}

func (e *env) boolean(key string, fallback bool) bool {
	v, err := strconv.ParseBool(e.raw(key, strconv.FormatBool(fallback)))
	if err != nil {
		e.fail("parse %s: %w", key, err)
		return fallback
	}
	return v
}

// integer rejects values below floor.
func (e *env) integer(key string, fallback, floor int) int {
	v, err := strconv.Atoi(e.raw(key, strconv.Itoa(fallback)))
	if err != nil {
		e.fail("parse %s: %w", key, err)
		return fallback
	}
	if v < floor {
		e.fail("%s must be >= %d", key, floor)
	}
	return v
}

// duration rejects negative values, and zero unless allowZero.
func (e *env) duration(key, fallback string, allowZero bool) time.Duration {
	v, err := time.ParseDuration(e.raw(key, fallback))
	if err != nil {
		e.fail("parse %s: %w", key, err)
		return 0
	}
	switch {
	case v < 0:
		e.fail("%s must be >= 0", key)
	case v == 0 && !allowZero:
		e.fail("%s must be > 0", key)
	}
	return v
}

// oneOf lowercases the value and accepts only the listed options.
func (e *env) oneOf(key, fallback string, options ...string) string {
	v := strings.ToLower(e.raw(key, fallback))
	for _, o := range options {
		if v == o {
			return v
		}
	}
	e.fail("invalid %s %q: valid values are %s", key, v, strings.Join(options, ", "))
	return fallback
}

// require records an error naming key when cond holds and value is empty.
func (e *env) require(cond bool, value, key, when string) {
	if cond && value == "" {
		e.fail("%s is required when %s", key, when)
	}
}

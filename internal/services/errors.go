// Package services defines the business logic for text dispatch and history
// retrieval. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrEmptyInput is returned when the request text is empty after trimming
	// surrounding whitespace.
	ErrEmptyInput = errors.New("input is empty")

	// ErrTooLong is returned when the request text exceeds the maximum
	// configured rune limit.
	ErrTooLong = errors.New("input too long")

	// ErrUnknownMode is returned when the requested transformation mode is not
	// one of generate, title, summarize or keywords.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrUnauthorized is returned when a shared token is configured and the
	// presented credential does not match it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when the client identity has exhausted its
	// request budget for the current window.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrRecordNotFound indicates that the requested history record does not
	// exist.
	ErrRecordNotFound = errors.New("record not found")
)

// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, unauthorized) mirror common HTTP status
//     semantics to aid interoperability.
//   - Provider codes (upstream_error, upstream_timeout, invalid_response) expose
//     the failure classification of the outbound model call without leaking
//     transport internals.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Example response:
//   {
//     "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//     "code": "too_many_requests",
//     "message": "rate limit exceeded"
//   }

package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Provider-specific:
	ErrCodeUpstream        = "upstream_error"
	ErrCodeUpstreamTimeout = "upstream_timeout"
	ErrCodeInvalidResponse = "invalid_response"

	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// Package vrchat provides a client for the VRChat HTTP API.
// This package centralizes all VRChat API interactions for the application.
package vrchat

import "fmt"

// APIError represents a non-success status from the VRChat API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("VRChat API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// DecodeError represents a response body that was not valid protocol
// output. It is a transport-level failure, distinct from a classified
// HTTP status, so retry policies treat it as retryable.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("VRChat API returned a malformed response (endpoint: %s): %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// twoFactorRequest is the body for the verification endpoints.
type twoFactorRequest struct {
	Code string `json:"code"`
}

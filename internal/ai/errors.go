package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthError is returned when the service rejects the credential.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API Error %d", e.Status)
	}
	return e.Message
}

// APIError is any other non-success response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API Error %d", e.Status)
	}
	return e.Message
}

// NetworkError wraps a transport failure; no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// errorFromResponse maps a non-2xx response onto the error taxonomy. The
// message comes from the structured error body when present, else the raw
// body, else a generic "API Error <status>".
func errorFromResponse(status int, body []byte) error {
	msg := errorMessage(status, body)
	if isAuthStatus(status) {
		return &AuthError{Status: status, Message: msg}
	}
	return &APIError{Status: status, Message: msg}
}

func errorMessage(status int, body []byte) string {
	var env struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		if m := strings.TrimSpace(env.Error.Message); m != "" {
			return m
		}
	}
	if raw := strings.TrimSpace(string(body)); raw != "" {
		return raw
	}
	return fmt.Sprintf("API Error %d", status)
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// Describe renders a completion failure as display text.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if netErr.Err != nil {
			return "Network error: " + netErr.Err.Error()
		}
		return "Network error"
	}
	return err.Error()
}

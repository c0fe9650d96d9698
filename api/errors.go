package api

import (
	"encoding/json"
	"fmt"
)

// ErrorKind is the closed taxonomy of error categories that crosses the
// client boundary into application code. Raw transport and HTTP detail never
// leaves this package in any other shape.
type ErrorKind string

const (
	KindNetworkError ErrorKind = "NETWORK_ERROR"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindServerError  ErrorKind = "SERVER_ERROR"

	// Domain kinds signalled by the backend as a code field and passed
	// through verbatim.
	KindActivityFull       ErrorKind = "ACTIVITY_FULL"
	KindAlreadyParticipant ErrorKind = "ALREADY_PARTICIPANT"
)

const (
	networkErrorMessage   = "Unable to reach the server. Check your connection and try again."
	sessionExpiredMessage = "Your session has expired. Please sign in again."
)

// Error is the normalized error produced for every failed request.
type Error struct {
	Kind       ErrorKind
	Message    string
	Details    map[string]any
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is a normalized error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Kind == kind
}

// errorBody mirrors the backend's error envelope.
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// normalizeTransport maps a failure where no response was received at all
// (DNS, timeout, connection refused) to a network error.
func normalizeTransport(err error) *Error {
	return &Error{
		Kind:    KindNetworkError,
		Message: networkErrorMessage,
		Details: map[string]any{"cause": err.Error()},
	}
}

// normalizeResponse maps an HTTP error status and body to exactly one
// normalized error. The mapping is identical for both client instances.
func normalizeResponse(status int, raw []byte) *Error {
	var body errorBody
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	kind := kindForStatus(status, body.Code)
	message := body.Message
	if message == "" {
		message = fallbackMessage(kind)
	}

	return &Error{
		Kind:       kind,
		Message:    message,
		Details:    body.Details,
		HTTPStatus: status,
	}
}

func kindForStatus(status int, serverCode string) ErrorKind {
	switch status {
	case 400, 409:
		// Validation and conflict: a server-supplied code wins, e.g.
		// ACTIVITY_FULL or ALREADY_PARTICIPANT on join conflicts.
		if serverCode != "" {
			return ErrorKind(serverCode)
		}
		return KindValidation
	case 401:
		return KindUnauthorized
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	case 500, 502, 503:
		return KindServerError
	default:
		if serverCode != "" {
			return ErrorKind(serverCode)
		}
		return KindServerError
	}
}

func fallbackMessage(kind ErrorKind) string {
	switch kind {
	case KindUnauthorized:
		return "You are not signed in."
	case KindForbidden:
		return "You do not have permission to do that."
	case KindNotFound:
		return "The requested resource was not found."
	case KindValidation:
		return "The request was invalid."
	default:
		return "Something went wrong. Please try again later."
	}
}

func sessionExpiredError() *Error {
	return &Error{
		Kind:    KindUnauthorized,
		Message: sessionExpiredMessage,
	}
}

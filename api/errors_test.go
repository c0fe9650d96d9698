package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeResponseStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
	}{
		{name: "bad request", status: 400, body: `{"message":"bad input"}`, wantKind: KindValidation},
		{name: "bad request with server code", status: 400, body: `{"code":"INVALID_DATE","message":"bad date"}`, wantKind: ErrorKind("INVALID_DATE")},
		{name: "unauthorized", status: 401, body: `{}`, wantKind: KindUnauthorized},
		{name: "forbidden", status: 403, body: `{}`, wantKind: KindForbidden},
		{name: "not found", status: 404, body: `{}`, wantKind: KindNotFound},
		{name: "conflict", status: 409, body: `{}`, wantKind: KindValidation},
		{name: "conflict activity full", status: 409, body: `{"code":"ACTIVITY_FULL"}`, wantKind: KindActivityFull},
		{name: "conflict already participant", status: 409, body: `{"code":"ALREADY_PARTICIPANT"}`, wantKind: KindAlreadyParticipant},
		{name: "internal error", status: 500, body: `{}`, wantKind: KindServerError},
		{name: "bad gateway", status: 502, body: `{}`, wantKind: KindServerError},
		{name: "unavailable", status: 503, body: `{}`, wantKind: KindServerError},
		{name: "unmapped status", status: 418, body: `{}`, wantKind: KindServerError},
		{name: "unmapped status with server code", status: 418, body: `{"code":"TEAPOT"}`, wantKind: ErrorKind("TEAPOT")},
		{name: "empty body", status: 500, body: "", wantKind: KindServerError},
		{name: "unparseable body", status: 400, body: "<html>", wantKind: KindValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			normalized := normalizeResponse(tc.status, []byte(tc.body))
			require.Equal(t, tc.wantKind, normalized.Kind)
			require.Equal(t, tc.status, normalized.HTTPStatus)
			require.NotEmpty(t, normalized.Message)
		})
	}
}

func TestNormalizeResponseBodyPassthrough(t *testing.T) {
	body := `{"message":"start date is invalid","details":{"field":"startsAt"}}`
	normalized := normalizeResponse(400, []byte(body))

	require.Equal(t, KindValidation, normalized.Kind)
	require.Equal(t, "start date is invalid", normalized.Message)
	require.Equal(t, map[string]any{"field": "startsAt"}, normalized.Details)
}

func TestNormalizeTransport(t *testing.T) {
	normalized := normalizeTransport(errors.New("dial tcp: connection refused"))

	require.Equal(t, KindNetworkError, normalized.Kind)
	require.Zero(t, normalized.HTTPStatus)
	require.NotEmpty(t, normalized.Message)
}

func TestIsKind(t *testing.T) {
	err := normalizeResponse(404, nil)

	require.True(t, IsKind(err, KindNotFound))
	require.False(t, IsKind(err, KindUnauthorized))
	require.False(t, IsKind(errors.New("plain"), KindNotFound))
}

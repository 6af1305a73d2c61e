package acl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/config"
)

// testConfig returns a minimal client config with retries disabled.
func testConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "remote-quotes",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// --- Error Mapping Tests ---

func TestMapHTTPError_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{name: "not found", status: http.StatusNotFound, check: domain.IsNotFound},
		{name: "bad request", status: http.StatusBadRequest, check: domain.IsValidation},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, check: domain.IsValidation},
		{name: "forbidden", status: http.StatusForbidden, check: domain.IsForbidden},
		{name: "unauthorized", status: http.StatusUnauthorized, check: domain.IsForbidden},
		{name: "rate limited", status: http.StatusTooManyRequests, check: domain.IsUnavailable},
		{name: "internal error", status: http.StatusInternalServerError, check: domain.IsUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, check: domain.IsUnavailable},
		{name: "unknown 4xx", status: http.StatusTeapot, check: domain.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(response(tt.status, tt.body), nil, "remote-quotes", "push quotes")

			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected mapping: %v", err)
		})
	}
}

func TestMapHTTPError_ValidationWithDetails(t *testing.T) {
	resp := response(http.StatusBadRequest,
		`{"error":{"code":"VALIDATION_ERROR","message":"bad","details":{"title":"is required"}}}`)

	err := MapHTTPError(resp, nil, "remote-quotes", "push quotes")

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "title", validationErr.Field)
	assert.Equal(t, "is required", validationErr.Message)
}

func TestMapHTTPError_UsesBodyMessage(t *testing.T) {
	resp := response(http.StatusServiceUnavailable, `{"message":"down for maintenance"}`)

	err := MapHTTPError(resp, nil, "remote-quotes", "fetch quotes")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "down for maintenance")
}

func TestMapHTTPError_ClientErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "circuit open", err: clients.ErrCircuitOpen, want: "circuit breaker open during fetch quotes"},
		{
			name: "retries exhausted",
			err:  fmt.Errorf("%w: %w", clients.ErrMaxRetriesExceeded, errors.New("connection refused")),
			want: "fetch quotes failed: connection refused",
		},
		{
			name: "retries exhausted without cause",
			err:  clients.ErrMaxRetriesExceeded,
			want: "fetch quotes failed: " + clients.ErrMaxRetriesExceeded.Error(),
		},
		{name: "other", err: errors.New("boom"), want: "fetch quotes failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(nil, tt.err, "remote-quotes", "fetch quotes")

			require.Error(t, err)
			assert.True(t, domain.IsUnavailable(err))
			assert.Contains(t, err.Error(), tt.want)
			assert.NotContains(t, err.Error(), "<nil>")
		})
	}
}

func TestMapHTTPError_SuccessReturnsNil(t *testing.T) {
	assert.NoError(t, MapHTTPError(response(http.StatusOK, ""), nil, "remote-quotes", "fetch quotes"))
}

func TestMapHTTPError_NilResponse(t *testing.T) {
	err := MapHTTPError(nil, nil, "remote-quotes", "fetch quotes")

	assert.True(t, domain.IsUnavailable(err))
}

// --- ParseErrorResponse Tests ---

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        io.Reader
		wantNil     bool
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nested",
			body:        strings.NewReader(`{"error":{"code":"NOT_FOUND","message":"not found"}}`),
			wantCode:    "NOT_FOUND",
			wantMessage: "not found",
		},
		{
			name:        "flat",
			body:        strings.NewReader(`{"code":"RATE_LIMITED","message":"slow down"}`),
			wantCode:    "RATE_LIMITED",
			wantMessage: "slow down",
		},
		{name: "invalid json", body: strings.NewReader(`not json`), wantNil: true},
		{name: "empty object", body: strings.NewReader(`{}`), wantNil: true},
		{name: "nil body", body: nil, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ParseErrorResponse(tt.body)

			if tt.wantNil {
				assert.Nil(t, resp)

				return
			}

			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.GetCode())
			assert.Equal(t, tt.wantMessage, resp.GetMessage())
		})
	}
}

// --- Decode and Translate Tests ---

func TestDecodeResponse(t *testing.T) {
	type item struct {
		Title string `json:"title"`
	}

	got, err := DecodeResponse[[]item](io.NopCloser(strings.NewReader(`[{"title":"a"},{"title":"b"}]`)))
	require.NoError(t, err)
	assert.Equal(t, []item{{Title: "a"}, {Title: "b"}}, *got)

	_, err = DecodeResponse[[]item](io.NopCloser(strings.NewReader(`{`)))
	require.Error(t, err)

	_, err = DecodeResponse[[]item](nil)
	require.Error(t, err)
}

func TestTranslateSlice(t *testing.T) {
	upper := func(s *string) (string, error) {
		if *s == "" {
			return "", errors.New("empty")
		}

		return strings.ToUpper(*s), nil
	}

	got, err := TranslateSlice([]string{"a", "b"}, upper)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)

	got, err = TranslateSlice([]string{}, upper)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = TranslateSlice([]string{"a", ""}, upper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translating item 1")
}

// --- BaseAdapter Tests ---

func TestBaseAdapter_ServiceName(t *testing.T) {
	client, err := clients.New(testConfig("http://example.com"))
	require.NoError(t, err)

	adapter := NewBaseAdapter(client, "my-service")

	assert.Equal(t, "my-service", adapter.ServiceName())
	assert.NotNil(t, adapter.Client())
}

func TestBaseAdapter_GetMapsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	adapter := NewBaseAdapter(client, "remote-quotes")

	body, err := adapter.Get(context.Background(), "", "fetch quotes")
	assert.Nil(t, body)
	assert.True(t, domain.IsForbidden(err))
}

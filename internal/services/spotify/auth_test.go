package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCredentials_Token(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		w.Write([]byte(`{"access_token": "tok-1", "token_type": "Bearer", "expires_in": 3600}`))
	}))
	defer server.Close()

	src := NewClientCredentials(server.URL, "client-id", "client-secret", 5*time.Second)

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	// cached until near expiry
	token, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, 1, calls)
}

func TestClientCredentials_RefreshesNearExpiry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"access_token": "tok", "expires_in": 3600}`))
	}))
	defer server.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	src := NewClientCredentials(server.URL, "id", "secret", time.Second)
	src.now = func() time.Time { return now }

	_, err := src.Token(context.Background())
	require.NoError(t, err)

	now = now.Add(time.Hour - 10*time.Second)
	_, err = src.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestClientCredentials_ShortOrMissingLifetime(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		reusedFor time.Duration
		staleAt   time.Duration
	}{
		{"missing expires_in", `{"access_token": "tok"}`, 59 * time.Minute, time.Hour},
		{"zero expires_in", `{"access_token": "tok", "expires_in": 0}`, 59 * time.Minute, time.Hour},
		{"short lifetime", `{"access_token": "tok", "expires_in": 20}`, 9 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
			now := start
			src := NewClientCredentials(server.URL, "id", "secret", time.Second)
			src.now = func() time.Time { return now }

			for i := 0; i < 3; i++ {
				_, err := src.Token(context.Background())
				require.NoError(t, err)
			}
			assert.Equal(t, 1, calls, "token reused right after issue")

			now = start.Add(tt.reusedFor)
			_, err := src.Token(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, calls)

			now = start.Add(tt.staleAt)
			_, err = src.Token(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, calls)
		})
	}
}

func TestClientCredentials_Failures(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		status int
		body   string
	}{
		{name: "missing credentials", id: ""},
		{name: "rejected", id: "id", status: http.StatusBadRequest, body: `{"error": "invalid_client"}`},
		{name: "garbage body", id: "id", status: http.StatusOK, body: `not json`},
		{name: "empty token", id: "id", status: http.StatusOK, body: `{"access_token": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			src := NewClientCredentials(server.URL, tt.id, "secret", time.Second)
			_, err := src.Token(context.Background())

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))
		})
	}
}

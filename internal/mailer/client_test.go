package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsBrevoPayload(t *testing.T) {
	var got sendEmailReq
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient("key-123", "no-reply@example.com", "Example")
	c.APIURL = srv.URL

	err := c.Send(context.Background(), "to@example.com", "Hello", "<p>hi</p>")
	require.NoError(t, err)

	assert.Equal(t, "key-123", apiKey)
	assert.Equal(t, "no-reply@example.com", got.Sender["email"])
	require.Len(t, got.To, 1)
	assert.Equal(t, "to@example.com", got.To[0]["email"])
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, "<p>hi</p>", got.HtmlContent)
}

func TestSendReportsProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", "no-reply@example.com", "Example")
	c.APIURL = srv.URL

	err := c.Send(context.Background(), "to@example.com", "Hello", "<p>hi</p>")
	assert.ErrorContains(t, err, "status 401")
}

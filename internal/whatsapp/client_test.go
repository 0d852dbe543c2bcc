package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textPayload() *OutboundPayload {
	return &OutboundPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               "919876543210",
		Type:             "text",
		Text:             &OutboundText{Body: "hello"},
	}
}

func TestClientSend(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody OutboundPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.out1"}]}`))
	}))
	defer server.Close()

	client, err := New(Config{
		BaseURL:       server.URL,
		AccessToken:   "token-123",
		PhoneNumberID: "5566",
	})
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), textPayload())
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.out1", resp.Messages[0].ID)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "/5566/messages", gotPath)
	assert.Equal(t, "hello", gotBody.Text.Body)
}

func TestClientRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.out2"}]}`))
	}))
	defer server.Close()

	client, err := New(Config{
		BaseURL:       server.URL,
		AccessToken:   "token-123",
		PhoneNumberID: "5566",
		MaxRetries:    2,
		Backoff:       time.Millisecond,
	})
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), textPayload())
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid recipient","type":"OAuthException","code":131026}}`))
	}))
	defer server.Close()

	client, err := New(Config{
		BaseURL:       server.URL,
		AccessToken:   "token-123",
		PhoneNumberID: "5566",
		MaxRetries:    3,
		Backoff:       time.Millisecond,
	})
	require.NoError(t, err)

	_, err = client.Send(context.Background(), textPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientConfigValidation(t *testing.T) {
	_, err := New(Config{PhoneNumberID: "5566"})
	assert.Error(t, err)

	_, err = New(Config{AccessToken: "token"})
	assert.Error(t, err)
}

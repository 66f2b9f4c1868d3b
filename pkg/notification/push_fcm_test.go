package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFCMClientPush(t *testing.T) {
	var got fcmPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":1,"failure":0}`))
	}))
	defer srv.Close()

	cli := NewFCMClient(PushConfig{ServerKey: "test-key", Endpoint: srv.URL})
	err := cli.Push(context.Background(), "device-token", PushMessage{
		Title: "Emergencia",
		Body:  "Ana necesita ayuda",
		Data:  map[string]string{"tipo": "emergencia"},
	})
	require.NoError(t, err)

	assert.Equal(t, "device-token", got.To)
	require.NotNil(t, got.Notification)
	assert.Equal(t, "Emergencia", got.Notification.Title)
	assert.Equal(t, "emergencia", got.Data["tipo"])
}

func TestFCMClientPushRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":0,"failure":1,"results":[{"error":"NotRegistered"}]}`))
	}))
	defer srv.Close()

	cli := NewFCMClient(PushConfig{ServerKey: "k", Endpoint: srv.URL})
	err := cli.Push(context.Background(), "stale-token", PushMessage{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotRegistered")
}

func TestNewPushClientWithoutKey(t *testing.T) {
	cli := NewPushClient(PushConfig{})
	assert.NoError(t, cli.Push(context.Background(), "any", PushMessage{}))
}

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crestwatch/surfcast/pkg/config"
)

func TestDispatcherRoutesOnMethod(t *testing.T) {
	d := NewDispatcher(zap.NewNop().Sugar())
	d.Register("app", NewLog(zap.NewNop().Sugar()))

	err := d.Notify(context.Background(), Message{Method: "app", AlertID: "a1"})
	require.NoError(t, err)

	err = d.Notify(context.Background(), Message{Method: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no notifier registered")
}

func TestWebhookNotify(t *testing.T) {
	var received webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	wh := NewWebhook(&config.WebhookData{Endpoint: srv.URL, Token: "secret"})
	err := wh.Notify(context.Background(), Message{
		UserID:  "u1",
		AlertID: "a1",
		Method:  "whatsapp",
		Subject: "Surf alert",
		Body:    "conditions matched",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", received.UserID)
	assert.Equal(t, "whatsapp", received.Method)
}

func TestWebhookNotifyGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	wh := NewWebhook(&config.WebhookData{Endpoint: srv.URL})
	err := wh.Notify(context.Background(), Message{Method: "app"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestEmailNotifyBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom, gotBody string
	var gotTo []string

	e := NewEmail(&config.SMTPData{Host: "mail.example.com", Port: 587, From: "surf@example.com"})
	e.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotBody = string(msg)
		return nil
	}

	err := e.Notify(context.Background(), Message{
		Method:      "email",
		ContactInfo: "surfer@example.com",
		Subject:     "Surf alert",
		Body:        "conditions matched",
	})
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "surf@example.com", gotFrom)
	assert.Equal(t, []string{"surfer@example.com"}, gotTo)
	assert.Contains(t, gotBody, "Subject: Surf alert")
	assert.Contains(t, gotBody, "conditions matched")
}

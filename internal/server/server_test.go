package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWebhook struct {
	posts   int
	info    tgbotapi.WebhookInfo
	infoErr error
}

func (s *stubWebhook) WebhookHandler(w http.ResponseWriter, _ *http.Request) {
	s.posts++
	w.WriteHeader(http.StatusOK)
}

func (s *stubWebhook) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return s.info, s.infoErr
}

func newTestServer(hook Webhook) *Server {
	return New(0, "/webhook_telegram", hook, 45*time.Second, zerolog.Nop())
}

func serve(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestWebhookRoute(t *testing.T) {
	hook := &stubWebhook{}
	srv := newTestServer(hook)

	rec := serve(srv, http.MethodPost, "/webhook_telegram")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, hook.posts)
}

func TestWebhookRoute_OnlyPost(t *testing.T) {
	hook := &stubWebhook{}
	srv := newTestServer(hook)

	rec := serve(srv, http.MethodGet, "/webhook_telegram")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, hook.posts)
}

func TestIndexReturnsWebhookInfo(t *testing.T) {
	hook := &stubWebhook{info: tgbotapi.WebhookInfo{URL: "https://bot.example.com/webhook_telegram", PendingUpdateCount: 2}}
	srv := newTestServer(hook)

	rec := serve(srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body tgbotapi.WebhookInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, hook.info.URL, body.URL)
	assert.Equal(t, 2, body.PendingUpdateCount)

	rec = serve(srv, http.MethodHead, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIndexTelegramFailure(t *testing.T) {
	srv := newTestServer(&stubWebhook{infoErr: errors.New("connection refused")})

	rec := serve(srv, http.MethodGet, "/")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubWebhook{})

	rec := serve(srv, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(&stubWebhook{})

	rec := serve(srv, http.MethodGet, "/does-not-exist")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akagera/motobot/internal/engine"
	"github.com/akagera/motobot/internal/whatsapp"
)

const maxBodyBytes = 1 << 20

// WebhookHandler receives platform webhook calls.
type WebhookHandler struct {
	engine      *engine.Engine
	verifyToken string
	appSecret   string
}

// NewWebhookHandler creates the webhook handler.
func NewWebhookHandler(eng *engine.Engine, verifyToken, appSecret string) *WebhookHandler {
	return &WebhookHandler{engine: eng, verifyToken: verifyToken, appSecret: appSecret}
}

// RegisterRoutes mounts the webhook endpoints.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Get("/webhook", h.Verify)
	r.Post("/webhook", h.Receive)
}

// Verify answers the platform's subscription handshake: echo the
// challenge only when the verify token matches.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken && h.verifyToken != "" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// Receive handles a webhook delivery. The signature check runs over the
// exact raw bytes before anything else; after that the delivery is
// acknowledged with 200 no matter what, so the platform never
// retry-storms over our internal failures.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		Error(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if err := whatsapp.VerifySignature(h.appSecret, body, r.Header.Get(whatsapp.SignatureHeader)); err != nil {
		slog.Warn("Webhook signature rejected", "remote", r.RemoteAddr)
		Error(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	events, err := whatsapp.Normalize(body)
	if err != nil {
		slog.Warn("Malformed webhook payload acknowledged", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, ev := range events {
		if err := h.engine.Process(r.Context(), ev); err != nil {
			slog.Error("Event processing failed", "source_id", ev.SourceID, "user_id", ev.From, "error", err)
		}
	}

	w.WriteHeader(http.StatusOK)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akagera/motobot/internal/domain"
	"github.com/akagera/motobot/internal/engine"
	"github.com/akagera/motobot/internal/flow"
	"github.com/akagera/motobot/internal/metrics"
	"github.com/akagera/motobot/internal/store"
)

// AdminHandler is the trusted operator surface. Each route mutates the
// target record, applies the matching session transition in the same
// store transaction, and then sends the user-facing notification.
type AdminHandler struct {
	repo store.Repository
	gw   engine.Gateway
}

// NewAdminHandler creates the admin bridge handler.
func NewAdminHandler(repo store.Repository, gw engine.Gateway) *AdminHandler {
	return &AdminHandler{repo: repo, gw: gw}
}

// RegisterRoutes mounts the admin bridge endpoints. Callers must wrap
// them with token authentication.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/quotes/attach", h.AttachQuote)
	r.Post("/certificates/issue", h.IssueCertificate)
	r.Post("/vehicles/verify", h.VerifyVehicle)
	r.Post("/providers/register", h.RegisterProvider)
	r.Post("/providers/activate", h.ActivateProvider)
	r.Post("/payments/record", h.RecordPayment)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func (h *AdminHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		Error(w, http.StatusNotFound, "record not found")
	case errors.Is(err, store.ErrStateMismatch):
		Error(w, http.StatusConflict, "session not in expected state")
	default:
		slog.Error("Admin operation failed", "op", op, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *AdminHandler) notify(ctx context.Context, actions ...domain.OutboundAction) {
	for _, a := range actions {
		if err := h.gw.Send(ctx, a); err != nil {
			metrics.SendFailures.Inc()
			slog.Error("Admin notification send failed", "kind", a.Kind, "to", a.To, "error", err)
		}
	}
}

// AttachQuote records the priced quote document and delivers it.
func (h *AdminHandler) AttachQuote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuoteID     string `json:"quoteId"`
		DocumentRef string `json:"documentRef"`
		Amount      int64  `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.QuoteID == "" || req.DocumentRef == "" || req.Amount <= 0 {
		Error(w, http.StatusUnprocessableEntity, "quoteId, documentRef and a positive amount are required")
		return
	}

	quote, err := h.repo.AttachQuote(r.Context(), req.QuoteID, req.DocumentRef, req.Amount)
	if err != nil {
		h.fail(w, "attach-quote", err)
		return
	}
	metrics.AdminOps.WithLabelValues("attach-quote").Inc()

	caption := fmt.Sprintf("Your insurance quote: %d RWF (ref %s)", quote.Amount, quote.ID[:8])
	h.notify(r.Context(),
		domain.DocumentMsg(quote.UserID, quote.DocumentRef, "quote.pdf", caption),
		flow.QuoteReadyPrompt(quote.UserID),
	)

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// IssueCertificate attaches the certificate and delivers it.
func (h *AdminHandler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuoteID        string `json:"quoteId"`
		CertificateRef string `json:"certificateRef"`
	}
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.QuoteID == "" || req.CertificateRef == "" {
		Error(w, http.StatusUnprocessableEntity, "quoteId and certificateRef are required")
		return
	}

	quote, err := h.repo.IssueCertificate(r.Context(), req.QuoteID, req.CertificateRef)
	if err != nil {
		h.fail(w, "issue-certificate", err)
		return
	}
	metrics.AdminOps.WithLabelValues("issue-certificate").Inc()

	h.notify(r.Context(),
		domain.DocumentMsg(quote.UserID, quote.CertificateRef, "certificate.pdf",
			"Here is your insurance certificate. Keep it with the vehicle. Safe riding!"),
	)

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// VerifyVehicle confirms a registration after manual review.
func (h *AdminHandler) VerifyVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID string `json:"vehicleId"`
	}
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.VehicleID == "" {
		Error(w, http.StatusUnprocessableEntity, "vehicleId is required")
		return
	}

	vehicle, err := h.repo.VerifyVehicle(r.Context(), req.VehicleID)
	if err != nil {
		h.fail(w, "verify-vehicle", err)
		return
	}
	metrics.AdminOps.WithLabelValues("verify-vehicle").Inc()

	h.notify(r.Context(), domain.Text(vehicle.UserID,
		fmt.Sprintf("Your vehicle %s has been verified. You're all set!", vehicle.Plate)))

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RegisterProvider onboards a service provider. Providers start inactive
// and become bookable once activated.
func (h *AdminHandler) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Kind  string `json:"kind"`
	}
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Kind == "" {
		Error(w, http.StatusUnprocessableEntity, "name and kind are required")
		return
	}

	provider := &domain.Provider{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Kind:      req.Kind,
		CreatedAt: time.Now(),
	}
	if err := h.repo.CreateProvider(r.Context(), provider); err != nil {
		h.fail(w, "register-provider", err)
		return
	}
	metrics.AdminOps.WithLabelValues("register-provider").Inc()

	JSON(w, http.StatusOK, map[string]string{"id": provider.ID})
}

// ActivateProvider makes a service provider bookable.
func (h *AdminHandler) ActivateProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProviderID string `json:"providerId"`
	}
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProviderID == "" {
		Error(w, http.StatusUnprocessableEntity, "providerId is required")
		return
	}

	provider, err := h.repo.ActivateProvider(r.Context(), req.ProviderID)
	if err != nil {
		h.fail(w, "activate-provider", err)
		return
	}
	metrics.AdminOps.WithLabelValues("activate-provider").Inc()

	if provider.Phone != "" {
		h.notify(r.Context(), domain.Text(provider.Phone,
			fmt.Sprintf("%s is now live on the platform and will start receiving bookings.", provider.Name)))
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RecordPayment stores a settled payment and confirms it to the user.
func (h *AdminHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuoteID           string `json:"quoteId"`
		Amount            int64  `json:"amount"`
		PayerIdentity     string `json:"payerIdentity"`
		ProviderReference string `json:"providerReference"`
	}
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.QuoteID == "" || req.Amount <= 0 {
		Error(w, http.StatusUnprocessableEntity, "quoteId and a positive amount are required")
		return
	}

	quote, err := h.repo.RecordPayment(r.Context(), req.QuoteID, req.Amount, req.PayerIdentity, req.ProviderReference)
	if err != nil {
		h.fail(w, "record-payment", err)
		return
	}
	metrics.AdminOps.WithLabelValues("record-payment").Inc()

	h.notify(r.Context(), domain.Text(quote.UserID,
		fmt.Sprintf("Payment of %d RWF received. Your certificate is being issued and will arrive here shortly.", req.Amount)))

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

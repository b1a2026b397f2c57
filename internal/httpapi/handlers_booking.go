package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/crosslogic/bookingcore/internal/apperr"
	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/go-chi/chi/v5"
)

type bookingHandlers struct {
	engine *booking.Engine
}

type createBookingRequest struct {
	ServiceID string `json:"service_id"`
	SlotID    string `json:"slot_id"`
	UserID    string `json:"user_id"`
}

func (h *bookingHandlers) create(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", apperr.CodeValidation)
		return
	}
	if req.ServiceID == "" || req.SlotID == "" {
		writeError(w, http.StatusBadRequest, "service_id and slot_id are required", apperr.CodeValidation)
		return
	}
	if req.UserID != p.UID {
		writeError(w, http.StatusForbidden, "user_id must equal caller", "")
		return
	}

	b, err := h.engine.Create(r.Context(), p.UID, req.ServiceID, req.SlotID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toView(b, p))
}

func (h *bookingHandlers) get(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	b, err := h.engine.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if !canView(b, p) {
		writeError(w, http.StatusForbidden, "forbidden", "")
		return
	}
	writeJSON(w, http.StatusOK, toView(b, p))
}

func canView(b *booking.Booking, p *Principal) bool {
	switch p.Role {
	case booking.RoleAdmin:
		return true
	case booking.RoleUser:
		return b.CustomerID == p.UID
	case booking.RoleProvider:
		return b.ProviderID != nil && *b.ProviderID == p.UID || contains(b.CandidateList, p.UID)
	default:
		return false
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (h *bookingHandlers) pay(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	intent, err := h.engine.Pay(r.Context(), id, p.UID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"payment_intent_id": intent.ProviderRef,
		"status":            intent.Status,
		"amount":            intent.AmountCents,
		"currency":          intent.Currency,
	})
}

func (h *bookingHandlers) accept(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	b, err := h.engine.Accept(r.Context(), id, p.UID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

func (h *bookingHandlers) travel(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	b, err := h.engine.Travel(r.Context(), id, p.UID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

func (h *bookingHandlers) arrived(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	b, err := h.engine.Arrived(r.Context(), id, p.UID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

type startRequest struct {
	OTP string `json:"otp"`
}

func (h *bookingHandlers) start(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", apperr.CodeValidation)
		return
	}
	b, err := h.engine.Start(r.Context(), id, p.UID, req.OTP)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

func (h *bookingHandlers) complete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	b, err := h.engine.CompleteWithCapture(r.Context(), id, p.UID)
	if err != nil {
		if apperr.IsKind(err, apperr.Conflict) {
			writeError(w, http.StatusConflict, err.Error(), apperr.CodeCaptureFailed)
			return
		}
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

func (h *bookingHandlers) providerComplete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	b, err := h.engine.ProviderComplete(r.Context(), id, p.UID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

func (h *bookingHandlers) confirmComplete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	b, err := h.engine.ConfirmComplete(r.Context(), id, p.UID)
	if err != nil {
		if apperr.IsKind(err, apperr.Conflict) {
			writeError(w, http.StatusConflict, err.Error(), apperr.CodeCaptureFailed)
			return
		}
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

func (h *bookingHandlers) cancel(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	b, err := h.engine.Cancel(r.Context(), id, p.Role, p.UID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

func (h *bookingHandlers) providerCancel(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	b, err := h.engine.ProviderCancel(r.Context(), id, p.UID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

type issueRequest struct {
	Reason string `json:"reason"`
}

func (h *bookingHandlers) issue(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", apperr.CodeValidation)
		return
	}
	if len(req.Reason) < 5 {
		writeError(w, http.StatusBadRequest, "reason must be at least 5 characters", apperr.CodeValidation)
		return
	}
	b, err := h.engine.IssueFlag(r.Context(), id, p.UID, req.Reason)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": b.Status})
}

func (h *bookingHandlers) listMine(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	f := parseListFilter(r)
	bs, err := h.engine.ListForCustomer(r.Context(), p.UID, f)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toViews(bs, p))
}

func (h *bookingHandlers) listClaimed(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	f := parseListFilter(r)
	bs, err := h.engine.ListForProvider(r.Context(), p.UID, f)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toViews(bs, p))
}

func parseListFilter(r *http.Request) booking.ListFilter {
	q := r.URL.Query()
	f := booking.ListFilter{Status: booking.Status(q.Get("status"))}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Offset = n
		}
	}
	return f
}

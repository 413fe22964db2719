package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mdiaw/comptabook/internal/api/request"
	"github.com/mdiaw/comptabook/internal/api/response"
	"github.com/mdiaw/comptabook/internal/core"
	"github.com/mdiaw/comptabook/internal/filestore"
)

type Subscription struct {
	svc   *core.SubscriptionService
	files filestore.Store
}

func NewSubscription(svc *core.SubscriptionService, files filestore.Store) *Subscription {
	return &Subscription{svc: svc, files: files}
}

// Create opens a plan purchase (initial, renewal or upgrade) for the tenant.
// It starts pending validation; the derived status stays expired until an
// administrator validates the payment proof.
func (h *Subscription) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.CreateSubscription
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.svc.Create(r.Context(), tenantID, req.PlanID, req.Kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Subscription) ListByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	pg := request.ParsePagination(r)
	subs, hasMore, err := h.svc.ListByTenant(r.Context(), tenantID, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(subs) > 0 {
		nextCursor = subs[len(subs)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, subs, nextCursor, hasMore)
}

func (h *Subscription) Current(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.svc.Current(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sub)
}

// AttachProof stores the payment proof file and records its path on the
// pending subscription.
func (h *Subscription) AttachProof(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.AttachSubscriptionProof
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, _, err := decodeUpload(req.ContentBase64, req.FileSizeBytes)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	proofPath := filestore.SubscriptionProofPath(sub.TenantID, sub.ID, req.FileName)
	if err := storeUpload(r.Context(), h.files, proofPath, data); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.svc.AttachProof(r.Context(), id, proofPath); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Validate accepts the payment proof and activates the subscription.
func (h *Subscription) Validate(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.svc.Validate(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sub)
}

func (h *Subscription) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.RejectSubscription
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Reject(r.Context(), id, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

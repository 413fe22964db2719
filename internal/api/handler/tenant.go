package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mdiaw/comptabook/internal/api/request"
	"github.com/mdiaw/comptabook/internal/api/response"
	"github.com/mdiaw/comptabook/internal/core"
	"github.com/mdiaw/comptabook/internal/filestore"
	"github.com/mdiaw/comptabook/internal/model"
	"github.com/mdiaw/comptabook/internal/platform"
)

type Tenant struct {
	svc    *core.TenantService
	files  filestore.Store
	logger zerolog.Logger
}

func NewTenant(svc *core.TenantService, files filestore.Store, logger zerolog.Logger) *Tenant {
	return &Tenant{svc: svc, files: files, logger: logger}
}

func (h *Tenant) List(w http.ResponseWriter, r *http.Request) {
	params := request.ParseListParams(r, "created_at")

	tenants, hasMore, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(tenants) > 0 {
		nextCursor = tenants[len(tenants)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, tenants, nextCursor, hasMore)
}

// Register creates a tenant awaiting approval.
func (h *Tenant) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterTenant
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	tenant := &model.Tenant{
		ID:             platform.NewShortID("ten"),
		Name:           req.Name,
		RegistrationNo: req.RegistrationNo,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		ApprovalState:  model.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.svc.Register(r.Context(), tenant); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, tenant)
}

func (h *Tenant) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenant, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, tenant)
}

func (h *Tenant) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Approve(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Tenant) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.RejectTenant
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

func (h *Tenant) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.RequestTenantDeletion
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.RequestDeletion(r.Context(), id, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConfirmDeletion hard-deletes the tenant and everything it owns, then
// removes the freed files from the object store.
func (h *Tenant) ConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	paths, err := h.svc.ConfirmDeletion(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	removeFiles(r.Context(), h.files, h.logger, paths)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Tenant) RejectDeletionRequest(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.RejectDeletionRequest(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

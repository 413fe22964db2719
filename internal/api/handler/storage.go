package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mdiaw/comptabook/internal/api/request"
	"github.com/mdiaw/comptabook/internal/api/response"
	"github.com/mdiaw/comptabook/internal/core"
)

type Storage struct {
	svc *core.StorageService
}

func NewStorage(svc *core.StorageService) *Storage {
	return &Storage{svc: svc}
}

// Usage reports the tenant's storage consumption against its current quota.
func (h *Storage) Usage(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	usage, err := h.svc.Usage(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, usage)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mdiaw/comptabook/internal/api/request"
	"github.com/mdiaw/comptabook/internal/api/response"
	"github.com/mdiaw/comptabook/internal/core"
	"github.com/mdiaw/comptabook/internal/filestore"
	"github.com/mdiaw/comptabook/internal/model"
	"github.com/mdiaw/comptabook/internal/platform"
)

type Document struct {
	svc    *core.DocumentService
	files  filestore.Store
	logger zerolog.Logger
}

func NewDocument(svc *core.DocumentService, files filestore.Store, logger zerolog.Logger) *Document {
	return &Document{svc: svc, files: files, logger: logger}
}

// Create registers an accounting document for the tenant. Quota is reserved
// inside the service transaction; the file bytes (when inlined) land in the
// object store first, so a quota refusal leaves at worst an orphaned object,
// never a row without a file.
func (h *Document) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.CreateDocument
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, size, err := decodeUpload(req.ContentBase64, req.FileSizeBytes)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	docID := platform.NewShortID("doc")
	filePath := filestore.DocumentPath(tenantID, docID, req.FileName)
	if err := storeUpload(r.Context(), h.files, filePath, data); err != nil {
		writeServiceError(w, err)
		return
	}

	doc := &model.Document{
		ID:           docID,
		TenantID:     tenantID,
		Type:         req.Type,
		Amount:       req.Amount,
		DocumentDate: req.DocumentDate,
		FileName:     req.FileName,
		FilePath:     filePath,
		FileSize:     size,
	}

	if err := h.svc.Create(r.Context(), doc); err != nil {
		removeFiles(r.Context(), h.files, h.logger, pathsIfStored(data, filePath))
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Document) ListByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	pg := request.ParsePagination(r)
	docs, hasMore, err := h.svc.ListByTenant(r.Context(), tenantID, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(docs) > 0 {
		nextCursor = docs[len(docs)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, docs, nextCursor, hasMore)
}

func (h *Document) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, doc)
}

func (h *Document) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SetDocumentStatus
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.SetStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Document) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.RenameDocument
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Rename(r.Context(), id, req.FileName); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the document and its payment proofs, then the files they
// pointed at.
func (h *Document) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	paths, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	removeFiles(r.Context(), h.files, h.logger, paths)
	w.WriteHeader(http.StatusNoContent)
}

// AttachProof records a payment proof against the document, under the same
// quota reservation as document creation.
func (h *Document) AttachProof(w http.ResponseWriter, r *http.Request) {
	documentID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.AttachPaymentProof
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.svc.GetByID(r.Context(), documentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, size, err := decodeUpload(req.ContentBase64, req.FileSizeBytes)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	proofID := platform.NewShortID("pp")
	proofPath := filestore.ProofPath(doc.TenantID, doc.ID, proofID, req.FileName)
	if err := storeUpload(r.Context(), h.files, proofPath, data); err != nil {
		writeServiceError(w, err)
		return
	}

	proof := &model.PaymentProof{
		ID:          proofID,
		DocumentID:  doc.ID,
		PaymentMode: req.PaymentMode,
		ProofDate:   req.ProofDate,
		FilePath:    proofPath,
		FileSize:    size,
	}

	if err := h.svc.AttachProof(r.Context(), proof); err != nil {
		removeFiles(r.Context(), h.files, h.logger, pathsIfStored(data, proofPath))
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, proof)
}

func (h *Document) ListProofs(w http.ResponseWriter, r *http.Request) {
	documentID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	proofs, err := h.svc.ListProofs(r.Context(), documentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, proofs)
}

// pathsIfStored returns the object path to clean up when inline content was
// actually written.
func pathsIfStored(data []byte, path string) []string {
	if data == nil {
		return nil
	}
	return []string{path}
}

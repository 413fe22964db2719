package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mdiaw/comptabook/internal/api/response"
	"github.com/mdiaw/comptabook/internal/core"
	"github.com/mdiaw/comptabook/internal/filestore"
)

// writeServiceError maps the core sentinel errors onto HTTP statuses.
// Anything unrecognized is an infrastructure failure: 500, retryable.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrTenantNotApproved):
		status = http.StatusForbidden
	case errors.Is(err, core.ErrInvalidState), errors.Is(err, core.ErrQuotaExceeded):
		status = http.StatusConflict
	case errors.Is(err, core.ErrMissingProof), errors.Is(err, core.ErrNoActiveSubscription):
		status = http.StatusUnprocessableEntity
	}
	response.WriteError(w, status, err.Error())
}

// decodeUpload resolves the uploaded file's bytes and size. When content
// rides along base64-encoded, the decoded length is authoritative over the
// declared size.
func decodeUpload(contentBase64 string, declaredSize int64) ([]byte, int64, error) {
	if contentBase64 == "" {
		return nil, declaredSize, nil
	}
	data, err := base64.StdEncoding.DecodeString(contentBase64)
	if err != nil {
		return nil, 0, fmt.Errorf("decode file content: %w", err)
	}
	return data, int64(len(data)), nil
}

// storeUpload writes inline file content to the object store. A nil data
// slice means the file was uploaded out of band; nothing to do.
func storeUpload(ctx context.Context, files filestore.Store, objectPath string, data []byte) error {
	if data == nil {
		return nil
	}
	return files.Put(ctx, objectPath, data, "application/octet-stream")
}

// removeFiles deletes freed objects after a committed cascade. Failures are
// logged, not surfaced: the database rows are already gone and the orphaned
// objects are harmless.
func removeFiles(ctx context.Context, files filestore.Store, logger zerolog.Logger, paths []string) {
	if len(paths) == 0 {
		return
	}
	if err := files.Remove(ctx, paths...); err != nil {
		logger.Error().Err(err).Int("count", len(paths)).Msg("failed to remove freed files")
	}
}

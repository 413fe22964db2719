package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newSubscriptionHandler() *Subscription {
	return NewSubscription(nil, nil)
}

// --- Create ---

func TestSubscriptionCreate_InvalidJSON(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/tenants/"+validID+"/subscriptions", "{bad json")
	r = withChiURLParam(r, "id", validID)

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

func TestSubscriptionCreate_MissingPlanID(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants/"+validID+"/subscriptions", map[string]any{
		"kind": "initial",
	})
	r = withChiURLParam(r, "id", validID)

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestSubscriptionCreate_UnknownKind(t *testing.T) {
	tests := []string{"trial", "INITIAL", "monthly", ""}
	for _, kind := range tests {
		t.Run("kind "+kind, func(t *testing.T) {
			h := newSubscriptionHandler()
			rec := httptest.NewRecorder()
			r := newRequest(http.MethodPost, "/tenants/"+validID+"/subscriptions", map[string]any{
				"plan_id": "plan-basic",
				"kind":    kind,
			})
			r = withChiURLParam(r, "id", validID)

			h.Create(rec, r)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeErrorResponse(rec)
			assert.Contains(t, body["error"], "validation error")
		})
	}
}

func TestSubscriptionCreate_MissingTenantID(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants//subscriptions", map[string]any{
		"plan_id": "plan-basic",
		"kind":    "initial",
	})
	r = withChiURLParam(r, "id", "")

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- AttachProof ---

func TestSubscriptionAttachProof_MissingFileName(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/subscriptions/"+validID+"/proof", map[string]any{
		"file_size_bytes": 2048,
	})
	r = withChiURLParam(r, "id", validID)

	h.AttachProof(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestSubscriptionAttachProof_NoSizeNoContent(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/subscriptions/"+validID+"/proof", map[string]any{
		"file_name": "virement.pdf",
	})
	r = withChiURLParam(r, "id", validID)

	h.AttachProof(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestSubscriptionAttachProof_NegativeSize(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/subscriptions/"+validID+"/proof", map[string]any{
		"file_name":       "virement.pdf",
		"file_size_bytes": -1,
	})
	r = withChiURLParam(r, "id", validID)

	h.AttachProof(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscriptionAttachProof_BadBase64(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/subscriptions/"+validID+"/proof", map[string]any{
		"file_name":      "virement.pdf",
		"content_base64": "%%%not-base64%%%",
	})
	r = withChiURLParam(r, "id", validID)

	h.AttachProof(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Reject ---

func TestSubscriptionReject_MissingReason(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/subscriptions/"+validID+"/reject", map[string]any{})
	r = withChiURLParam(r, "id", validID)

	h.Reject(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

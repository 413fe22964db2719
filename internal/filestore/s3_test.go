package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentPath(t *testing.T) {
	p := DocumentPath("ten_abc", "doc_123", "facture.pdf")
	assert.Equal(t, "tenants/ten_abc/documents/doc_123/facture.pdf", p)
}

func TestProofPath(t *testing.T) {
	p := ProofPath("ten_abc", "doc_123", "pp_456", "recu.pdf")
	assert.Equal(t, "tenants/ten_abc/documents/doc_123/proofs/pp_456/recu.pdf", p)
}

func TestSubscriptionProofPath(t *testing.T) {
	p := SubscriptionProofPath("ten_abc", "sub_789", "virement.pdf")
	assert.Equal(t, "tenants/ten_abc/subscriptions/sub_789/virement.pdf", p)
}

func TestPaths_CleanSegments(t *testing.T) {
	// path.Join collapses empty segments instead of leaving double slashes.
	p := DocumentPath("ten_abc", "doc_123", "")
	assert.Equal(t, "tenants/ten_abc/documents/doc_123", p)
}

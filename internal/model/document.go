package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is an uploaded financial document. The file bytes live in the
// external object store; only the path and size are recorded here. FileSize
// counts against the tenant's plan quota.
type Document struct {
	ID           string          `json:"id" db:"id"`
	TenantID     string          `json:"tenant_id" db:"tenant_id"`
	Type         string          `json:"type" db:"type"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	DocumentDate time.Time       `json:"document_date" db:"document_date"`
	FileName     string          `json:"file_name" db:"file_name"`
	FilePath     string          `json:"file_path" db:"file_path"`
	FileSize     int64           `json:"file_size_bytes" db:"file_size_bytes"`
	Status       string          `json:"status" db:"status"`
	UploadedAt   time.Time       `json:"uploaded_at" db:"uploaded_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// PaymentProof is evidence of payment attached to a document. Immutable once
// created; removed only when its document is deleted. Its file size counts
// against the owning tenant's quota.
type PaymentProof struct {
	ID          string    `json:"id" db:"id"`
	DocumentID  string    `json:"document_id" db:"document_id"`
	PaymentMode string    `json:"payment_mode" db:"payment_mode"`
	ProofDate   time.Time `json:"proof_date" db:"proof_date"`
	FilePath    string    `json:"file_path" db:"file_path"`
	FileSize    int64     `json:"file_size_bytes" db:"file_size_bytes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// StorageUsage is the storage accountant's answer for one tenant.
type StorageUsage struct {
	UsedBytes      int64 `json:"used_bytes"`
	QuotaBytes     int64 `json:"quota_bytes"`
	AvailableBytes int64 `json:"available_bytes"`
}

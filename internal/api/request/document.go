package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateDocument struct {
	Type          string          `json:"type" validate:"required,oneof=purchase_invoice sale_invoice delivery_note"`
	Amount        decimal.Decimal `json:"amount"`
	DocumentDate  time.Time       `json:"document_date" validate:"required"`
	FileName      string          `json:"file_name" validate:"required"`
	FileSizeBytes int64           `json:"file_size_bytes" validate:"required_without=ContentBase64,omitempty,gt=0"`
	ContentBase64 string          `json:"content_base64" validate:"omitempty,base64"`
}

type SetDocumentStatus struct {
	Status string `json:"status" validate:"required,oneof=in_progress processed needs_review"`
}

type RenameDocument struct {
	FileName string `json:"file_name" validate:"required"`
}

type AttachPaymentProof struct {
	PaymentMode   string    `json:"payment_mode" validate:"required,oneof=check transfer cash other"`
	ProofDate     time.Time `json:"proof_date" validate:"required"`
	FileName      string    `json:"file_name" validate:"required"`
	FileSizeBytes int64     `json:"file_size_bytes" validate:"required_without=ContentBase64,omitempty,gt=0"`
	ContentBase64 string    `json:"content_base64" validate:"omitempty,base64"`
}

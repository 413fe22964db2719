package model

// Tenant approval states.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Subscription validation states.
const (
	ValidationPending   = "pending"
	ValidationValidated = "validated"
	ValidationRejected  = "rejected"
)

// Derived subscription statuses. Never stored; see SubscriptionStatus.
const (
	SubscriptionActive       = "active"
	SubscriptionExpiringSoon = "expiring_soon"
	SubscriptionExpired      = "expired"
)

// Subscription kinds.
const (
	KindInitial = "initial"
	KindRenewal = "renewal"
	KindUpgrade = "upgrade"
)

// Document processing statuses. No state is terminal.
const (
	DocumentInProgress  = "in_progress"
	DocumentProcessed   = "processed"
	DocumentNeedsReview = "needs_review"
)

// Document types.
const (
	DocTypePurchaseInvoice = "purchase_invoice"
	DocTypeSaleInvoice     = "sale_invoice"
	DocTypeDeliveryNote    = "delivery_note"
)

// Payment proof modes.
const (
	PaymentModeCheck    = "check"
	PaymentModeTransfer = "transfer"
	PaymentModeCash     = "cash"
	PaymentModeOther    = "other"
)

// ValidDocumentStatus reports whether s is one of the document workflow states.
func ValidDocumentStatus(s string) bool {
	switch s {
	case DocumentInProgress, DocumentProcessed, DocumentNeedsReview:
		return true
	}
	return false
}

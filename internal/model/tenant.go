package model

import "time"

// Tenant is a bookkeeping company account. ApprovalState gates every other
// operation: documents and subscriptions can only be created once approved.
type Tenant struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	RegistrationNo    string    `json:"registration_no" db:"registration_no"`
	ContactEmail      string    `json:"contact_email" db:"contact_email"`
	ContactPhone      string    `json:"contact_phone,omitempty" db:"contact_phone"`
	ApprovalState     string    `json:"approval_state" db:"approval_state"`
	RejectionReason   *string   `json:"rejection_reason,omitempty" db:"rejection_reason"`
	DeletionRequested bool      `json:"deletion_requested" db:"deletion_requested"`
	DeletionReason    *string   `json:"deletion_reason,omitempty" db:"deletion_reason"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

package model

import "time"

// Subscription is one plan purchase by a tenant. Rows are append-only:
// renewals and upgrades create new rows, history is kept for audit.
//
// Status is derived, never stored. The most recent row by start date is the
// tenant's current subscription.
type Subscription struct {
	ID              string    `json:"id" db:"id"`
	TenantID        string    `json:"tenant_id" db:"tenant_id"`
	PlanID          string    `json:"plan_id" db:"plan_id"`
	Kind            string    `json:"kind" db:"kind"`
	StartDate       time.Time `json:"start_date" db:"start_date"`
	EndDate         time.Time `json:"end_date" db:"end_date"`
	ValidationState string    `json:"validation_state" db:"validation_state"`
	RejectionReason *string   `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ProofPath       *string   `json:"proof_path,omitempty" db:"proof_path"`
	// Status is computed from ValidationState and EndDate at read time.
	Status    string    `json:"status" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SubscriptionStatus derives the subscription status from the validation
// state and the end date. Pure and idempotent: calling it twice with the
// same now yields the same result, so it is safe to evaluate on every read
// without coordination.
//
// A subscription that was never validated (or was rejected) is expired no
// matter what its dates say.
func SubscriptionStatus(validationState string, endDate time.Time, now time.Time, warnWindow time.Duration) string {
	if validationState != ValidationValidated {
		return SubscriptionExpired
	}
	if now.After(endDate) {
		return SubscriptionExpired
	}
	if !now.Before(endDate.Add(-warnWindow)) {
		return SubscriptionExpiringSoon
	}
	return SubscriptionActive
}

// Derive fills in the Status field from the stored columns.
func (s *Subscription) Derive(now time.Time, warnWindow time.Duration) {
	s.Status = SubscriptionStatus(s.ValidationState, s.EndDate, now, warnWindow)
}

// Usable reports whether the subscription currently permits writes
// (document uploads and payment proofs).
func (s *Subscription) Usable() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionExpiringSoon
}

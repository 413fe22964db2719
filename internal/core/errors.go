package core

import "errors"

// Business-rule rejections. These are terminal for the request: the caller
// gets them synchronously and retrying with the same inputs will fail the
// same way until the underlying state changes. Anything not wrapping one of
// these sentinels is an infrastructure failure and may be retried.
var (
	// ErrNotFound is returned when the addressed entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an operation is not legal from the
	// entity's current lifecycle state.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrMissingProof is returned when validating a subscription that has no
	// payment proof attached.
	ErrMissingProof = errors.New("payment proof missing")

	// ErrQuotaExceeded is returned when a write would push the tenant's
	// storage usage past its plan quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrTenantNotApproved is returned when a pending or rejected tenant
	// attempts an operation reserved for approved tenants.
	ErrTenantNotApproved = errors.New("tenant not approved")

	// ErrNoActiveSubscription is returned when an upload requires an active
	// or expiring-soon subscription and the tenant has none.
	ErrNoActiveSubscription = errors.New("no active subscription")
)

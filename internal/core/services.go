package core

import "time"

// Policy holds the tunable lifecycle parameters.
type Policy struct {
	// WarnWindow is how long before a subscription's end date its derived
	// status flips from active to expiring_soon.
	WarnWindow time.Duration
}

// DefaultPolicy matches the documented defaults (7 day warning window).
func DefaultPolicy() Policy {
	return Policy{WarnWindow: 7 * 24 * time.Hour}
}

type Services struct {
	Tenant       *TenantService
	Plan         *PlanService
	Subscription *SubscriptionService
	Document     *DocumentService
	Storage      *StorageService
	APIKey       *APIKeyService
}

func NewServices(db TxDB, policy Policy) *Services {
	return &Services{
		Tenant:       NewTenantService(db),
		Plan:         NewPlanService(db),
		Subscription: NewSubscriptionService(db, policy),
		Document:     NewDocumentService(db, policy),
		Storage:      NewStorageService(db, policy),
		APIKey:       NewAPIKeyService(db),
	}
}

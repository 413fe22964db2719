package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mdiaw/comptabook/internal/model"
)

// StorageService is the read-side storage accountant. Usage is always an SQL
// aggregate over the tenant's document and proof rows, never a cached total,
// so it stays consistent with concurrent writes (which aggregate inside
// their own transaction via the same helpers).
type StorageService struct {
	db         DB
	warnWindow time.Duration
	now        func() time.Time
}

func NewStorageService(db DB, policy Policy) *StorageService {
	return &StorageService{
		db:         db,
		warnWindow: policy.WarnWindow,
		now:        time.Now,
	}
}

// UsageOf sums file_size_bytes over all documents and payment proofs the
// tenant owns, transitively.
func (s *StorageService) UsageOf(ctx context.Context, tenantID string) (int64, error) {
	return tenantUsage(ctx, s.db, tenantID)
}

// QuotaOf returns the quota of the tenant's current plan, or zero when the
// tenant has no usable (active or expiring soon) subscription.
func (s *StorageService) QuotaOf(ctx context.Context, tenantID string) (int64, error) {
	quota, usable, err := currentQuota(ctx, s.db, tenantID, s.now(), s.warnWindow)
	if err != nil {
		return 0, err
	}
	if !usable {
		return 0, nil
	}
	return quota, nil
}

// CanAccommodate reports whether incoming bytes fit under the tenant's quota.
// Advisory only: the authoritative check runs inside the write transaction.
func (s *StorageService) CanAccommodate(ctx context.Context, tenantID string, incoming int64) (bool, error) {
	quota, err := s.QuotaOf(ctx, tenantID)
	if err != nil {
		return false, err
	}
	usage, err := s.UsageOf(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return usage+incoming <= quota, nil
}

// Usage returns the combined usage/quota view for one tenant.
func (s *StorageService) Usage(ctx context.Context, tenantID string) (*model.StorageUsage, error) {
	used, err := s.UsageOf(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	quota, err := s.QuotaOf(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	available := quota - used
	if available < 0 {
		available = 0
	}
	return &model.StorageUsage{UsedBytes: used, QuotaBytes: quota, AvailableBytes: available}, nil
}

// tenantUsage aggregates the tenant's stored bytes. Runs on the pool or
// inside a transaction, whichever q is.
func tenantUsage(ctx context.Context, q DB, tenantID string) (int64, error) {
	var usage int64
	err := q.QueryRow(ctx,
		`SELECT COALESCE((SELECT SUM(file_size_bytes) FROM documents WHERE tenant_id = $1), 0)
		      + COALESCE((SELECT SUM(pp.file_size_bytes) FROM payment_proofs pp
		                    JOIN documents d ON d.id = pp.document_id
		                  WHERE d.tenant_id = $1), 0)`, tenantID,
	).Scan(&usage)
	if err != nil {
		return 0, fmt.Errorf("storage usage for tenant %s: %w", tenantID, err)
	}
	return usage, nil
}

// currentQuota resolves the quota of the tenant's current subscription.
// usable is false when there is no subscription or its derived status does
// not permit writes.
func currentQuota(ctx context.Context, q DB, tenantID string, now time.Time, warnWindow time.Duration) (quota int64, usable bool, err error) {
	var validationState string
	var endDate time.Time
	err = q.QueryRow(ctx,
		`SELECT s.validation_state, s.end_date, p.quota_bytes
		 FROM subscriptions s
		 JOIN plans p ON p.id = s.plan_id
		 WHERE s.tenant_id = $1
		 ORDER BY s.start_date DESC, s.created_at DESC
		 LIMIT 1`, tenantID,
	).Scan(&validationState, &endDate, &quota)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("current quota for tenant %s: %w", tenantID, err)
	}

	status := model.SubscriptionStatus(validationState, endDate, now, warnWindow)
	if status != model.SubscriptionActive && status != model.SubscriptionExpiringSoon {
		return 0, false, nil
	}
	return quota, true, nil
}

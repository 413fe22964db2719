package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mdiaw/comptabook/internal/model"
	"github.com/mdiaw/comptabook/internal/platform"
)

// SubscriptionService validates, activates and supersedes plan purchases.
//
// Every creation starts validation_state=pending; the derived status stays
// expired until an administrator validates the payment proof. Renewals and
// upgrades insert new rows; the current subscription is always a query
// (latest start date), never a stored pointer.
type SubscriptionService struct {
	db         DB
	warnWindow time.Duration
	now        func() time.Time
}

func NewSubscriptionService(db DB, policy Policy) *SubscriptionService {
	return &SubscriptionService{
		db:         db,
		warnWindow: policy.WarnWindow,
		now:        time.Now,
	}
}

const subscriptionColumns = `id, tenant_id, plan_id, kind, start_date, end_date, validation_state, rejection_reason, proof_path, created_at, updated_at`

// Create opens a new subscription for an approved tenant. The provisional
// end date is start + plan term; it is recomputed at validation time.
func (s *SubscriptionService) Create(ctx context.Context, tenantID, planID, kind string) (*model.Subscription, error) {
	switch kind {
	case model.KindInitial, model.KindRenewal, model.KindUpgrade:
	default:
		return nil, fmt.Errorf("subscription kind %q: %w", kind, ErrInvalidState)
	}

	var approvalState string
	err := s.db.QueryRow(ctx, `SELECT approval_state FROM tenants WHERE id = $1`, tenantID).Scan(&approvalState)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("check tenant %s: %w", tenantID, err)
	}
	if approvalState != model.ApprovalApproved {
		return nil, fmt.Errorf("tenant %s is %s: %w", tenantID, approvalState, ErrTenantNotApproved)
	}

	var termDays int
	err = s.db.QueryRow(ctx, `SELECT term_days FROM plans WHERE id = $1`, planID).Scan(&termDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", planID, err)
	}

	now := s.now()
	sub := &model.Subscription{
		ID:              platform.NewID(),
		TenantID:        tenantID,
		PlanID:          planID,
		Kind:            kind,
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, termDays),
		ValidationState: model.ValidationPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO subscriptions (id, tenant_id, plan_id, kind, start_date, end_date, validation_state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sub.ID, sub.TenantID, sub.PlanID, sub.Kind, sub.StartDate, sub.EndDate,
		sub.ValidationState, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}

	sub.Derive(now, s.warnWindow)
	return sub, nil
}

// AttachProof records the payment proof file for a pending subscription.
func (s *SubscriptionService) AttachProof(ctx context.Context, id, proofPath string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE subscriptions SET proof_path = $1, updated_at = now()
		 WHERE id = $2 AND validation_state = $3`,
		proofPath, id, model.ValidationPending,
	)
	if err != nil {
		return fmt.Errorf("attach proof to subscription %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.stateConflict(ctx, id, "attach proof to")
	}
	return nil
}

// Validate accepts the payment proof and activates the subscription: the end
// date becomes start + plan term and the derived status turns active.
func (s *SubscriptionService) Validate(ctx context.Context, id string) (*model.Subscription, error) {
	sub, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.ValidationState != model.ValidationPending {
		return nil, fmt.Errorf("validate subscription %s in state %s: %w", id, sub.ValidationState, ErrInvalidState)
	}
	if sub.ProofPath == nil || *sub.ProofPath == "" {
		return nil, fmt.Errorf("validate subscription %s: %w", id, ErrMissingProof)
	}

	var termDays int
	err = s.db.QueryRow(ctx, `SELECT term_days FROM plans WHERE id = $1`, sub.PlanID).Scan(&termDays)
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", sub.PlanID, err)
	}

	// The state predicate guards against a concurrent Reject landing between
	// the read above and this write.
	endDate := sub.StartDate.AddDate(0, 0, termDays)
	tag, err := s.db.Exec(ctx,
		`UPDATE subscriptions SET validation_state = $1, end_date = $2, updated_at = now()
		 WHERE id = $3 AND validation_state = $4`,
		model.ValidationValidated, endDate, id, model.ValidationPending,
	)
	if err != nil {
		return nil, fmt.Errorf("validate subscription %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, s.stateConflict(ctx, id, "validate")
	}

	sub.ValidationState = model.ValidationValidated
	sub.EndDate = endDate
	sub.Derive(s.now(), s.warnWindow)
	return sub, nil
}

// Reject refuses the payment proof. The subscription stays on record but its
// derived status is expired from now on.
func (s *SubscriptionService) Reject(ctx context.Context, id, reason string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE subscriptions SET validation_state = $1, rejection_reason = $2, updated_at = now()
		 WHERE id = $3 AND validation_state = $4`,
		model.ValidationRejected, reason, id, model.ValidationPending,
	)
	if err != nil {
		return fmt.Errorf("reject subscription %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.stateConflict(ctx, id, "reject")
	}
	return nil
}

func (s *SubscriptionService) GetByID(ctx context.Context, id string) (*model.Subscription, error) {
	var sub model.Subscription
	err := s.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.TenantID, &sub.PlanID, &sub.Kind, &sub.StartDate, &sub.EndDate,
		&sub.ValidationState, &sub.RejectionReason, &sub.ProofPath, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("subscription %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", id, err)
	}
	sub.Derive(s.now(), s.warnWindow)
	return &sub, nil
}

// Current returns the tenant's most recent subscription with its status
// recomputed from the stored dates. No explicit transition is needed for a
// subscription to expire: crossing the end date is enough.
func (s *SubscriptionService) Current(ctx context.Context, tenantID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := s.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE tenant_id = $1
		 ORDER BY start_date DESC, created_at DESC
		 LIMIT 1`, tenantID,
	).Scan(&sub.ID, &sub.TenantID, &sub.PlanID, &sub.Kind, &sub.StartDate, &sub.EndDate,
		&sub.ValidationState, &sub.RejectionReason, &sub.ProofPath, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("current subscription for tenant %s: %w", tenantID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("current subscription for tenant %s: %w", tenantID, err)
	}
	sub.Derive(s.now(), s.warnWindow)
	return &sub, nil
}

// ListByTenant returns the tenant's full subscription history, newest first.
func (s *SubscriptionService) ListByTenant(ctx context.Context, tenantID string, limit int, cursor string) ([]model.Subscription, bool, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE tenant_id = $1`
	args := []any{tenantID}
	argIdx := 2

	if cursor != "" {
		query += fmt.Sprintf(` AND id > $%d`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY start_date DESC, created_at DESC`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list subscriptions for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	now := s.now()
	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		if err := rows.Scan(&sub.ID, &sub.TenantID, &sub.PlanID, &sub.Kind, &sub.StartDate, &sub.EndDate,
			&sub.ValidationState, &sub.RejectionReason, &sub.ProofPath, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scan subscription: %w", err)
		}
		sub.Derive(now, s.warnWindow)
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate subscriptions: %w", err)
	}

	hasMore := len(subs) > limit
	if hasMore {
		subs = subs[:limit]
	}
	return subs, hasMore, nil
}

func (s *SubscriptionService) stateConflict(ctx context.Context, id, verb string) error {
	var state string
	err := s.db.QueryRow(ctx, `SELECT validation_state FROM subscriptions WHERE id = $1`, id).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("subscription %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", id, err)
	}
	return fmt.Errorf("%s subscription %s in state %s: %w", verb, id, state, ErrInvalidState)
}

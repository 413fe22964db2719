package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mdiaw/comptabook/internal/api/request"
	"github.com/mdiaw/comptabook/internal/model"
)

// TenantService runs the company onboarding and deletion-request workflow.
//
// Approval is a one-way gate: pending tenants can be approved or rejected,
// nothing else. Deletion is two-phase: the tenant requests it, an
// administrator confirms (cascading hard delete) or rejects (flag cleared).
type TenantService struct {
	db TxDB
}

func NewTenantService(db TxDB) *TenantService {
	return &TenantService{db: db}
}

// Register creates a new tenant in the pending approval state.
func (s *TenantService) Register(ctx context.Context, tenant *model.Tenant) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tenants (id, name, registration_no, contact_email, contact_phone, approval_state, deletion_requested, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)`,
		tenant.ID, tenant.Name, tenant.RegistrationNo, tenant.ContactEmail, tenant.ContactPhone,
		tenant.ApprovalState, tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *TenantService) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	var t model.Tenant
	err := s.db.QueryRow(ctx,
		`SELECT id, name, registration_no, contact_email, contact_phone, approval_state, rejection_reason,
		        deletion_requested, deletion_reason, created_at, updated_at
		 FROM tenants WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.RegistrationNo, &t.ContactEmail, &t.ContactPhone, &t.ApprovalState,
		&t.RejectionReason, &t.DeletionRequested, &t.DeletionReason, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenant %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant %s: %w", id, err)
	}
	return &t, nil
}

func (s *TenantService) List(ctx context.Context, params request.ListParams) ([]model.Tenant, bool, error) {
	query := `SELECT id, name, registration_no, contact_email, contact_phone, approval_state, rejection_reason,
	                 deletion_requested, deletion_reason, created_at, updated_at
	          FROM tenants WHERE 1=1`
	args := []any{}
	argIdx := 1

	if params.Search != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR registration_no ILIKE $%d)`, argIdx, argIdx)
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.Status != "" {
		query += fmt.Sprintf(` AND approval_state = $%d`, argIdx)
		args = append(args, params.Status)
		argIdx++
	}
	if params.Cursor != "" {
		query += fmt.Sprintf(` AND id > $%d`, argIdx)
		args = append(args, params.Cursor)
		argIdx++
	}

	sortCol := "created_at"
	switch params.Sort {
	case "name":
		sortCol = "name"
	case "approval_state":
		sortCol = "approval_state"
	}
	order := "DESC"
	if params.Order == "asc" {
		order = "ASC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s`, sortCol, order)
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, params.Limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		var t model.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.RegistrationNo, &t.ContactEmail, &t.ContactPhone,
			&t.ApprovalState, &t.RejectionReason, &t.DeletionRequested, &t.DeletionReason,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate tenants: %w", err)
	}

	hasMore := len(tenants) > params.Limit
	if hasMore {
		tenants = tenants[:params.Limit]
	}
	return tenants, hasMore, nil
}

// Approve moves a pending tenant to approved.
func (s *TenantService) Approve(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET approval_state = $1, updated_at = now()
		 WHERE id = $2 AND approval_state = $3`,
		model.ApprovalApproved, id, model.ApprovalPending,
	)
	if err != nil {
		return fmt.Errorf("approve tenant %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.stateConflict(ctx, id, "approve")
	}
	return nil
}

// Reject moves a pending tenant to rejected, recording the reason.
func (s *TenantService) Reject(ctx context.Context, id, reason string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET approval_state = $1, rejection_reason = $2, updated_at = now()
		 WHERE id = $3 AND approval_state = $4`,
		model.ApprovalRejected, reason, id, model.ApprovalPending,
	)
	if err != nil {
		return fmt.Errorf("reject tenant %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.stateConflict(ctx, id, "reject")
	}
	return nil
}

// RequestDeletion flags an approved tenant for deletion. The tenant keeps
// operating until an administrator confirms.
func (s *TenantService) RequestDeletion(ctx context.Context, id, reason string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET deletion_requested = true, deletion_reason = $1, updated_at = now()
		 WHERE id = $2 AND approval_state = $3 AND NOT deletion_requested`,
		reason, id, model.ApprovalApproved,
	)
	if err != nil {
		return fmt.Errorf("request deletion for tenant %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.stateConflict(ctx, id, "request deletion for")
	}
	return nil
}

// RejectDeletionRequest clears the deletion flag and discards the reason.
// The tenant and all its data remain intact.
func (s *TenantService) RejectDeletionRequest(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET deletion_requested = false, deletion_reason = NULL, updated_at = now()
		 WHERE id = $1 AND deletion_requested`,
		id,
	)
	if err != nil {
		return fmt.Errorf("reject deletion request for tenant %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.stateConflict(ctx, id, "reject deletion request for")
	}
	return nil
}

// ConfirmDeletion permanently removes the tenant and everything it owns:
// payment proofs, documents, subscriptions, then the tenant row, all in one
// transaction so an interrupted cascade leaves no orphans. It returns the
// object-store paths freed by the cascade so the caller can remove the files.
func (s *TenantService) ConfirmDeletion(ctx context.Context, id string) ([]string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin deletion of tenant %s: %w", id, err)
	}
	defer tx.Rollback(ctx)

	var requested bool
	err = tx.QueryRow(ctx,
		`SELECT deletion_requested FROM tenants WHERE id = $1 FOR UPDATE`, id,
	).Scan(&requested)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenant %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock tenant %s: %w", id, err)
	}
	if !requested {
		return nil, fmt.Errorf("confirm deletion of tenant %s: deletion not requested: %w", id, ErrInvalidState)
	}

	// Collect every file the tenant owns before the rows disappear.
	rows, err := tx.Query(ctx,
		`SELECT file_path FROM documents WHERE tenant_id = $1
		 UNION ALL
		 SELECT pp.file_path FROM payment_proofs pp
		   JOIN documents d ON d.id = pp.document_id
		 WHERE d.tenant_id = $1
		 UNION ALL
		 SELECT proof_path FROM subscriptions WHERE tenant_id = $1 AND proof_path IS NOT NULL`, id)
	if err != nil {
		return nil, fmt.Errorf("collect file paths for tenant %s: %w", id, err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan file path: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file paths: %w", err)
	}

	// Bottom-up: children before parents.
	steps := []struct {
		desc string
		sql  string
	}{
		{"payment proofs", `DELETE FROM payment_proofs pp USING documents d WHERE pp.document_id = d.id AND d.tenant_id = $1`},
		{"documents", `DELETE FROM documents WHERE tenant_id = $1`},
		{"subscriptions", `DELETE FROM subscriptions WHERE tenant_id = $1`},
		{"tenant", `DELETE FROM tenants WHERE id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step.sql, id); err != nil {
			return nil, fmt.Errorf("delete %s for tenant %s: %w", step.desc, id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit deletion of tenant %s: %w", id, err)
	}
	return paths, nil
}

// stateConflict turns a zero-row conditional update into the right error:
// NotFound when the tenant does not exist, InvalidState otherwise.
func (s *TenantService) stateConflict(ctx context.Context, id, verb string) error {
	var state string
	err := s.db.QueryRow(ctx, `SELECT approval_state FROM tenants WHERE id = $1`, id).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("tenant %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check tenant %s: %w", id, err)
	}
	return fmt.Errorf("%s tenant %s in state %s: %w", verb, id, state, ErrInvalidState)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mdiaw/comptabook/internal/model"
)

// DocumentService runs the per-document processing workflow and the quota
// reservation that guards every byte written on a tenant's behalf.
//
// Creating a document or attaching a proof is a single serializable unit:
// the tenant row is locked, usage is aggregated, the quota check runs, and
// the insert lands, all in one transaction. Two concurrent uploads cannot
// both pass the check against the same stale total.
type DocumentService struct {
	db         TxDB
	warnWindow time.Duration
	now        func() time.Time
}

func NewDocumentService(db TxDB, policy Policy) *DocumentService {
	return &DocumentService{
		db:         db,
		warnWindow: policy.WarnWindow,
		now:        time.Now,
	}
}

const documentColumns = `id, tenant_id, type, amount, document_date, file_name, file_path, file_size_bytes, status, uploaded_at, updated_at`

// Create inserts a new document for the tenant after reserving quota.
// The document starts in_progress. ID, status and timestamps are set here.
func (s *DocumentService) Create(ctx context.Context, doc *model.Document) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin document create: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.reserveQuota(ctx, tx, doc.TenantID, doc.FileSize); err != nil {
		return err
	}

	now := s.now()
	doc.Status = model.DocumentInProgress
	doc.UploadedAt = now
	doc.UpdatedAt = now

	_, err = tx.Exec(ctx,
		`INSERT INTO documents (id, tenant_id, type, amount, document_date, file_name, file_path, file_size_bytes, status, uploaded_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		doc.ID, doc.TenantID, doc.Type, doc.Amount, doc.DocumentDate, doc.FileName,
		doc.FilePath, doc.FileSize, doc.Status, doc.UploadedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit document create: %w", err)
	}
	return nil
}

// AttachProof inserts a payment proof for the document under the same quota
// reservation as document creation, scoped to the owning tenant.
func (s *DocumentService) AttachProof(ctx context.Context, proof *model.PaymentProof) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin proof attach: %w", err)
	}
	defer tx.Rollback(ctx)

	var tenantID string
	err = tx.QueryRow(ctx, `SELECT tenant_id FROM documents WHERE id = $1`, proof.DocumentID).Scan(&tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("document %s: %w", proof.DocumentID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get document %s: %w", proof.DocumentID, err)
	}

	if err := s.reserveQuota(ctx, tx, tenantID, proof.FileSize); err != nil {
		return err
	}

	proof.CreatedAt = s.now()
	_, err = tx.Exec(ctx,
		`INSERT INTO payment_proofs (id, document_id, payment_mode, proof_date, file_path, file_size_bytes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		proof.ID, proof.DocumentID, proof.PaymentMode, proof.ProofDate,
		proof.FilePath, proof.FileSize, proof.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment proof: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit proof attach: %w", err)
	}
	return nil
}

// reserveQuota locks the tenant row, verifies the tenant may write at all,
// and checks that incoming bytes fit under the current plan quota. Must run
// inside the transaction that performs the insert.
func (s *DocumentService) reserveQuota(ctx context.Context, tx pgx.Tx, tenantID string, incoming int64) error {
	var approvalState string
	err := tx.QueryRow(ctx, `SELECT approval_state FROM tenants WHERE id = $1 FOR UPDATE`, tenantID).Scan(&approvalState)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("tenant %s: %w", tenantID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock tenant %s: %w", tenantID, err)
	}
	if approvalState != model.ApprovalApproved {
		return fmt.Errorf("tenant %s is %s: %w", tenantID, approvalState, ErrTenantNotApproved)
	}

	quota, usable, err := currentQuota(ctx, tx, tenantID, s.now(), s.warnWindow)
	if err != nil {
		return err
	}
	if !usable {
		return fmt.Errorf("tenant %s: %w", tenantID, ErrNoActiveSubscription)
	}

	usage, err := tenantUsage(ctx, tx, tenantID)
	if err != nil {
		return err
	}
	if usage+incoming > quota {
		return fmt.Errorf("tenant %s: %d + %d bytes over %d quota: %w",
			tenantID, usage, incoming, quota, ErrQuotaExceeded)
	}
	return nil
}

func (s *DocumentService) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var d model.Document
	err := s.db.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.TenantID, &d.Type, &d.Amount, &d.DocumentDate, &d.FileName,
		&d.FilePath, &d.FileSize, &d.Status, &d.UploadedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return &d, nil
}

func (s *DocumentService) ListByTenant(ctx context.Context, tenantID string, limit int, cursor string) ([]model.Document, bool, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE tenant_id = $1`
	args := []any{tenantID}
	argIdx := 2

	if cursor != "" {
		query += fmt.Sprintf(` AND id > $%d`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list documents for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Type, &d.Amount, &d.DocumentDate, &d.FileName,
			&d.FilePath, &d.FileSize, &d.Status, &d.UploadedAt, &d.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate documents: %w", err)
	}

	hasMore := len(docs) > limit
	if hasMore {
		docs = docs[:limit]
	}
	return docs, hasMore, nil
}

// SetStatus moves the document between workflow states. Any transition
// between the three states is legal; none is terminal.
func (s *DocumentService) SetStatus(ctx context.Context, id, status string) error {
	if !model.ValidDocumentStatus(status) {
		return fmt.Errorf("document status %q: %w", status, ErrInvalidState)
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE documents SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("set document %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

// Rename changes the display file name. Unrestricted by workflow state.
func (s *DocumentService) Rename(ctx context.Context, id, fileName string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE documents SET file_name = $1, updated_at = now() WHERE id = $2`,
		fileName, id,
	)
	if err != nil {
		return fmt.Errorf("rename document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the document and all its payment proofs in one
// transaction, freeing their quota contribution. It returns the
// object-store paths of the removed files.
func (s *DocumentService) Delete(ctx context.Context, id string) ([]string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin document delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var docPath string
	err = tx.QueryRow(ctx, `SELECT file_path FROM documents WHERE id = $1 FOR UPDATE`, id).Scan(&docPath)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock document %s: %w", id, err)
	}

	paths := []string{docPath}
	rows, err := tx.Query(ctx, `SELECT file_path FROM payment_proofs WHERE document_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("list proofs of document %s: %w", id, err)
	}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan proof path: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proof paths: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM payment_proofs WHERE document_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete proofs of document %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete document %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit document delete: %w", err)
	}
	return paths, nil
}

// ListProofs returns the payment proofs attached to a document.
func (s *DocumentService) ListProofs(ctx context.Context, documentID string) ([]model.PaymentProof, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, document_id, payment_mode, proof_date, file_path, file_size_bytes, created_at
		 FROM payment_proofs WHERE document_id = $1 ORDER BY created_at`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list proofs of document %s: %w", documentID, err)
	}
	defer rows.Close()

	var proofs []model.PaymentProof
	for rows.Next() {
		var p model.PaymentProof
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.PaymentMode, &p.ProofDate,
			&p.FilePath, &p.FileSize, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment proof: %w", err)
		}
		proofs = append(proofs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment proofs: %w", err)
	}
	return proofs, nil
}

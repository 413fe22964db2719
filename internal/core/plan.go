package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mdiaw/comptabook/internal/model"
)

// PlanService reads the plan catalog. Plans are reference data: the engine
// never writes them, the catalog sync does.
type PlanService struct {
	db DB
}

func NewPlanService(db DB) *PlanService {
	return &PlanService{db: db}
}

func (s *PlanService) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	var p model.Plan
	err := s.db.QueryRow(ctx,
		`SELECT id, name, quota_bytes, price, term_days, created_at
		 FROM plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.QuotaBytes, &p.Price, &p.TermDays, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}
	return &p, nil
}

func (s *PlanService) List(ctx context.Context) ([]model.Plan, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, quota_bytes, price, term_days, created_at
		 FROM plans ORDER BY price`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.QuotaBytes, &p.Price, &p.TermDays, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}

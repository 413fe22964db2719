// Package catalog loads the plan catalog from a YAML seed file and syncs it
// into the plans table. Plans are reference data: the engine only reads them.
package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mdiaw/comptabook/internal/core"
	"github.com/mdiaw/comptabook/internal/model"
)

type planDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	QuotaBytes int64  `yaml:"quota_bytes"`
	Price      string `yaml:"price"`
	TermDays   int    `yaml:"term_days"`
}

type catalogFile struct {
	Plans []planDef `yaml:"plans"`
}

// Load reads and validates the plan catalog file.
func Load(path string) ([]model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("catalog %s defines no plans", path)
	}

	plans := make([]model.Plan, 0, len(file.Plans))
	for _, def := range file.Plans {
		if def.ID == "" || def.Name == "" {
			return nil, fmt.Errorf("catalog plan missing id or name")
		}
		if def.QuotaBytes <= 0 {
			return nil, fmt.Errorf("plan %s: quota_bytes must be positive", def.ID)
		}
		if def.TermDays <= 0 {
			return nil, fmt.Errorf("plan %s: term_days must be positive", def.ID)
		}
		price, err := decimal.NewFromString(def.Price)
		if err != nil {
			return nil, fmt.Errorf("plan %s: price %q: %w", def.ID, def.Price, err)
		}
		plans = append(plans, model.Plan{
			ID:         def.ID,
			Name:       def.Name,
			QuotaBytes: def.QuotaBytes,
			Price:      price,
			TermDays:   def.TermDays,
		})
	}
	return plans, nil
}

// Sync upserts the catalog into the plans table. Existing subscriptions keep
// referencing their plan rows; removed catalog entries are left in place.
func Sync(ctx context.Context, db core.DB, plans []model.Plan) error {
	for _, p := range plans {
		_, err := db.Exec(ctx,
			`INSERT INTO plans (id, name, quota_bytes, price, term_days, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO UPDATE
			 SET name = EXCLUDED.name, quota_bytes = EXCLUDED.quota_bytes,
			     price = EXCLUDED.price, term_days = EXCLUDED.term_days`,
			p.ID, p.Name, p.QuotaBytes, p.Price, p.TermDays, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("sync plan %s: %w", p.ID, err)
		}
	}
	return nil
}

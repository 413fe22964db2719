package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a purchasable service tier. Immutable reference data: rows are
// synced from the catalog file at startup and never mutated by the engine.
type Plan struct {
	ID         string          `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	QuotaBytes int64           `json:"quota_bytes" db:"quota_bytes"`
	Price      decimal.Decimal `json:"price" db:"price"`
	TermDays   int             `json:"term_days" db:"term_days"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

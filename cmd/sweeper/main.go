// The sweeper periodically reports subscriptions approaching or past their
// end date. Subscription status is always derived at read time, so the sweep
// changes nothing; it exists to surface upcoming expiries in the logs for
// operators and renewal reminders.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/mdiaw/comptabook/internal/config"
	"github.com/mdiaw/comptabook/internal/db"
	"github.com/mdiaw/comptabook/internal/logging"
	"github.com/mdiaw/comptabook/internal/model"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	sweep := func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, 30*time.Second)
		defer sweepCancel()

		now := time.Now()
		rows, err := pool.Query(sweepCtx,
			`SELECT s.id, s.tenant_id, s.end_date
			 FROM subscriptions s
			 WHERE s.validation_state = $1 AND s.end_date <= $2
			 ORDER BY s.end_date`,
			model.ValidationValidated, now.Add(cfg.SubscriptionWarnWindow),
		)
		if err != nil {
			logger.Error().Err(err).Msg("sweep query failed")
			return
		}
		defer rows.Close()

		var expiring, expired int
		for rows.Next() {
			var id, tenantID string
			var endDate time.Time
			if err := rows.Scan(&id, &tenantID, &endDate); err != nil {
				logger.Error().Err(err).Msg("sweep scan failed")
				return
			}
			if now.After(endDate) {
				expired++
				logger.Info().
					Str("subscription_id", id).
					Str("tenant_id", tenantID).
					Time("end_date", endDate).
					Msg("subscription expired")
			} else {
				expiring++
				logger.Info().
					Str("subscription_id", id).
					Str("tenant_id", tenantID).
					Time("end_date", endDate).
					Msg("subscription expiring soon")
			}
		}
		if err := rows.Err(); err != nil {
			logger.Error().Err(err).Msg("sweep iteration failed")
			return
		}
		logger.Info().Int("expiring", expiring).Int("expired", expired).Msg("sweep complete")
	}

	c := cron.New()
	if _, err := c.AddFunc("@hourly", sweep); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule sweep")
	}

	logger.Info().Msg("starting subscription sweeper")
	sweep()
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("stopping sweeper")
	stopCtx := c.Stop()
	<-stopCtx.Done()
}

package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartEventTrimmer deletes old hardware audit events with interval
func StartEventTrimmer(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM hardware_events
                     WHERE created_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to trim hardware events", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("trimmed hardware events", zap.Int64("removed", rows))
				}
			}
		}
	}()
}

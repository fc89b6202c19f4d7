package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// pruneHistorySQL trims every user's password history to the $1 most recent
// entries, using the same ordering as the per-user purge.
const pruneHistorySQL = `
DELETE FROM password_history
 WHERE id IN (
    SELECT id FROM (
        SELECT id, ROW_NUMBER() OVER (
            PARTITION BY user_login ORDER BY created_at DESC, id DESC
        ) AS rn
          FROM password_history
    ) ranked
     WHERE rn > $1
 )`

// StartHistoryPruner trims all password histories to keep entries per user
// every interval until ctx is done. It catches entries left over after the
// configured keep count is lowered. keep must be at least 1.
func StartHistoryPruner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	keep int,
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
				res, err := db.ExecContext(ctx, pruneHistorySQL, keep)
				if err != nil {
					log.Error("failed to prune password history", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("pruned password history",
						zap.Int64("removed", rows),
						zap.Int("keep", keep),
					)
				}
			}
		}
	}()
}

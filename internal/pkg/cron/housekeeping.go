package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/jwt"
)

// RevocationPruneInterval is how often the in-process revocation list is swept.
const RevocationPruneInterval = 15 * time.Minute

// RegisterRevocationPrune adds a sweep for stores that keep revocations in
// process memory. Stores that expire entries themselves are skipped.
func RegisterRevocationPrune(scheduler *Scheduler, store jwt.RevocationStore) bool {
	pruner, ok := store.(jwt.Pruner)
	if !ok {
		return false
	}

	scheduler.AddJob("prune_revoked_tokens", RevocationPruneInterval, func(ctx context.Context) error {
		removed, err := pruner.Prune(ctx)
		if err != nil {
			return err
		}
		if removed > 0 {
			slog.Info("Pruned expired token revocations", "removed", removed)
		}
		return nil
	})
	return true
}

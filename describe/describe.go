// Package describe keeps player descriptions filled in, either in bulk
// (Backfill) or lazily when a single player is read (OnDemand).
//
// Both workflows only write a record after a successful generation, so an
// interrupted or failed attempt leaves the record eligible for the next run.
// They share no state; when both write the same row, the last write wins.
package describe

import (
	"context"
	"errors"
	"time"

	"github.com/padraicbc/batstats/models"
)

// ErrPersist marks a failure to store a description that was generated successfully.
var ErrPersist = errors.New("store description")

// Store is the subset of db.PlayerStore the workflows need.
type Store interface {
	Get(ctx context.Context, id int) (*models.Player, error)
	SetDescription(ctx context.Context, id int, text string) error
	FindMissingDescriptions(ctx context.Context, limit int) ([]models.Player, error)
}

type sleepFunc func(ctx context.Context, d time.Duration) error

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

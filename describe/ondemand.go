package describe

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/padraicbc/batstats/llm"
	"github.com/padraicbc/batstats/models"
)

// OnDemand fills in a missing description as part of reading a single player.
type OnDemand struct {
	store Store
	gen   llm.Generator
	log   *zap.Logger

	// inflight collapses concurrent generations for the same id in this process.
	inflight singleflight.Group
}

// NewOnDemand builds an OnDemand. A nil gen disables generation; reads
// then return players exactly as stored.
func NewOnDemand(store Store, gen llm.Generator, log *zap.Logger) *OnDemand {
	if log == nil {
		log = zap.NewNop()
	}
	return &OnDemand{store: store, gen: gen, log: log}
}

// FetchEnriched loads a player and, when its description is missing, makes one
// generation attempt and stores the result. Generation failures are logged
// and the player is returned as loaded. If ctx ends first the player is also
// returned as loaded while the generation finishes in the background.
// Store errors are returned: db.ErrNotFound from the lookup, or an
// ErrPersist-wrapped error when saving the new text fails.
func (o *OnDemand) FetchEnriched(ctx context.Context, id int) (*models.Player, error) {
	p, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.HasDescription() {
		return p, nil
	}

	log := o.log.With(zap.Int("player_id", p.ID), zap.String("player", p.Name))
	if o.gen == nil {
		log.Debug("description generation unavailable")
		return p, nil
	}

	prof := llm.ProfileOf(p)
	ch := o.inflight.DoChan(strconv.Itoa(p.ID), func() (interface{}, error) {
		// Outlives any single waiter's context; the generator timeout bounds it.
		return o.generate(context.WithoutCancel(ctx), p.ID, prof)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		log.Debug("caller gone before description was ready", zap.Error(ctx.Err()))
		return p, nil
	case res = <-ch:
	}

	if res.Err != nil {
		if errors.Is(res.Err, ErrPersist) {
			return nil, res.Err
		}
		log.Warn("generate description failed",
			zap.Stringer("kind", llm.KindOf(res.Err)),
			zap.Bool("shared", res.Shared),
			zap.Error(res.Err),
		)
		return p, nil
	}

	text := res.Val.(string)
	p.Description = &text
	log.Info("description generated", zap.Bool("shared", res.Shared))
	return p, nil
}

func (o *OnDemand) generate(ctx context.Context, id int, prof llm.Profile) (string, error) {
	text, err := o.gen.Generate(ctx, prof)
	if err != nil {
		return "", err
	}
	if err := o.store.SetDescription(ctx, id, text); err != nil {
		return "", fmt.Errorf("%w for player %d: %w", ErrPersist, id, err)
	}
	return text, nil
}

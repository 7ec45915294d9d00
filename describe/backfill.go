package describe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/padraicbc/batstats/config"
	"github.com/padraicbc/batstats/llm"
)

// ErrFatalPrecondition aborts a backfill before any candidate is touched,
// e.g. when the generator cannot be built for lack of credentials.
var ErrFatalPrecondition = errors.New("backfill precondition failed")

// GeneratorFactory builds the generator at the start of a run.
type GeneratorFactory func() (llm.Generator, error)

// Summary reports the outcome of a backfill run.
type Summary struct {
	Found     int `json:"found"`
	Succeeded int `json:"succeeded"`
	// Failed counts every candidate that still lacks a description,
	// whatever the reason.
	Failed int `json:"failed"`
	// RateLimited and PersistFailed break Failed down further.
	RateLimited   int `json:"rate_limited"`
	PersistFailed int `json:"persist_failed"`
}

// Fields renders the summary for structured logging.
func (s Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("found", s.Found),
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
		zap.Int("rate_limited", s.RateLimited),
		zap.Int("persist_failed", s.PersistFailed),
	}
}

// Backfill generates descriptions for every player missing one, strictly one
// at a time, pausing Delay between calls and Cooldown after a rate limit.
type Backfill struct {
	cfg    config.Backfill
	store  Store
	newGen GeneratorFactory
	log    *zap.Logger
	sleep  sleepFunc
}

// NewBackfill builds a Backfill. cfg.BatchSize <= 0 processes all candidates.
func NewBackfill(cfg config.Backfill, store Store, newGen GeneratorFactory, log *zap.Logger) *Backfill {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backfill{
		cfg:    cfg,
		store:  store,
		newGen: newGen,
		log:    log,
		sleep:  sleep,
	}
}

// Run performs one pass over the current candidates. A per-candidate failure
// never stops the run. The returned error is non-nil only when the run could
// not start (ErrFatalPrecondition, candidate query failure) or ctx was
// cancelled; the summary then covers the candidates handled so far.
func (b *Backfill) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	gen, err := b.newGen()
	if err != nil {
		return sum, fmt.Errorf("%w: %w", ErrFatalPrecondition, err)
	}
	if gen == nil {
		return sum, fmt.Errorf("%w: no generator", ErrFatalPrecondition)
	}

	candidates, err := b.store.FindMissingDescriptions(ctx, b.cfg.BatchSize)
	if err != nil {
		return sum, fmt.Errorf("find candidates: %w", err)
	}
	sum.Found = len(candidates)
	if sum.Found == 0 {
		b.log.Info("all players already have descriptions")
		return sum, nil
	}
	b.log.Info("players without descriptions", zap.Int("found", sum.Found))

	for i := range candidates {
		p := &candidates[i]
		log := b.log.With(
			zap.Int("player_id", p.ID),
			zap.String("player", p.Name),
			zap.String("progress", fmt.Sprintf("%d/%d", i+1, sum.Found)),
		)

		wait := b.cfg.Delay
		text, err := gen.Generate(ctx, llm.ProfileOf(p))
		switch {
		case err != nil && ctx.Err() != nil:
			return sum, ctx.Err()
		case err != nil:
			sum.Failed++
			if llm.IsRateLimited(err) {
				sum.RateLimited++
				wait = b.cfg.Cooldown
				log.Warn("rate limited, cooling down", zap.Duration("cooldown", wait), zap.Error(err))
			} else {
				log.Error("generate description failed", zap.Error(err))
			}
		default:
			if err := b.store.SetDescription(ctx, p.ID, text); err != nil {
				sum.Failed++
				sum.PersistFailed++
				log.Error("save description failed", zap.Error(fmt.Errorf("%w: %w", ErrPersist, err)))
			} else {
				sum.Succeeded++
				log.Info("description generated")
			}
		}

		if i == len(candidates)-1 {
			break
		}
		if err := b.sleep(ctx, wait); err != nil {
			return sum, err
		}
	}

	return sum, nil
}

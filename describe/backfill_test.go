package describe

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/padraicbc/batstats/config"
	"github.com/padraicbc/batstats/llm"
	"github.com/padraicbc/batstats/models"
)

const (
	testDelay    = 10 * time.Millisecond
	testCooldown = 500 * time.Millisecond
)

func newTestBackfill(store Store, gen *scriptGen, batch int) (*Backfill, *sleepRecorder) {
	cfg := config.Backfill{BatchSize: batch, Delay: testDelay, Cooldown: testCooldown}
	b := NewBackfill(cfg, store, func() (llm.Generator, error) { return gen, nil }, zap.NewNop())
	rec := &sleepRecorder{gen: gen}
	b.sleep = rec.sleep
	return b, rec
}

func candidates(n int) []models.Player {
	out := make([]models.Player, n)
	for i := range out {
		out[i] = player(i+1, fmt.Sprintf("player-%d", i+1), nil)
	}
	return out
}

func TestBackfillAllSucceed(t *testing.T) {
	store := newMemStore(append(candidates(3), player(10, "done", strPtr("kept")))...)
	gen := &scriptGen{}
	b, rec := newTestBackfill(store, gen, 0)

	sum, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 3, Succeeded: 3}, sum)

	assert.Equal(t, []string{"player-1", "player-2", "player-3"}, gen.calls)
	// Delay between each consecutive pair, none after the last.
	assert.Equal(t, []time.Duration{testDelay, testDelay}, rec.waits)
	assert.Equal(t, []int{1, 2}, rec.before)

	for id := 1; id <= 3; id++ {
		require.NotNil(t, store.description(id))
		assert.Equal(t, fmt.Sprintf("about player-%d", id), *store.description(id))
	}
	assert.Equal(t, "kept", *store.description(10))
}

func TestBackfillRateLimitCoolsDown(t *testing.T) {
	store := newMemStore(candidates(5)...)
	gen := &scriptGen{errs: map[string]error{"player-2": rateLimited()}}
	b, rec := newTestBackfill(store, gen, 0)

	sum, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 5, Succeeded: 4, Failed: 1, RateLimited: 1}, sum)

	require.Len(t, rec.waits, 4)
	assert.Equal(t, []time.Duration{testDelay, testCooldown, testDelay, testDelay}, rec.waits)
	// The cooldown sits between the second and third generation calls.
	assert.Equal(t, 2, rec.before[1])
	assert.Greater(t, testCooldown, testDelay)
	assert.Len(t, gen.calls, 5)
	assert.Nil(t, store.description(2))
}

func TestBackfillRateLimitOnLastCandidate(t *testing.T) {
	store := newMemStore(candidates(2)...)
	gen := &scriptGen{errs: map[string]error{"player-2": rateLimited()}}
	b, rec := newTestBackfill(store, gen, 0)

	sum, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, []time.Duration{testDelay}, rec.waits)
}

func TestBackfillOtherFailureContinues(t *testing.T) {
	store := newMemStore(candidates(3)...)
	gen := &scriptGen{errs: map[string]error{"player-1": otherFailure()}}
	b, rec := newTestBackfill(store, gen, 0)

	sum, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 3, Succeeded: 2, Failed: 1}, sum)
	assert.Equal(t, []time.Duration{testDelay, testDelay}, rec.waits)

	// Failed records stay eligible for the next run.
	again, err := store.FindMissingDescriptions(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, 1, again[0].ID)
}

func TestBackfillNoCandidates(t *testing.T) {
	store := newMemStore(player(1, "done", strPtr("text")))
	gen := &scriptGen{}
	b, rec := newTestBackfill(store, gen, 0)

	sum, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Empty(t, gen.calls)
	assert.Empty(t, rec.waits)
}

func TestBackfillMissingCredential(t *testing.T) {
	store := newMemStore(candidates(3)...)
	cfg := config.Backfill{Delay: testDelay, Cooldown: testCooldown}
	b := NewBackfill(cfg, store, func() (llm.Generator, error) {
		return llm.New(config.LLM{})
	}, nil)

	sum, err := b.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatalPrecondition)
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
	assert.Equal(t, Summary{}, sum)
	assert.Zero(t, store.findCalls)
	assert.Empty(t, store.sets)
}

func TestBackfillPersistFailureIsCounted(t *testing.T) {
	store := newMemStore(candidates(2)...)
	store.setErr = errors.New("connection refused")
	gen := &scriptGen{}
	b, _ := newTestBackfill(store, gen, 0)

	sum, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 2, Failed: 2, PersistFailed: 2}, sum)
	assert.Len(t, store.sets, 2)
	assert.Nil(t, store.description(1))
}

func TestBackfillBatchSize(t *testing.T) {
	store := newMemStore(candidates(4)...)
	gen := &scriptGen{}
	b, _ := newTestBackfill(store, gen, 2)

	sum, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 2, Succeeded: 2}, sum)
	assert.Equal(t, []string{"player-1", "player-2"}, gen.calls)
	assert.Nil(t, store.description(3))
}

func TestBackfillFindFailure(t *testing.T) {
	store := newMemStore()
	store.findErr = errors.New("db down")
	gen := &scriptGen{}
	b, _ := newTestBackfill(store, gen, 0)

	_, err := b.Run(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFatalPrecondition)
	assert.Empty(t, gen.calls)
}

func TestBackfillCancelledDuringDelay(t *testing.T) {
	store := newMemStore(candidates(4)...)
	gen := &scriptGen{}
	b, rec := newTestBackfill(store, gen, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.cancel = cancel
	rec.cancelAt = 2

	sum, err := b.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Summary{Found: 4, Succeeded: 2}, sum)
	assert.Len(t, gen.calls, 2)
	assert.Nil(t, store.description(3))
}

func TestBackfillCancelledDuringGeneration(t *testing.T) {
	store := newMemStore(candidates(2)...)
	gen := &scriptGen{block: make(chan struct{})}
	b, _ := newTestBackfill(store, gen, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	sum, err := b.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// An interrupted candidate is neither a success nor a failure.
	assert.Equal(t, Summary{Found: 2}, sum)
	assert.Empty(t, store.sets)
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, sleep(context.Background(), time.Millisecond))
	assert.NoError(t, sleep(context.Background(), 0))
}

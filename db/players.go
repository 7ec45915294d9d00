package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/batstats/models"
)

// ErrNotFound is returned when no player has the requested id.
var ErrNotFound = errors.New("player not found")

// DefaultSortField is used when List is given a field outside SortFields.
const DefaultSortField = "hits"

// SortFields are the columns List accepts; every sort is descending.
var SortFields = map[string]bool{
	"hits":                  true,
	"home_run":              true,
	"runs":                  true,
	"run_batted_in":         true,
	"avg":                   true,
	"on_base_plus_slugging": true,
}

// PlayerStore reads and writes rows of the players table.
type PlayerStore struct {
	db bun.IDB
}

// NewPlayerStore wraps a bun connection (or transaction).
func NewPlayerStore(db bun.IDB) *PlayerStore {
	return &PlayerStore{db: db}
}

// Get loads a single player.
func (s *PlayerStore) Get(ctx context.Context, id int) (*models.Player, error) {
	p := &models.Player{}
	err := s.db.NewSelect().Model(p).
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return p, nil
}

// List returns every player ordered by sortField descending. Unknown fields
// fall back to DefaultSortField rather than erroring.
func (s *PlayerStore) List(ctx context.Context, sortField string) ([]models.Player, error) {
	if !SortFields[sortField] {
		sortField = DefaultSortField
	}

	players := make([]models.Player, 0)
	err := s.db.NewSelect().Model(&players).
		OrderExpr("p.? DESC", bun.Ident(sortField)).
		OrderExpr("p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players by %s: %w", sortField, err)
	}
	return players, nil
}

// SetDescription stores text as the player's description in one statement.
// Concurrent writers to the same row are last-write-wins.
func (s *PlayerStore) SetDescription(ctx context.Context, id int, text string) error {
	res, err := s.db.NewUpdate().
		TableExpr("players").
		Set("description = ?", text).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set description for player %d: %w", id, err)
	}
	return expectRow(res, id)
}

// ClearDescription removes a stored description so the player becomes
// eligible for generation again.
func (s *PlayerStore) ClearDescription(ctx context.Context, id int) error {
	res, err := s.db.NewUpdate().
		TableExpr("players").
		Set("description = NULL").
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("clear description for player %d: %w", id, err)
	}
	return expectRow(res, id)
}

// FindMissingDescriptions returns players whose description is null or empty,
// ordered by id. limit <= 0 returns every candidate.
func (s *PlayerStore) FindMissingDescriptions(ctx context.Context, limit int) ([]models.Player, error) {
	players := make([]models.Player, 0)
	q := s.db.NewSelect().Model(&players).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("p.description IS NULL").WhereOr("p.description = ''")
		}).
		OrderExpr("p.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("find players without description: %w", err)
	}
	return players, nil
}

// UpdateStats applies a partial update of the editable counters and returns
// the updated row. The description is left untouched.
func (s *PlayerStore) UpdateStats(ctx context.Context, id int, patch models.StatsPatch) (*models.Player, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *models.Player
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().
			TableExpr("players").
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("id = ?", id)
		for _, c := range patch.Columns() {
			q = q.Set("? = ?", bun.Ident(c.Name), *c.Value)
		}

		res, err := q.Exec(ctx)
		if err != nil {
			return fmt.Errorf("update stats for player %d: %w", id, err)
		}
		if err := expectRow(res, id); err != nil {
			return err
		}

		updated, err = NewPlayerStore(tx).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Insert bulk inserts players and returns how many rows were written.
func (s *PlayerStore) Insert(ctx context.Context, players []models.Player) (int, error) {
	if len(players) == 0 {
		return 0, nil
	}
	res, err := s.db.NewInsert().Model(&players).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert %d players: %w", len(players), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return len(players), nil
	}
	return int(n), nil
}

// DeleteAll empties the players table.
func (s *PlayerStore) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.NewDelete().
		TableExpr("players").
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete players: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func expectRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for player %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/padraicbc/batstats/models"
)

// PlayerStore is the part of db.PlayerStore the handlers use directly.
type PlayerStore interface {
	List(ctx context.Context, sortField string) ([]models.Player, error)
	UpdateStats(ctx context.Context, id int, patch models.StatsPatch) (*models.Player, error)
	ClearDescription(ctx context.Context, id int) error
}

// Enricher loads a single player, generating its description when missing.
type Enricher interface {
	FetchEnriched(ctx context.Context, id int) (*models.Player, error)
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	players  PlayerStore
	enricher Enricher
	log      *zap.Logger
}

// New creates a Handler.
func New(players PlayerStore, enricher Enricher, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{players: players, enricher: enricher, log: log}
}

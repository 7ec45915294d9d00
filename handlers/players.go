package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/batstats/db"
	"github.com/padraicbc/batstats/models"
)

// ListPlayers returns every player sorted descending by the sortBy query
// param. Unknown fields sort by hits.
func (h *Handler) ListPlayers(c echo.Context) error {
	sortBy := c.QueryParam("sortBy")
	if sortBy == "" {
		sortBy = db.DefaultSortField
	}

	players, err := h.players.List(c.Request().Context(), sortBy)
	if err != nil {
		h.log.Error("list players failed", zap.String("sort_by", sortBy), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch players")
	}
	return c.JSON(http.StatusOK, players)
}

// GetPlayer returns a single player. A missing description is generated on
// the fly; if generation fails the player is returned without one.
func (h *Handler) GetPlayer(c echo.Context) error {
	id, err := playerID(c)
	if err != nil {
		return err
	}

	p, err := h.enricher.FetchEnriched(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "player not found")
		}
		h.log.Error("fetch player failed", zap.Int("player_id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch player")
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePlayer applies a partial update of the editable counters.
// Existing descriptions are kept as they are.
func (h *Handler) UpdatePlayer(c echo.Context) error {
	id, err := playerID(c)
	if err != nil {
		return err
	}

	var patch models.StatsPatch
	if err := c.Bind(&patch); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			return echo.NewHTTPError(http.StatusBadRequest, (&models.StatError{Field: ute.Field}).Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object of stat values")
	}
	if err := patch.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.players.UpdateStats(c.Request().Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "player not found")
		case errors.Is(err, models.ErrNegativeStat):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.log.Error("update player failed", zap.Int("player_id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update player")
	}
	return c.JSON(http.StatusOK, p)
}

// ClearDescription drops a player's description; the next read regenerates it.
func (h *Handler) ClearDescription(c echo.Context) error {
	id, err := playerID(c)
	if err != nil {
		return err
	}

	if err := h.players.ClearDescription(c.Request().Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "player not found")
		}
		h.log.Error("clear description failed", zap.Int("player_id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear description")
	}
	return c.NoContent(http.StatusNoContent)
}

func playerID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid player id")
	}
	return id, nil
}

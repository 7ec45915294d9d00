package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Register mounts every API route on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api/players")
	api.GET("", h.ListPlayers)
	api.GET("/:id", h.GetPlayer)
	api.PUT("/:id", h.UpdatePlayer)
	api.DELETE("/:id/description", h.ClearDescription)
}

// Health reports that the process is serving.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

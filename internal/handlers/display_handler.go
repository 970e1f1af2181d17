package handlers

import (
	"net/http"

	"clinic-queue/internal/services"

	"github.com/pocketbase/pocketbase/core"
)

type DisplayHandler struct {
	display *services.DisplayService
}

func NewDisplayHandler(display *services.DisplayService) *DisplayHandler {
	return &DisplayHandler{display: display}
}

// GetDisplayBoard - GET /api/v1/display-board, newest call first
func (h *DisplayHandler) GetDisplayBoard(e *core.RequestEvent) error {
	board, err := h.display.GetDisplayBoard(e.Request.Context())
	if err != nil {
		return apiError("display_board", err)
	}

	return e.JSON(http.StatusOK, board)
}

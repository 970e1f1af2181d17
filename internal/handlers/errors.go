package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"clinic-queue/internal/status"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// apiError maps a service error onto the HTTP error PocketBase renders.
func apiError(op string, err error) error {
	switch status.Kind(err) {
	case status.ErrValidation:
		return apis.NewBadRequestError(err.Error(), nil)
	case status.ErrNotFound:
		return apis.NewNotFoundError(err.Error(), nil)
	case status.ErrPrecondition, status.ErrConflict:
		return apis.NewApiError(http.StatusConflict, err.Error(), nil)
	}

	slog.Error("Queue operation failed", "operation", op, "error", err)
	return apis.NewInternalServerError("Storage failure, please retry", nil)
}

func pathID(e *core.RequestEvent, name string) (int64, error) {
	raw := e.Request.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apis.NewBadRequestError("Invalid "+name, nil)
	}
	return id, nil
}

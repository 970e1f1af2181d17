package handlers

import (
	"net/http"

	"clinic-queue/internal/services"
	"clinic-queue/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// AdminHandler serves superuser-only routes. Authentication is enforced by
// the route middleware, not here.
type AdminHandler struct {
	doctors *services.DoctorService
	display *services.DisplayService
	query   *services.QueryService
}

func NewAdminHandler(doctors *services.DoctorService, display *services.DisplayService, query *services.QueryService) *AdminHandler {
	return &AdminHandler{
		doctors: doctors,
		display: display,
		query:   query,
	}
}

// CreateDoctor - POST /api/v1/admin/doctors
func (h *AdminHandler) CreateDoctor(e *core.RequestEvent) error {
	var req struct {
		Name      string           `json:"name"`
		Specialty models.Specialty `json:"specialty"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	doctor, err := h.doctors.CreateDoctor(e.Request.Context(), req.Name, req.Specialty)
	if err != nil {
		return apiError("create_doctor", err)
	}

	return e.JSON(http.StatusCreated, doctor)
}

// ReconcileBoard - POST /api/v1/admin/display-board/reconcile
func (h *AdminHandler) ReconcileBoard(e *core.RequestEvent) error {
	rows, err := h.display.Reconcile(e.Request.Context())
	if err != nil {
		return apiError("reconcile", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"rows": rows})
}

// GetQueueDashboard - GET /api/v1/admin/queue-dashboard
func (h *AdminHandler) GetQueueDashboard(e *core.RequestEvent) error {
	dashboard, err := h.query.Dashboard(e.Request.Context())
	if err != nil {
		return apiError("dashboard", err)
	}

	return e.JSON(http.StatusOK, dashboard)
}

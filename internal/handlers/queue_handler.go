package handlers

import (
	"net/http"

	"clinic-queue/internal/services"
	"clinic-queue/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type QueueHandler struct {
	queue *services.QueueService
	query *services.QueryService
}

func NewQueueHandler(queue *services.QueueService, query *services.QueryService) *QueueHandler {
	return &QueueHandler{
		queue: queue,
		query: query,
	}
}

// JoinQueue - POST /api/v1/queue/join
func (h *QueueHandler) JoinQueue(e *core.RequestEvent) error {
	var req struct {
		PatientID string           `json:"patient_id"`
		Specialty models.Specialty `json:"specialty"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	entry, err := h.queue.JoinQueue(e.Request.Context(), req.PatientID, req.Specialty)
	if err != nil {
		return apiError("join", err)
	}

	return e.JSON(http.StatusCreated, entry)
}

// GetQueueStatus - GET /api/v1/queue/status
func (h *QueueHandler) GetQueueStatus(e *core.RequestEvent) error {
	summaries, err := h.query.GetQueueStatus(e.Request.Context())
	if err != nil {
		return apiError("queue_status", err)
	}

	return e.JSON(http.StatusOK, summaries)
}

// GetPatientQueueInfo - GET /api/v1/queue/patients/{patientId}. Responds with
// null when the patient holds no active entry.
func (h *QueueHandler) GetPatientQueueInfo(e *core.RequestEvent) error {
	info, err := h.query.GetPatientQueueInfo(e.Request.Context(), e.Request.PathValue("patientId"))
	if err != nil {
		return apiError("patient_info", err)
	}

	return e.JSON(http.StatusOK, info)
}

// CancelQueueEntry - POST /api/v1/queue/entries/{entryId}/cancel
func (h *QueueHandler) CancelQueueEntry(e *core.RequestEvent) error {
	entryID, err := pathID(e, "entryId")
	if err != nil {
		return err
	}

	entry, err := h.queue.CancelQueueEntry(e.Request.Context(), entryID)
	if err != nil {
		return apiError("cancel", err)
	}

	return e.JSON(http.StatusOK, entry)
}

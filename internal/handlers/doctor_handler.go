package handlers

import (
	"net/http"

	"clinic-queue/internal/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type DoctorHandler struct {
	doctors *services.DoctorService
	queue   *services.QueueService
}

func NewDoctorHandler(doctors *services.DoctorService, queue *services.QueueService) *DoctorHandler {
	return &DoctorHandler{
		doctors: doctors,
		queue:   queue,
	}
}

type roomRequest struct {
	RoomNumber string `json:"room_number"`
}

type completeRequest struct {
	QueueEntryID int64 `json:"queue_entry_id"`
}

func (h *DoctorHandler) GetDoctors(e *core.RequestEvent) error {
	doctors, err := h.doctors.GetDoctors(e.Request.Context())
	if err != nil {
		return apiError("get_doctors", err)
	}

	return e.JSON(http.StatusOK, doctors)
}

// Login - POST /api/v1/doctors/{doctorId}/login
func (h *DoctorHandler) Login(e *core.RequestEvent) error {
	doctorID, err := pathID(e, "doctorId")
	if err != nil {
		return err
	}

	var req roomRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	doctor, err := h.doctors.DoctorLogin(e.Request.Context(), doctorID, req.RoomNumber)
	if err != nil {
		return apiError("login", err)
	}

	return e.JSON(http.StatusOK, doctor)
}

// SetRoom - PUT /api/v1/doctors/{doctorId}/room
func (h *DoctorHandler) SetRoom(e *core.RequestEvent) error {
	doctorID, err := pathID(e, "doctorId")
	if err != nil {
		return err
	}

	var req roomRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	doctor, err := h.doctors.SetDoctorRoom(e.Request.Context(), doctorID, req.RoomNumber)
	if err != nil {
		return apiError("set_room", err)
	}

	return e.JSON(http.StatusOK, doctor)
}

// CallNext - POST /api/v1/doctors/{doctorId}/call-next. Responds with null
// when nobody is waiting.
func (h *DoctorHandler) CallNext(e *core.RequestEvent) error {
	doctorID, err := pathID(e, "doctorId")
	if err != nil {
		return err
	}

	entry, err := h.doctors.CallNextPatient(e.Request.Context(), doctorID)
	if err != nil {
		return apiError("call_next", err)
	}

	return e.JSON(http.StatusOK, entry)
}

// Complete - POST /api/v1/doctors/{doctorId}/complete
func (h *DoctorHandler) Complete(e *core.RequestEvent) error {
	doctorID, err := pathID(e, "doctorId")
	if err != nil {
		return err
	}

	var req completeRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	err = validation.ValidateStruct(&req,
		validation.Field(&req.QueueEntryID, validation.Required, validation.Min(int64(1))),
	)
	if err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	entry, err := h.queue.CompletePatient(e.Request.Context(), doctorID, req.QueueEntryID)
	if err != nil {
		return apiError("complete", err)
	}

	return e.JSON(http.StatusOK, entry)
}

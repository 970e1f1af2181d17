package models

import (
	"time"
)

type Specialty string

const (
	GeneralMedicine Specialty = "GENERAL_MEDICINE"
	Cardiology      Specialty = "CARDIOLOGY"
	Dermatology     Specialty = "DERMATOLOGY"
	Pediatrics      Specialty = "PEDIATRICS"
	Orthopedics     Specialty = "ORTHOPEDICS"
	Neurology       Specialty = "NEUROLOGY"
	Gynecology      Specialty = "GYNECOLOGY"
	Psychiatry      Specialty = "PSYCHIATRY"
	Ophthalmology   Specialty = "OPHTHALMOLOGY"
	ENT             Specialty = "ENT"
)

// Specialties lists every specialty in display order.
var Specialties = []Specialty{
	GeneralMedicine,
	Cardiology,
	Dermatology,
	Pediatrics,
	Orthopedics,
	Neurology,
	Gynecology,
	Psychiatry,
	Ophthalmology,
	ENT,
}

func (s Specialty) Valid() bool {
	for _, v := range Specialties {
		if v == s {
			return true
		}
	}
	return false
}

type QueueStatus string

const (
	StatusWaiting    QueueStatus = "WAITING"
	StatusCalled     QueueStatus = "CALLED"
	StatusInProgress QueueStatus = "IN_PROGRESS"
	StatusCompleted  QueueStatus = "COMPLETED"
	StatusCancelled  QueueStatus = "CANCELLED"
)

// ActiveStatuses are the non-terminal queue statuses.
var ActiveStatuses = []QueueStatus{StatusWaiting, StatusCalled, StatusInProgress}

func (s QueueStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type QueueEntry struct {
	ID          int64       `db:"id" json:"id"`
	PatientID   string      `db:"patient_id" json:"patient_id"`
	Specialty   Specialty   `db:"specialty" json:"specialty"`
	QueueNumber int         `db:"queue_number" json:"queue_number"`
	Status      QueueStatus `db:"status" json:"status"`
	DoctorID    *int64      `db:"doctor_id" json:"doctor_id"`
	RoomNumber  *string     `db:"room_number" json:"room_number"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	CalledAt    *time.Time  `db:"called_at" json:"called_at"`
	CompletedAt *time.Time  `db:"completed_at" json:"completed_at"`
}

// QueueStatusSummary is the per-specialty view shown to waiting patients.
type QueueStatusSummary struct {
	Specialty          Specialty `db:"specialty" json:"specialty"`
	TotalWaiting       int       `db:"total_waiting" json:"total_waiting"`
	CurrentQueueNumber int       `db:"current_queue_number" json:"current_queue_number"`
	EstimatedWaitTime  int       `db:"-" json:"estimated_wait_time"` // minutes
}

type PatientQueueInfo struct {
	QueueEntry        QueueEntry `json:"queue_entry"`
	PositionInQueue   int        `json:"position_in_queue"`
	EstimatedWaitTime int        `json:"estimated_wait_time"` // minutes
}

// StatusCount is one row of the admin dashboard aggregate.
type StatusCount struct {
	Specialty Specialty   `db:"specialty" json:"specialty"`
	Status    QueueStatus `db:"status" json:"status"`
	Total     int         `db:"total" json:"total"`
}

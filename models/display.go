package models

import (
	"time"
)

type DisplayBoardEntry struct {
	ID         int64       `db:"id" json:"id"`
	PatientID  string      `db:"patient_id" json:"patient_id"`
	RoomNumber string      `db:"room_number" json:"room_number"`
	Specialty  Specialty   `db:"specialty" json:"specialty"`
	Status     QueueStatus `db:"status" json:"status"` // CALLED or IN_PROGRESS
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// BoardEvent is pushed to display screens when the board changes.
type BoardEvent struct {
	Type       string      `json:"type"` // patient_called, patient_withdrawn, board_rebuilt
	PatientID  string      `json:"patient_id,omitempty"`
	RoomNumber string      `json:"room_number,omitempty"`
	Specialty  Specialty   `json:"specialty,omitempty"`
	Status     QueueStatus `json:"status,omitempty"`
	At         time.Time   `json:"at"`
}

const (
	BoardEventCalled    = "patient_called"
	BoardEventWithdrawn = "patient_withdrawn"
	BoardEventRebuilt   = "board_rebuilt"
)

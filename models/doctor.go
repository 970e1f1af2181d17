package models

import (
	"time"
)

type DoctorStatus string

const (
	DoctorAvailable DoctorStatus = "AVAILABLE"
	DoctorBusy      DoctorStatus = "BUSY"
	DoctorOffline   DoctorStatus = "OFFLINE"
)

type Doctor struct {
	ID         int64        `db:"id" json:"id"`
	Name       string       `db:"name" json:"name"`
	Specialty  Specialty    `db:"specialty" json:"specialty"`
	RoomNumber *string      `db:"room_number" json:"room_number"`
	Status     DoctorStatus `db:"status" json:"status"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// HasRoom reports whether the doctor may call patients.
func (d *Doctor) HasRoom() bool {
	return d.RoomNumber != nil && *d.RoomNumber != ""
}

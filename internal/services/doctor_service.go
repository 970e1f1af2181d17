package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clinic-queue/internal/status"
	"clinic-queue/internal/store"
	"clinic-queue/models"
)

// DoctorService manages room assignment and availability. Logging in is room
// self-assignment only and carries no credential check.
type DoctorService struct {
	*engine
	display *DisplayService
}

func (s *DoctorService) GetDoctors(ctx context.Context) ([]models.Doctor, error) {
	return s.store.ListDoctors(ctx)
}

// CreateDoctor provisions a doctor, OFFLINE and without a room.
func (s *DoctorService) CreateDoctor(ctx context.Context, name string, specialty models.Specialty) (*models.Doctor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, status.Validation("name", "must not be empty")
	}
	if !specialty.Valid() {
		return nil, status.Validation("specialty", fmt.Sprintf("unknown value %q", specialty))
	}

	var doctor *models.Doctor
	err := s.mutate(ctx, func(tx *store.Store, _ *[]models.BoardEvent) error {
		var err error
		doctor, err = tx.CreateDoctor(ctx, name, specialty)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Doctor provisioned", "doctor_id", doctor.ID, "specialty", doctor.Specialty)
	return doctor, nil
}

// DoctorLogin assigns the room and marks the doctor AVAILABLE.
func (s *DoctorService) DoctorLogin(ctx context.Context, doctorID int64, room string) (*models.Doctor, error) {
	doctor, err := s.updateDoctor(ctx, doctorID, room, func(d *models.Doctor) {
		d.Status = models.DoctorAvailable
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Doctor logged in", "doctor_id", doctor.ID, "room", room)
	return doctor, nil
}

// SetDoctorRoom changes the room and leaves the status untouched.
func (s *DoctorService) SetDoctorRoom(ctx context.Context, doctorID int64, room string) (*models.Doctor, error) {
	doctor, err := s.updateDoctor(ctx, doctorID, room, nil)
	if err != nil {
		return nil, err
	}

	slog.Info("Doctor room updated", "doctor_id", doctor.ID, "room", room)
	return doctor, nil
}

func (s *DoctorService) updateDoctor(ctx context.Context, doctorID int64, room string, apply func(*models.Doctor)) (*models.Doctor, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, status.Validation("room_number", "must not be empty")
	}

	var doctor *models.Doctor
	err := s.mutate(ctx, func(tx *store.Store, _ *[]models.BoardEvent) error {
		var err error
		doctor, err = tx.FindDoctor(ctx, doctorID)
		if store.IsNotFound(err) {
			return status.ErrDoctorNotFound
		}
		if err != nil {
			return err
		}

		doctor.RoomNumber = &room
		if apply != nil {
			apply(doctor)
		}
		return tx.UpdateDoctor(ctx, doctor)
	})
	if err != nil {
		return nil, err
	}
	return doctor, nil
}

// CallNextPatient hands the lowest-numbered WAITING entry of the doctor's
// specialty to the doctor. A nil entry with a nil error means nobody is waiting.
func (s *DoctorService) CallNextPatient(ctx context.Context, doctorID int64) (*models.QueueEntry, error) {
	var (
		doctor *models.Doctor
		entry  *models.QueueEntry
	)
	err := s.mutate(ctx, func(tx *store.Store, events *[]models.BoardEvent) error {
		var err error
		doctor, err = tx.FindDoctor(ctx, doctorID)
		if store.IsNotFound(err) {
			return status.ErrDoctorNotFound
		}
		if err != nil {
			return err
		}
		if !doctor.HasRoom() {
			return status.ErrRoomNotAssigned
		}

		entry, err = tx.NextWaiting(ctx, doctor.Specialty)
		if store.IsNotFound(err) {
			entry = nil
			return nil
		}
		if err != nil {
			return err
		}

		calledAt := s.now()
		room := *doctor.RoomNumber
		entry.Status = models.StatusCalled
		entry.DoctorID = &doctor.ID
		entry.RoomNumber = &room
		entry.CalledAt = &calledAt
		if err := tx.UpdateQueueEntry(ctx, entry); err != nil {
			return err
		}

		doctor.Status = models.DoctorBusy
		if err := tx.UpdateDoctor(ctx, doctor); err != nil {
			return err
		}

		return s.display.announce(ctx, tx, events, entry.PatientID, room, entry.Specialty, models.StatusCalled)
	})

	var specialty models.Specialty
	if doctor != nil {
		specialty = doctor.Specialty
	}
	s.track("call_next", specialty, err)
	if err != nil {
		return nil, err
	}

	if entry == nil {
		slog.Info("No patients waiting", "doctor_id", doctorID, "specialty", specialty)
		return nil, nil
	}

	s.monitor.ObserveWait(string(entry.Specialty), entry.CalledAt.Sub(entry.CreatedAt))
	slog.Info("Patient called", "doctor_id", doctorID, "entry_id", entry.ID, "patient_id", entry.PatientID, "room", *entry.RoomNumber)
	return entry, nil
}

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

type QueueService struct {
	*engine
	display *DisplayService
}

// JoinQueue appends the patient to the specialty's queue with the next
// queue number. Numbers are never reused, even after cancellation.
func (s *QueueService) JoinQueue(ctx context.Context, patientID string, specialty models.Specialty) (*models.QueueEntry, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, status.Validation("patient_id", "must not be empty")
	}
	if !specialty.Valid() {
		return nil, status.Validation("specialty", fmt.Sprintf("unknown value %q", specialty))
	}

	var entry *models.QueueEntry
	err := s.mutate(ctx, func(tx *store.Store, _ *[]models.BoardEvent) error {
		active, err := tx.FindEntryByPatient(ctx, patientID, models.ActiveStatuses...)
		if err == nil {
			slog.Info("Patient already queued", "patient_id", patientID, "entry_id", active.ID, "status", active.Status)
			return status.ErrActiveEntryExists
		}
		if !store.IsNotFound(err) {
			return err
		}

		last, err := tx.MaxQueueNumber(ctx, specialty)
		if err != nil {
			return err
		}
		entry, err = tx.InsertQueueEntry(ctx, patientID, specialty, last+1, s.now())
		return err
	})
	s.track("join", specialty, err)
	if err != nil {
		return nil, err
	}

	slog.Info("Patient joined queue", "patient_id", patientID, "specialty", specialty, "queue_number", entry.QueueNumber, "entry_id", entry.ID)
	return entry, nil
}

// CancelQueueEntry withdraws a WAITING entry and clears any board row of the patient.
func (s *QueueService) CancelQueueEntry(ctx context.Context, entryID int64) (*models.QueueEntry, error) {
	var entry *models.QueueEntry
	err := s.mutate(ctx, func(tx *store.Store, events *[]models.BoardEvent) error {
		var err error
		entry, err = tx.FindQueueEntry(ctx, entryID)
		if store.IsNotFound(err) {
			return status.ErrQueueEntryNotFound
		}
		if err != nil {
			return err
		}
		if entry.Status != models.StatusWaiting {
			return fmt.Errorf("%w: cannot cancel %s entry", status.ErrInvalidTransition, entry.Status)
		}

		entry.Status = models.StatusCancelled
		if err := tx.UpdateQueueEntry(ctx, entry); err != nil {
			return err
		}
		return s.display.withdraw(ctx, tx, events, entry.PatientID)
	})

	var specialty models.Specialty
	if entry != nil {
		specialty = entry.Specialty
	}
	s.track("cancel", specialty, err)
	if err != nil {
		return nil, err
	}

	slog.Info("Queue entry cancelled", "entry_id", entry.ID, "patient_id", entry.PatientID, "specialty", entry.Specialty)
	return entry, nil
}

// CompletePatient closes the consultation of an entry the doctor holds and
// frees the doctor. Entries not assigned to the doctor read as not found.
func (s *QueueService) CompletePatient(ctx context.Context, doctorID, entryID int64) (*models.QueueEntry, error) {
	var entry *models.QueueEntry
	err := s.mutate(ctx, func(tx *store.Store, events *[]models.BoardEvent) error {
		var err error
		entry, err = tx.FindQueueEntry(ctx, entryID)
		if store.IsNotFound(err) {
			return status.ErrEntryNotOwned
		}
		if err != nil {
			return err
		}
		if entry.DoctorID == nil || *entry.DoctorID != doctorID {
			return status.ErrEntryNotOwned
		}
		if entry.Status != models.StatusCalled && entry.Status != models.StatusInProgress {
			return fmt.Errorf("%w: cannot complete %s entry", status.ErrInvalidTransition, entry.Status)
		}

		doctor, err := tx.FindDoctor(ctx, doctorID)
		if store.IsNotFound(err) {
			return status.ErrEntryNotOwned
		}
		if err != nil {
			return err
		}

		completedAt := s.now()
		entry.Status = models.StatusCompleted
		entry.CompletedAt = &completedAt
		if err := tx.UpdateQueueEntry(ctx, entry); err != nil {
			return err
		}

		if err := s.display.withdraw(ctx, tx, events, entry.PatientID); err != nil {
			return err
		}

		doctor.Status = models.DoctorAvailable
		return tx.UpdateDoctor(ctx, doctor)
	})

	var specialty models.Specialty
	if entry != nil {
		specialty = entry.Specialty
	}
	s.track("complete", specialty, err)
	if err != nil {
		return nil, err
	}

	slog.Info("Patient consultation completed", "entry_id", entry.ID, "patient_id", entry.PatientID, "doctor_id", doctorID)
	return entry, nil
}

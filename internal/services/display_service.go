package services

import (
	"context"
	"log/slog"

	"clinic-queue/internal/store"
	"clinic-queue/models"
)

// DisplayService owns the "now calling" board. Its writes run inside the
// transaction of the queue mutation that caused them.
type DisplayService struct {
	*engine
}

// announce puts the patient on the board. Any previous row for the patient is
// replaced so the board holds at most one row per patient.
func (d *DisplayService) announce(ctx context.Context, tx *store.Store, events *[]models.BoardEvent, patientID, room string, specialty models.Specialty, status models.QueueStatus) error {
	if _, err := tx.DeleteBoardEntries(ctx, patientID); err != nil {
		return err
	}
	row, err := tx.InsertBoardEntry(ctx, patientID, room, specialty, status, d.now())
	if err != nil {
		return err
	}

	*events = append(*events, models.BoardEvent{
		Type:       models.BoardEventCalled,
		PatientID:  row.PatientID,
		RoomNumber: row.RoomNumber,
		Specialty:  row.Specialty,
		Status:     row.Status,
		At:         row.CreatedAt,
	})
	return nil
}

// withdraw removes every board row of the patient. Removing nothing is fine.
func (d *DisplayService) withdraw(ctx context.Context, tx *store.Store, events *[]models.BoardEvent, patientID string) error {
	n, err := tx.DeleteBoardEntries(ctx, patientID)
	if err != nil {
		return err
	}
	if n > 0 {
		*events = append(*events, models.BoardEvent{
			Type:      models.BoardEventWithdrawn,
			PatientID: patientID,
			At:        d.now(),
		})
	}
	return nil
}

// GetDisplayBoard lists board rows, most recently created first.
func (d *DisplayService) GetDisplayBoard(ctx context.Context) ([]models.DisplayBoardEntry, error) {
	return cached(ctx, d.cache, displayBoardKey, func() ([]models.DisplayBoardEntry, error) {
		return d.store.ListBoardEntries(ctx)
	})
}

// Reconcile rebuilds the board from queue entries that are CALLED or
// IN_PROGRESS and returns the number of rows written.
func (d *DisplayService) Reconcile(ctx context.Context) (int, error) {
	var rebuilt int
	err := d.mutate(ctx, func(tx *store.Store, events *[]models.BoardEvent) error {
		rebuilt = 0
		entries, err := tx.ListEntriesByStatus(ctx, models.StatusCalled, models.StatusInProgress)
		if err != nil {
			return err
		}
		if err := tx.ClearBoard(ctx); err != nil {
			return err
		}

		seen := make(map[string]bool, len(entries))
		// newest entry wins when a patient somehow holds two
		for i := len(entries) - 1; i >= 0; i-- {
			entry := entries[i]
			if seen[entry.PatientID] || entry.RoomNumber == nil {
				continue
			}
			seen[entry.PatientID] = true

			createdAt := entry.CreatedAt
			if entry.CalledAt != nil {
				createdAt = *entry.CalledAt
			}
			if _, err := tx.InsertBoardEntry(ctx, entry.PatientID, *entry.RoomNumber, entry.Specialty, entry.Status, createdAt); err != nil {
				return err
			}
			rebuilt++
		}

		*events = append(*events, models.BoardEvent{Type: models.BoardEventRebuilt, At: d.now()})
		return nil
	})
	if err != nil {
		slog.Error("Failed to reconcile display board", "error", err)
		return 0, err
	}

	slog.Info("Display board reconciled", "rows", rebuilt)
	return rebuilt, nil
}

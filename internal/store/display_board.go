package store

import (
	"context"
	"time"

	"clinic-queue/models"

	"github.com/pocketbase/dbx"
)

const boardTable = "display_board_entries"

func (s *Store) InsertBoardEntry(ctx context.Context, patientID, room string, specialty models.Specialty, status models.QueueStatus, createdAt time.Time) (*models.DisplayBoardEntry, error) {
	res, err := s.db.Insert(boardTable, dbx.Params{
		"patient_id":  patientID,
		"room_number": room,
		"specialty":   string(specialty),
		"status":      string(status),
		"created_at":  createdAt.UTC(),
	}).WithContext(ctx).Execute()
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	row := &models.DisplayBoardEntry{}
	err = s.db.Select().
		From(boardTable).
		Where(dbx.HashExp{"id": id}).
		WithContext(ctx).
		One(row)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteBoardEntries removes every row of the patient and reports how many went.
func (s *Store) DeleteBoardEntries(ctx context.Context, patientID string) (int64, error) {
	res, err := s.db.Delete(boardTable, dbx.HashExp{"patient_id": patientID}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListBoardEntries returns the board newest first.
func (s *Store) ListBoardEntries(ctx context.Context) ([]models.DisplayBoardEntry, error) {
	rows := []models.DisplayBoardEntry{}
	err := s.db.Select().
		From(boardTable).
		OrderBy("created_at DESC", "id DESC").
		WithContext(ctx).
		All(&rows)
	return rows, err
}

func (s *Store) ClearBoard(ctx context.Context) error {
	_, err := s.db.Delete(boardTable, nil).WithContext(ctx).Execute()
	return err
}

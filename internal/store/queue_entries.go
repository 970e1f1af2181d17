package store

import (
	"context"
	"database/sql"
	"time"

	"clinic-queue/models"

	"github.com/pocketbase/dbx"
)

const queueEntriesTable = "queue_entries"

// MaxQueueNumber returns the highest queue number ever issued for the
// specialty across all statuses, or 0 when none exists.
func (s *Store) MaxQueueNumber(ctx context.Context, specialty models.Specialty) (int, error) {
	var max sql.NullInt64
	err := s.db.NewQuery("SELECT MAX(queue_number) FROM queue_entries WHERE specialty = {:specialty}").
		Bind(dbx.Params{"specialty": string(specialty)}).
		WithContext(ctx).
		Row(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

func (s *Store) InsertQueueEntry(ctx context.Context, patientID string, specialty models.Specialty, number int, createdAt time.Time) (*models.QueueEntry, error) {
	res, err := s.db.Insert(queueEntriesTable, dbx.Params{
		"patient_id":   patientID,
		"specialty":    string(specialty),
		"queue_number": number,
		"status":       string(models.StatusWaiting),
		"created_at":   createdAt.UTC(),
	}).WithContext(ctx).Execute()
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.FindQueueEntry(ctx, id)
}

func (s *Store) FindQueueEntry(ctx context.Context, id int64) (*models.QueueEntry, error) {
	e := &models.QueueEntry{}
	err := s.db.Select().
		From(queueEntriesTable).
		Where(dbx.HashExp{"id": id}).
		WithContext(ctx).
		One(e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FindEntryByPatient returns the patient's most recent entry in one of the
// given statuses.
func (s *Store) FindEntryByPatient(ctx context.Context, patientID string, statuses ...models.QueueStatus) (*models.QueueEntry, error) {
	e := &models.QueueEntry{}
	err := s.db.Select().
		From(queueEntriesTable).
		Where(dbx.HashExp{"patient_id": patientID}).
		AndWhere(dbx.In("status", statusArgs(statuses)...)).
		OrderBy("id DESC").
		Limit(1).
		WithContext(ctx).
		One(e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// NextWaiting returns the WAITING entry with the lowest queue number.
func (s *Store) NextWaiting(ctx context.Context, specialty models.Specialty) (*models.QueueEntry, error) {
	e := &models.QueueEntry{}
	err := s.db.Select().
		From(queueEntriesTable).
		Where(dbx.HashExp{
			"specialty": string(specialty),
			"status":    string(models.StatusWaiting),
		}).
		OrderBy("queue_number ASC").
		Limit(1).
		WithContext(ctx).
		One(e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CountWaitingBefore counts WAITING entries of the specialty holding a
// smaller queue number.
func (s *Store) CountWaitingBefore(ctx context.Context, specialty models.Specialty, number int) (int, error) {
	var n int
	err := s.db.NewQuery(`SELECT COUNT(*) FROM queue_entries
		WHERE specialty = {:specialty} AND status = {:status} AND queue_number < {:number}`).
		Bind(dbx.Params{
			"specialty": string(specialty),
			"status":    string(models.StatusWaiting),
			"number":    number,
		}).
		WithContext(ctx).
		Row(&n)
	return n, err
}

// WaitingSummaries aggregates WAITING entries per specialty. Specialties with
// nothing waiting produce no row.
func (s *Store) WaitingSummaries(ctx context.Context) ([]models.QueueStatusSummary, error) {
	rows := []models.QueueStatusSummary{}
	err := s.db.NewQuery(`SELECT specialty,
			COUNT(*) AS total_waiting,
			MAX(queue_number) AS current_queue_number
		FROM queue_entries
		WHERE status = {:status}
		GROUP BY specialty`).
		Bind(dbx.Params{"status": string(models.StatusWaiting)}).
		WithContext(ctx).
		All(&rows)
	return rows, err
}

// CountByStatus aggregates entries per specialty and status for the given statuses.
func (s *Store) CountByStatus(ctx context.Context, statuses ...models.QueueStatus) ([]models.StatusCount, error) {
	rows := []models.StatusCount{}
	err := s.db.Select("specialty", "status", "COUNT(*) AS total").
		From(queueEntriesTable).
		Where(dbx.In("status", statusArgs(statuses)...)).
		GroupBy("specialty", "status").
		OrderBy("specialty ASC", "status ASC").
		WithContext(ctx).
		All(&rows)
	return rows, err
}

func (s *Store) ListEntriesByStatus(ctx context.Context, statuses ...models.QueueStatus) ([]models.QueueEntry, error) {
	entries := []models.QueueEntry{}
	err := s.db.Select().
		From(queueEntriesTable).
		Where(dbx.In("status", statusArgs(statuses)...)).
		OrderBy("id ASC").
		WithContext(ctx).
		All(&entries)
	return entries, err
}

// UpdateQueueEntry persists the mutable columns of e.
func (s *Store) UpdateQueueEntry(ctx context.Context, e *models.QueueEntry) error {
	_, err := s.db.Update(queueEntriesTable, dbx.Params{
		"status":       string(e.Status),
		"doctor_id":    e.DoctorID,
		"room_number":  e.RoomNumber,
		"called_at":    utcPtr(e.CalledAt),
		"completed_at": utcPtr(e.CompletedAt),
	}, dbx.HashExp{"id": e.ID}).WithContext(ctx).Execute()
	return err
}

func statusArgs(statuses []models.QueueStatus) []any {
	args := make([]any, len(statuses))
	for i, st := range statuses {
		args[i] = string(st)
	}
	return args
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

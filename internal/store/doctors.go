package store

import (
	"context"
	"time"

	"clinic-queue/models"

	"github.com/pocketbase/dbx"
)

const doctorsTable = "doctors"

func (s *Store) CreateDoctor(ctx context.Context, name string, specialty models.Specialty) (*models.Doctor, error) {
	now := time.Now().UTC()
	res, err := s.db.Insert(doctorsTable, dbx.Params{
		"name":       name,
		"specialty":  string(specialty),
		"status":     string(models.DoctorOffline),
		"created_at": now,
	}).WithContext(ctx).Execute()
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.FindDoctor(ctx, id)
}

func (s *Store) FindDoctor(ctx context.Context, id int64) (*models.Doctor, error) {
	d := &models.Doctor{}
	err := s.db.Select().
		From(doctorsTable).
		Where(dbx.HashExp{"id": id}).
		WithContext(ctx).
		One(d)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors := []models.Doctor{}
	err := s.db.Select().
		From(doctorsTable).
		OrderBy("id ASC").
		WithContext(ctx).
		All(&doctors)
	return doctors, err
}

// UpdateDoctor persists room and status.
func (s *Store) UpdateDoctor(ctx context.Context, d *models.Doctor) error {
	_, err := s.db.Update(doctorsTable, dbx.Params{
		"room_number": d.RoomNumber,
		"status":      string(d.Status),
	}, dbx.HashExp{"id": d.ID}).WithContext(ctx).Execute()
	return err
}

package services

import (
	"context"
	"strings"

	"clinic-queue/internal/store"
	"clinic-queue/models"
)

// QueryService answers read-only questions about the queues. It keeps no
// state of its own.
type QueryService struct {
	*engine
	consultationMinutes int
}

// GetQueueStatus summarizes every specialty that has someone WAITING, in the
// fixed specialty order.
func (s *QueryService) GetQueueStatus(ctx context.Context) ([]models.QueueStatusSummary, error) {
	return cached(ctx, s.cache, queueStatusKey, func() ([]models.QueueStatusSummary, error) {
		return s.loadQueueStatus(ctx)
	})
}

func (s *QueryService) loadQueueStatus(ctx context.Context) ([]models.QueueStatusSummary, error) {
	rows, err := s.store.WaitingSummaries(ctx)
	if err != nil {
		return nil, err
	}

	bySpecialty := make(map[models.Specialty]models.QueueStatusSummary, len(rows))
	for _, row := range rows {
		bySpecialty[row.Specialty] = row
	}

	summaries := make([]models.QueueStatusSummary, 0, len(rows))
	for _, sp := range models.Specialties {
		row, ok := bySpecialty[sp]
		if !ok || row.TotalWaiting == 0 {
			continue
		}
		row.EstimatedWaitTime = row.TotalWaiting * s.consultationMinutes
		summaries = append(summaries, row)
	}
	return summaries, nil
}

// GetPatientQueueInfo reports the patient's active entry with its position
// among WAITING entries. CALLED and IN_PROGRESS entries report position 0 and
// no wait. Returns nil when the patient holds no active entry.
func (s *QueryService) GetPatientQueueInfo(ctx context.Context, patientID string) (*models.PatientQueueInfo, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	entry, err := s.store.FindEntryByPatient(ctx, patientID, models.ActiveStatuses...)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	info := &models.PatientQueueInfo{QueueEntry: *entry}
	if entry.Status != models.StatusWaiting {
		return info, nil
	}

	ahead, err := s.store.CountWaitingBefore(ctx, entry.Specialty, entry.QueueNumber)
	if err != nil {
		return nil, err
	}
	info.PositionInQueue = ahead + 1
	info.EstimatedWaitTime = ahead * s.consultationMinutes
	return info, nil
}

type DashboardSpecialty struct {
	Specialty  models.Specialty `json:"specialty"`
	Waiting    int              `json:"waiting"`
	Called     int              `json:"called"`
	InProgress int              `json:"in_progress"`
}

type Dashboard struct {
	Specialties []DashboardSpecialty `json:"specialties"`
	Doctors     []models.Doctor      `json:"doctors"`
	BoardRows   int                  `json:"board_rows"`
}

// Dashboard gathers active counts per specialty and the doctor roster for admins.
func (s *QueryService) Dashboard(ctx context.Context) (*Dashboard, error) {
	counts, err := s.store.CountByStatus(ctx, models.ActiveStatuses...)
	if err != nil {
		return nil, err
	}

	bySpecialty := map[models.Specialty]*DashboardSpecialty{}
	for _, c := range counts {
		row, ok := bySpecialty[c.Specialty]
		if !ok {
			row = &DashboardSpecialty{Specialty: c.Specialty}
			bySpecialty[c.Specialty] = row
		}
		switch c.Status {
		case models.StatusWaiting:
			row.Waiting = c.Total
		case models.StatusCalled:
			row.Called = c.Total
		case models.StatusInProgress:
			row.InProgress = c.Total
		}
	}

	d := &Dashboard{Specialties: []DashboardSpecialty{}}
	for _, sp := range models.Specialties {
		if row, ok := bySpecialty[sp]; ok {
			d.Specialties = append(d.Specialties, *row)
		}
	}

	if d.Doctors, err = s.store.ListDoctors(ctx); err != nil {
		return nil, err
	}
	board, err := s.store.ListBoardEntries(ctx)
	if err != nil {
		return nil, err
	}
	d.BoardRows = len(board)
	return d, nil
}

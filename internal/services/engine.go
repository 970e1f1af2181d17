package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"clinic-queue/internal/store"
	"clinic-queue/models"
	"clinic-queue/monitoring"
)

const DefaultConsultationMinutes = 15

type Options struct {
	Store               *store.Store
	Cache               *Cache
	Publisher           Publisher
	Monitor             *monitoring.Monitor
	ConsultationMinutes int
	Now                 func() time.Time
}

// Services groups the queue engine, doctor sessions, board projector and
// read-only queries over one shared engine lock.
type Services struct {
	Queue   *QueueService
	Doctors *DoctorService
	Display *DisplayService
	Query   *QueryService
}

func New(opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ConsultationMinutes <= 0 {
		opts.ConsultationMinutes = DefaultConsultationMinutes
	}
	if opts.Publisher == nil {
		opts.Publisher = NopPublisher{}
	}

	e := &engine{
		store:     opts.Store,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		monitor:   opts.Monitor,
		now:       opts.Now,
	}
	display := &DisplayService{engine: e}

	return &Services{
		Queue:   &QueueService{engine: e, display: display},
		Doctors: &DoctorService{engine: e, display: display},
		Display: display,
		Query:   &QueryService{engine: e, consultationMinutes: opts.ConsultationMinutes},
	}
}

type engine struct {
	// mu serializes every mutation so read-then-write pairs never interleave.
	mu sync.Mutex

	store     *store.Store
	cache     *Cache
	publisher Publisher
	monitor   *monitoring.Monitor
	now       func() time.Time
}

// mutate runs fn as one transaction under the engine lock. Board events
// collected during fn are published, and the read caches dropped, only after
// the transaction commits.
func (e *engine) mutate(ctx context.Context, fn func(tx *store.Store, events *[]models.BoardEvent) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var events []models.BoardEvent
	err := e.store.RunInTx(ctx, func(tx *store.Store) error {
		return fn(tx, &events)
	})
	if err != nil {
		return err
	}

	e.cache.Invalidate(ctx)
	for _, ev := range events {
		if err := e.publisher.PublishBoardEvent(ctx, ev); err != nil {
			slog.Warn("Failed to publish board event", "type", ev.Type, "patient_id", ev.PatientID, "error", err)
		}
	}
	return nil
}

func (e *engine) track(operation string, specialty models.Specialty, err error) {
	e.monitor.TrackQueueOperation(operation, string(specialty), err)
}

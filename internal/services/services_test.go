package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"clinic-queue/internal/store"
	"clinic-queue/models"

	"github.com/pocketbase/dbx"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// stepClock advances one second per reading so timestamps are strictly ordered.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishBoardEvent(ctx context.Context, ev models.BoardEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := dbx.Open("sqlite", filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.CreateSchema(db))
	return store.New(db)
}

func setupServices(t *testing.T, opts Options) (*Services, *store.Store) {
	t.Helper()

	if opts.Store == nil {
		opts.Store = newTestStore(t)
	}
	if opts.Now == nil {
		clock := &stepClock{t: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
		opts.Now = clock.Now
	}
	return New(opts), opts.Store
}

// newDoctor provisions a doctor and optionally logs them into a room.
func newDoctor(t *testing.T, svc *Services, specialty models.Specialty, room string) *models.Doctor {
	t.Helper()
	ctx := context.Background()

	d, err := svc.Doctors.CreateDoctor(ctx, "Dr. "+string(specialty), specialty)
	require.NoError(t, err)
	if room == "" {
		return d
	}
	d, err = svc.Doctors.DoctorLogin(ctx, d.ID, room)
	require.NoError(t, err)
	return d
}

package migrations

import (
	"clinic-queue/internal/store"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// The queue tables live beside the PocketBase collections as plain SQL tables
// so queue entries and doctors keep integer ids.
func init() {
	m.Register(func(app core.App) error {
		return store.CreateSchema(app.DB())
	}, func(app core.App) error {
		return store.DropSchema(app.DB())
	})
}

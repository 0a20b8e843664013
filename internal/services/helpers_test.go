package services

import (
	"testing"
	"time"

	"github.com/alexparks333/AlexPipeline/internal/config"
	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *gorm.DB
	fs       afero.Fs
	settings *SettingsService
	projects *ProjectService
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := models.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

// newTestEnv wires the project services over an in-memory database and
// filesystem with the studio root at /studio.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/studio/Projects", 0755))

	catalog, err := scaffold.DefaultCatalog()
	require.NoError(t, err)

	settings := NewSettingsService(db, fsys, "/studio")
	engine := scaffold.NewEngine(fsys).WithClock(func() time.Time { return testNow })
	projects := NewProjectService(db, engine, catalog, settings)
	projects.now = func() time.Time { return testNow }

	return &testEnv{db: db, fs: fsys, settings: settings, projects: projects}
}

func statusOf(err error) int {
	return response.StatusOf(err)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

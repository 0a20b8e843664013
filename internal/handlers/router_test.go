package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexparks333/AlexPipeline/internal/config"
	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLauncher struct {
	launched []string
}

func (l *stubLauncher) Launch(path string) error {
	l.launched = append(l.launched, path)
	return nil
}

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	fs       afero.Fs
	launcher *stubLauncher
}

// newTestServer mounts every handler on an in-memory database and filesystem
// with the studio root at /studio.
func newTestServer(t *testing.T) *testServer {
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

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/studio/Projects", 0755))

	catalog, err := scaffold.DefaultCatalog()
	require.NoError(t, err)

	settings := services.NewSettingsService(db, fsys, "/studio")
	projects := services.NewProjectService(db, scaffold.NewEngine(fsys), catalog, settings)
	launcher := &stubLauncher{}

	r := gin.New()

	health := NewHealthHandler(db)
	r.GET("/", health.Root)
	r.HEAD("/", health.Root)
	r.GET("/health", health.CheckHealth)
	r.GET("/metrics", Metrics(db))

	sh := NewSettingsHandler(settings)
	r.GET("/settings", sh.Get)
	r.POST("/settings", sh.Update)
	r.PUT("/settings", sh.Update)
	r.POST("/settings/validate-path", sh.ValidatePath)

	ph := NewProjectHandler(projects, services.NewProjectMetadataService(db))
	r.GET("/projects", ph.List)
	r.POST("/projects", ph.Create)
	r.GET("/projects/next-number", ph.NextNumber)
	r.POST("/projects/create", ph.CreateWithShots)
	r.GET("/projects/scan", ph.Scan)
	r.GET("/projects/:id", ph.GetByID)
	r.PUT("/projects/:id", ph.Update)
	r.DELETE("/projects/:id", ph.Delete)
	r.POST("/projects/:id/folders", ph.ApplyTemplate)
	r.GET("/projects/:id/metadata", ph.GetMetadata)
	r.PUT("/projects/:id/metadata", ph.UpdateMetadata)

	th := NewToolHandler(services.NewToolService(db, launcher))
	r.GET("/tools", th.List)
	r.POST("/tools", th.Create)
	r.GET("/tools/:id", th.GetByID)
	r.PUT("/tools/:id", th.Update)
	r.DELETE("/tools/:id", th.Delete)
	r.POST("/tools/:id/launch", th.Launch)

	lh := NewLibraryHandler(services.NewLibraryService(db))
	r.GET("/libraries", lh.List)
	r.POST("/libraries", lh.Create)
	r.GET("/libraries/:id", lh.GetByID)
	r.PUT("/libraries/:id", lh.Update)
	r.DELETE("/libraries/:id", lh.Delete)
	r.GET("/libraries/:id/items", lh.ListItems)
	r.POST("/libraries/:id/items", lh.CreateItem)
	r.PUT("/libraries/:id/items/:item_id", lh.UpdateItem)
	r.DELETE("/libraries/:id/items/:item_id", lh.DeleteItem)

	r.GET("/templates", NewTemplateHandler(catalog).List)

	slh := NewSystemLogHandler(services.NewSystemLogService(db))
	r.GET("/system-logs", slh.List)
	r.GET("/system-logs/modules", slh.GetModules)

	return &testServer{router: r, db: db, fs: fsys, launcher: launcher}
}

// envelope mirrors response.Response with Data left raw for per-test decoding.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}

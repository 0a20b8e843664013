package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectHandler_CreateAndGet(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/projects", map[string]interface{}{
		"name":        "Heist Show",
		"type":        "compositing",
		"client":      "ACME",
		"folder_name": "250001_Heist_Show",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 0, env.Code)

	var created services.CreateProjectResponse
	decode(t, env, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "250001_Heist_Show", created.FolderName)
	assert.Equal(t, "compositing", created.Type)
	assert.Equal(t, "/studio/Projects/250001_Heist_Show", created.WorkspacePath)
	require.NotNil(t, created.Manifest)
	assert.Equal(t, "ACME", created.Manifest.Client)

	ok, err := afero.DirExists(s.fs, "/studio/Projects/250001_Heist_Show/01_plates")
	require.NoError(t, err)
	assert.True(t, ok)

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/projects/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got services.CreateProjectResponse
	decode(t, env, &got)
	assert.Equal(t, "Heist Show", got.Name)
}

func TestProjectHandler_CreateAcceptsCamelCaseWorkspacePath(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.fs.MkdirAll("/elsewhere", 0755))

	w, env := s.do(t, http.MethodPost, "/projects", map[string]interface{}{
		"name":          "Show",
		"type":          "compositing",
		"folder_name":   "250001_Show",
		"workspacePath": "/elsewhere",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created services.CreateProjectResponse
	decode(t, env, &created)
	assert.Equal(t, "/elsewhere/250001_Show", created.WorkspacePath)
	ok, _ := afero.DirExists(s.fs, "/elsewhere/250001_Show/01_plates")
	assert.True(t, ok)
	ok, _ = afero.DirExists(s.fs, "/studio/Projects/250001_Show")
	assert.False(t, ok)

	w, env = s.do(t, http.MethodPost, "/projects", map[string]interface{}{
		"name":           "Other",
		"folder_name":    "250002_Other",
		"workspace_path": "/studio/Projects",
		"workspacePath":  "/elsewhere",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, env, &created)
	assert.Equal(t, "/studio/Projects/250002_Other", created.WorkspacePath, "snake_case key wins when both are sent")
}

func TestProjectHandler_UpdateRejectsUnknownType(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/projects", map[string]interface{}{"name": "Show", "folder_name": "250001_Show"})
	var created services.CreateProjectResponse
	decode(t, env, &created)
	path := fmt.Sprintf("/projects/%d", created.ID)

	w, _ := s.do(t, http.MethodPut, path, map[string]interface{}{"type": "no_such_template"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got services.CreateProjectResponse
	decode(t, env, &got)
	assert.Equal(t, "tracking", got.Type)
}

func TestProjectHandler_CreateErrors(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/projects", map[string]interface{}{
		"name":        "Show",
		"folder_name": "250001_Show",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"missing name fails binding", map[string]interface{}{"type": "tracking"}, http.StatusBadRequest},
		{"unusable name", map[string]interface{}{"name": "???"}, http.StatusBadRequest},
		{"traversal in folder name", map[string]interface{}{"name": "Show", "folder_name": "../escape"}, http.StatusBadRequest},
		{"registered folder", map[string]interface{}{"name": "Show", "folder_name": "250001_Show"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodPost, "/projects", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.status, env.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestProjectHandler_GetByIDErrors(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/projects/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid project id", env.Message)

	w, env = s.do(t, http.MethodGet, "/projects/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "project not found", env.Message)
}

func TestProjectHandler_CreateWithShots(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"name":        "Heist",
		"root_path":   "/studio",
		"folder_name": "Heist",
		"shots":       []string{"sh010", "sh020"},
	}
	w, env := s.do(t, http.MethodPost, "/projects/create", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created services.CreateProjectResponse
	decode(t, env, &created)
	assert.Equal(t, "vfx", created.Type)
	assert.Equal(t, []string{"sh010", "sh020"}, created.Shots.Data())

	ok, _ := afero.DirExists(s.fs, "/studio/Projects/Heist/vfx/sh020/compositing/nuke/scripts")
	assert.True(t, ok)

	w, _ = s.do(t, http.MethodPost, "/projects/create", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = s.do(t, http.MethodPost, "/projects/create", map[string]interface{}{
		"name":        "Heist",
		"root_path":   "/studio",
		"folder_name": "Other",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "at least one shot is required", env.Message)
}

func TestProjectHandler_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/projects", map[string]interface{}{"name": "Show", "folder_name": "250001_Show"})
	var created services.CreateProjectResponse
	decode(t, env, &created)
	path := fmt.Sprintf("/projects/%d", created.ID)

	w, env := s.do(t, http.MethodPut, path, map[string]interface{}{"client": "Globex"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated services.CreateProjectResponse
	decode(t, env, &updated)
	assert.Equal(t, "Globex", updated.Client)

	w, _ = s.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	ok, _ := afero.DirExists(s.fs, "/studio/Projects/250001_Show")
	assert.True(t, ok, "deleting a project keeps its folder")
}

func TestProjectHandler_ApplyTemplate(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/projects", map[string]interface{}{"name": "Show", "folder_name": "250001_Show"})
	var created services.CreateProjectResponse
	decode(t, env, &created)
	path := fmt.Sprintf("/projects/%d/folders", created.ID)

	w, _ := s.do(t, http.MethodPost, path, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, path, map[string]interface{}{"template_type": "houdini_fx"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ok, _ := afero.DirExists(s.fs, "/studio/Projects/250001_Show/03_hip")
	assert.True(t, ok)
}

func TestProjectHandler_NextNumberAndList(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/projects/next-number", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var next struct {
		NextNumber string `json:"next_number"`
	}
	decode(t, env, &next)
	assert.Len(t, next.NextNumber, 6)
	assert.Regexp(t, `^\d{2}0001$`, next.NextNumber)

	for _, name := range []string{"Alpha", "Beta"} {
		w, _ := s.do(t, http.MethodPost, "/projects", map[string]interface{}{"name": name, "client": "ACME"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, env = s.do(t, http.MethodGet, "/projects/next-number", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &next)
	assert.Regexp(t, `^\d{2}0003$`, next.NextNumber)

	w, env = s.do(t, http.MethodGet, "/projects?name=alp", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list services.ProjectListResponse
	decode(t, env, &list)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Alpha", list.Items[0].Name)

	w, _ = s.do(t, http.MethodGet, "/projects?page_size=500", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_Scan(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.fs.MkdirAll("/studio/Projects/250009_Found/vfx/sh010", 0755))

	w, env := s.do(t, http.MethodGet, "/projects/scan", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result services.ScanResult
	decode(t, env, &result)
	require.Len(t, result.Added, 1)
	assert.Equal(t, "250009_Found", result.Added[0].FolderName)
	assert.Equal(t, []string{"sh010"}, result.Added[0].Shots.Data())

	w, env = s.do(t, http.MethodGet, "/projects/scan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &result)
	assert.Empty(t, result.Added)
	assert.Equal(t, 1, result.Skipped)

	w, _ = s.do(t, http.MethodGet, "/projects/scan?root=/nowhere", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_Metadata(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/projects", map[string]interface{}{"name": "Show", "client": "ACME", "folder_name": "250001_Show"})
	var created services.CreateProjectResponse
	decode(t, env, &created)
	path := fmt.Sprintf("/projects/%d/metadata", created.ID)

	type metadata struct {
		Client   string   `json:"client"`
		Status   string   `json:"status"`
		Priority string   `json:"priority"`
		Tags     []string `json:"tags"`
	}

	w, env := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var meta metadata
	decode(t, env, &meta)
	assert.Equal(t, "ACME", meta.Client)
	assert.Equal(t, "in_progress", meta.Status)
	assert.Equal(t, "medium", meta.Priority)

	w, env = s.do(t, http.MethodPut, path, map[string]interface{}{
		"priority": "high",
		"tags":     []string{" comp ", "comp", "", "night"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env, &meta)
	assert.Equal(t, "high", meta.Priority)
	assert.Equal(t, []string{"comp", "night"}, meta.Tags)

	w, _ = s.do(t, http.MethodPut, path, map[string]interface{}{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/projects/404/metadata", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var dated struct {
		DeliveryDate *string `json:"delivery_date"`
	}
	w, env = s.do(t, http.MethodPut, path, map[string]interface{}{"delivery_date": "2025-07-01T00:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env, &dated)
	require.NotNil(t, dated.DeliveryDate)

	w, env = s.do(t, http.MethodPut, path, map[string]interface{}{"delivery_date": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dated.DeliveryDate = nil
	decode(t, env, &dated)
	assert.Nil(t, dated.DeliveryDate)
}

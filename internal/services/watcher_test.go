package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWorkspaceWatcher_MissingProjectsFolder(t *testing.T) {
	w, err := NewWorkspaceWatcher(t.TempDir(), &recordingQueue{})
	if err != nil {
		t.Fatalf("NewWorkspaceWatcher() error = %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error when Projects does not exist")
	}
}

func TestWorkspaceWatcher_DebouncesNewFolders(t *testing.T) {
	root := t.TempDir()
	projects := filepath.Join(root, ProjectsDirName)
	if err := os.Mkdir(projects, 0755); err != nil {
		t.Fatal(err)
	}

	q := &recordingQueue{}
	w, err := NewWorkspaceWatcher(root, q)
	if err != nil {
		t.Fatalf("NewWorkspaceWatcher() error = %v", err)
	}
	w.SetDebounce(100 * time.Millisecond)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	for _, name := range []string{"250001_Alpha", "250002_Beta", "250003_Gamma"} {
		if err := os.Mkdir(filepath.Join(projects, name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	tasks := waitForTasks(t, q, 1, 3*time.Second)
	if len(tasks) == 0 {
		t.Fatal("expected a scan to be enqueued")
	}
	time.Sleep(300 * time.Millisecond)
	tasks = q.snapshot()
	if len(tasks) != 1 {
		t.Errorf("burst should collapse into one scan, got %d", len(tasks))
	}
	if tasks[0].Root != root || tasks[0].Reason != "watch" {
		t.Errorf("task = %+v", tasks[0])
	}
}

func TestWorkspaceWatcher_StopIsIdempotent(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ProjectsDirName), 0755); err != nil {
		t.Fatal(err)
	}
	w, err := NewWorkspaceWatcher(root, &recordingQueue{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

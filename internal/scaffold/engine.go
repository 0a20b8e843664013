package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Engine materializes plans onto a filesystem. It never talks to the database.
type Engine struct {
	fs  afero.Fs
	now func() time.Time
}

func NewEngine(fsys afero.Fs) *Engine {
	return &Engine{fs: fsys, now: time.Now}
}

// NewOsEngine returns an engine over the real filesystem.
func NewOsEngine() *Engine {
	return NewEngine(afero.NewOsFs())
}

// Fs exposes the underlying filesystem so scans read the same tree the engine writes.
func (e *Engine) Fs() afero.Fs {
	return e.fs
}

// WithClock replaces the clock used for manifest timestamps.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Create materializes plan into a root that must not exist yet. The parent is
// created if needed, then root itself with a single mkdir so two concurrent
// creations of the same folder cannot both succeed. Partially created trees
// are left in place on failure.
func (e *Engine) Create(root string, plan *Plan, info Info) (*Manifest, error) {
	parent := filepath.Dir(root)
	if err := e.fs.MkdirAll(parent, 0755); err != nil {
		return nil, response.NewIOFailure(fmt.Sprintf("failed to create %s", parent), err)
	}

	if err := e.fs.Mkdir(root, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, response.NewConflict(fmt.Sprintf("project folder already exists: %s", root))
		}
		return nil, response.NewIOFailure(fmt.Sprintf("failed to create %s", root), err)
	}

	return e.materialize(root, plan, info, nil)
}

// Apply re-materializes plan into root, creating whatever is missing and
// rewriting the manifest. Existing directories are left alone. Shots and
// structure recorded by an earlier manifest are kept when plan has no shots.
func (e *Engine) Apply(root string, plan *Plan, info Info) (*Manifest, error) {
	if err := e.fs.MkdirAll(root, 0755); err != nil {
		return nil, response.NewIOFailure(fmt.Sprintf("failed to create %s", root), err)
	}

	prev, err := ReadManifest(e.fs, root)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Component("scaffold").Warn().Err(err).Str("root", root).Msg("existing manifest unreadable, rewriting")
	}
	return e.materialize(root, plan, info, prev)
}

func (e *Engine) materialize(root string, plan *Plan, info Info, prev *Manifest) (*Manifest, error) {
	for _, dir := range plan.Dirs {
		full := filepath.Join(root, filepath.FromSlash(dir))
		if err := e.fs.MkdirAll(full, 0755); err != nil {
			return nil, response.NewIOFailure(fmt.Sprintf("failed to create %s", full), err)
		}
	}

	shots := plan.Shots
	if shots == nil {
		shots = []string{}
	}
	structure := plan.Structure()
	if prev != nil {
		if len(shots) == 0 {
			shots = prev.Shots
		}
		structure = lo.Uniq(append(prev.Structure, structure...))
		sort.Strings(structure)
	}

	m := &Manifest{
		Name:      info.Name,
		Type:      plan.Type,
		Client:    info.Client,
		Shots:     shots,
		CreatedAt: e.now().UTC().Format(time.RFC3339),
		Structure: structure,
	}
	if err := writeManifest(e.fs, root, m); err != nil {
		path := filepath.Join(root, ManifestFile)
		return nil, response.NewIOFailure(fmt.Sprintf("failed to write %s", path), err)
	}

	logger.Component("scaffold").Debug().
		Str("root", root).
		Str("type", plan.Type).
		Int("dirs", len(plan.Dirs)).
		Msg("project tree materialized")
	return m, nil
}

// ReadManifest reads the manifest under root from the engine's filesystem.
func (e *Engine) ReadManifest(root string) (*Manifest, error) {
	return ReadManifest(e.fs, root)
}

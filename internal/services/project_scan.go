package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/alexparks333/AlexPipeline/internal/utils"
	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShotRootDir marks a folder under Projects as a pipeline project.
const ShotRootDir = "vfx"

type ScanResult struct {
	Root    string           `json:"root"`
	Added   []models.Project `json:"added"`
	Skipped int              `json:"skipped"`
	Total   int64            `json:"total"`
}

// Scan registers project folders found under <root>/Projects that the registry
// does not know yet. Running it again on an unchanged tree adds nothing.
func (s *ProjectService) Scan(root string) (*ScanResult, error) {
	result, err := s.scan(root)
	if err != nil {
		scansTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	scansTotal.WithLabelValues("ok").Inc()
	return result, nil
}

// ProcessScanTask runs a queued scan.
func (s *ProjectService) ProcessScanTask(_ context.Context, task *ScanTask) error {
	_, err := s.Scan(task.Root)
	return err
}

func (s *ProjectService) scan(root string) (*ScanResult, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = s.settings.RootPath()
	}
	if root == "" {
		return nil, response.NewValidation("no root path given and none configured in settings")
	}
	root = utils.ExpandHome(root)

	fsys := s.engine.Fs()
	projectsDir := filepath.Join(root, ProjectsDirName)
	if ok, _ := afero.DirExists(fsys, projectsDir); !ok {
		return nil, response.NewValidation(fmt.Sprintf("no %s folder under %s", ProjectsDirName, root))
	}

	entries, err := afero.ReadDir(fsys, projectsDir)
	if err != nil {
		return nil, response.NewIOFailure(fmt.Sprintf("failed to read %s", projectsDir), err)
	}

	var registered []string
	if err := s.db.Model(&models.Project{}).Pluck("folder_name", &registered).Error; err != nil {
		return nil, err
	}
	known := lo.SliceToMap(registered, func(name string) (string, struct{}) {
		return name, struct{}{}
	})

	result := &ScanResult{Root: root, Added: []models.Project{}}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := entry.Name()
		dir := filepath.Join(projectsDir, folder)
		if ok, _ := afero.DirExists(fsys, filepath.Join(dir, ShotRootDir)); !ok {
			continue
		}
		if _, ok := known[folder]; ok {
			result.Skipped++
			continue
		}

		project := s.discoveredProject(fsys, dir, folder)
		if err := s.db.Create(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("failed to register %s: %w", folder, err)
		}
		known[folder] = struct{}{}
		result.Added = append(result.Added, project)

		projectsCreated.WithLabelValues("scan").Inc()
		PublishProjectEvent(ProjectEventScanned, project.ID, project.Name, project.FolderName)
	}

	if err := s.db.Model(&models.Project{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}
	SetProjectsGauge(result.Total)

	if len(result.Added) > 0 {
		LogInfo("project", "scan", fmt.Sprintf("Registered %d projects from %s", len(result.Added), projectsDir), "", "", map[string]interface{}{
			"added":   len(result.Added),
			"skipped": result.Skipped,
		})
	}
	logger.Info().
		Str("root", root).
		Int("added", len(result.Added)).
		Int("skipped", result.Skipped).
		Int64("total", result.Total).
		Msg("[Scan] workspace scanned")
	return result, nil
}

// discoveredProject builds a record for an unregistered folder, preferring
// what its manifest says over what can be inferred from the tree.
func (s *ProjectService) discoveredProject(fsys afero.Fs, dir, folder string) models.Project {
	project := models.Project{
		Name:          utils.DisplayNameFromFolder(folder),
		FolderName:    folder,
		Type:          s.catalog.Shot().Type,
		WorkspacePath: dir,
	}

	shots := shotDirs(fsys, filepath.Join(dir, ShotRootDir))

	manifest, err := scaffold.ReadManifest(fsys, dir)
	switch {
	case err == nil:
		if manifest.Type != "" {
			project.Type = manifest.Type
		}
		project.Client = manifest.Client
		if len(manifest.Shots) > 0 {
			shots = manifest.Shots
		}
	case !errors.Is(err, fs.ErrNotExist):
		logger.Warn().Err(err).Str("folder", folder).Msg("[Scan] ignoring unreadable manifest")
	}

	project.Shots = datatypes.NewJSONType(shots)
	return project
}

func shotDirs(fsys afero.Fs, dir string) []string {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return []string{}
	}
	shots := lo.FilterMap(entries, func(e fs.FileInfo, _ int) (string, bool) {
		return e.Name(), e.IsDir()
	})
	sort.Strings(shots)
	return shots
}

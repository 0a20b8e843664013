package services

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/utils"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// Folder names expected directly under a studio root path.
const (
	ProjectsDirName = "Projects"
	ToolsDirName    = "Tools"
)

// SettingsService owns the single settings row. It is created with defaults
// on first read and only ever updated in place afterwards.
type SettingsService struct {
	db          *gorm.DB
	fs          afero.Fs
	defaultRoot string
}

func NewSettingsService(db *gorm.DB, fs afero.Fs, defaultRoot string) *SettingsService {
	return &SettingsService{db: db, fs: fs, defaultRoot: defaultRoot}
}

type UpdateSettingsRequest struct {
	RootPath      *string `json:"root_path"`
	AutoLaunch    *bool   `json:"auto_launch"`
	DarkMode      *bool   `json:"dark_mode"`
	Notifications *bool   `json:"notifications"`
}

type ValidatePathRequest struct {
	Path string `json:"path"`
}

type PathValidation struct {
	Path        string   `json:"path"`
	Exists      bool     `json:"exists"`
	IsDirectory bool     `json:"is_directory"`
	HasProjects bool     `json:"has_projects"`
	HasTools    bool     `json:"has_tools"`
	Missing     []string `json:"missing"`
	Valid       bool     `json:"valid"`
}

// Get returns the settings row, creating it with defaults on first access
func (s *SettingsService) Get() (*models.Settings, error) {
	var settings models.Settings
	defaults := models.Settings{
		RootPath:      s.defaultRoot,
		AutoLaunch:    false,
		DarkMode:      true,
		Notifications: true,
	}

	err := s.db.Where(models.Settings{ID: models.SettingsID}).Attrs(defaults).FirstOrCreate(&settings).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// another request created the row first
		err = s.db.First(&settings, models.SettingsID).Error
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// RootPath returns the configured studio root, or "" when unset
func (s *SettingsService) RootPath() string {
	settings, err := s.Get()
	if err != nil {
		return ""
	}
	return utils.ExpandHome(strings.TrimSpace(settings.RootPath))
}

// Update applies the given fields to the settings row; last writer wins
func (s *SettingsService) Update(req *UpdateSettingsRequest) (*models.Settings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.RootPath != nil {
		updates["root_path"] = strings.TrimSpace(*req.RootPath)
	}
	if req.AutoLaunch != nil {
		updates["auto_launch"] = *req.AutoLaunch
	}
	if req.DarkMode != nil {
		updates["dark_mode"] = *req.DarkMode
	}
	if req.Notifications != nil {
		updates["notifications"] = *req.Notifications
	}

	if len(updates) > 0 {
		if err := s.db.Model(settings).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.Get()
}

// ValidatePath reports whether path looks like a studio root. It never creates anything.
func (s *SettingsService) ValidatePath(path string) (*PathValidation, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, response.NewValidation("path is required")
	}
	path = utils.ExpandHome(path)

	result := &PathValidation{Path: path, Missing: []string{}}

	info, err := s.fs.Stat(path)
	if err == nil {
		result.Exists = true
		result.IsDirectory = info.IsDir()
	}
	if result.IsDirectory {
		result.HasProjects, _ = afero.DirExists(s.fs, filepath.Join(path, ProjectsDirName))
		result.HasTools, _ = afero.DirExists(s.fs, filepath.Join(path, ToolsDirName))
	}

	if !result.HasProjects {
		result.Missing = append(result.Missing, ProjectsDirName)
	}
	if !result.HasTools {
		result.Missing = append(result.Missing, ToolsDirName)
	}
	result.Valid = result.IsDirectory && len(result.Missing) == 0
	return result, nil
}

package scaffold

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// ManifestFile is written at the root of every materialized project.
const ManifestFile = "project_info.json"

// Manifest records what a materialization created and when.
type Manifest struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Client    string   `json:"client"`
	Shots     []string `json:"shots"`
	CreatedAt string   `json:"created_at"` // UTC, RFC 3339
	Structure []string `json:"structure"`
}

// Info is the caller supplied part of a manifest.
type Info struct {
	Name   string
	Client string
}

func writeManifest(fs afero.Fs, root string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(root, ManifestFile), data, 0644)
}

// ReadManifest parses root/project_info.json. A missing file is reported
// with an error satisfying errors.Is(err, fs.ErrNotExist).
func ReadManifest(fs afero.Fs, root string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, filepath.Join(root, ManifestFile))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid %s in %s: %w", ManifestFile, root, err)
	}
	if m.Shots == nil {
		m.Shots = []string{}
	}
	return &m, nil
}

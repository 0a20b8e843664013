package scaffold

import (
	"fmt"
	"sort"

	"github.com/alexparks333/AlexPipeline/internal/utils"
	"github.com/alexparks333/AlexPipeline/pkg/response"
)

// Plan is the list of directories one materialization creates, relative to
// the project root and slash separated. Parents come before children.
type Plan struct {
	Type  string
	Shots []string
	Dirs  []string
}

// Structure returns the plan's directories sorted, as recorded in the manifest.
func (p *Plan) Structure() []string {
	out := append([]string(nil), p.Dirs...)
	sort.Strings(out)
	return out
}

// FlatPlan resolves projectType (with fallback) and lists its folders.
func (c *Catalog) FlatPlan(projectType string) *Plan {
	t := c.Resolve(projectType)
	return &Plan{
		Type:  t.Type,
		Shots: []string{},
		Dirs:  append([]string(nil), t.Folders...),
	}
}

// ShotPlan expands the shot template for every shot plus the project level tree.
func (c *Catalog) ShotPlan(shots []string) (*Plan, error) {
	if err := ValidateShots(shots); err != nil {
		return nil, err
	}

	root := c.shot.Root
	dirs := []string{root}
	for _, shot := range shots {
		shotRoot := root + "/" + shot
		dirs = append(dirs, shotRoot)
		dirs = flatten(c.shot.PerShot, shotRoot, dirs)
	}
	dirs = flatten(c.shot.Project, "", dirs)

	return &Plan{
		Type:  c.shot.Type,
		Shots: append([]string(nil), shots...),
		Dirs:  dirs,
	}, nil
}

// ValidateShots requires at least one shot, each a unique single path element.
func ValidateShots(shots []string) error {
	if len(shots) == 0 {
		return response.NewValidation("at least one shot is required")
	}
	seen := make(map[string]struct{}, len(shots))
	for _, s := range shots {
		if !utils.ValidName(s) {
			return response.NewValidation(fmt.Sprintf("invalid shot name %q", s))
		}
		if _, dup := seen[s]; dup {
			return response.NewValidation(fmt.Sprintf("duplicate shot %q", s))
		}
		seen[s] = struct{}{}
	}
	return nil
}

package scaffold

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/alexparks333/AlexPipeline/internal/utils"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultCatalogYAML []byte

// maxTreeDepth bounds alias expansion when decoding nested templates.
const maxTreeDepth = 32

const (
	KindFlat = "flat"
	KindShot = "shot"
)

// FlatTemplate is a named single-level folder list keyed by project type.
type FlatTemplate struct {
	Type        string   `yaml:"type" json:"type"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Folders     []string `yaml:"folders" json:"folders"`
}

// Node is one directory in a nested template. A node without children is a leaf.
type Node struct {
	Name     string
	Children []*Node
}

// ShotTemplate describes the per-shot department tree placed under
// <project>/<Root>/<shot>/ and the project level siblings.
type ShotTemplate struct {
	Type        string
	Name        string
	Description string
	Root        string
	PerShot     []*Node
	Project     []*Node
}

// TemplateSummary is the listing form served to clients.
type TemplateSummary struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	Folders     []string `json:"folders"`
}

// Catalog is the immutable set of templates loaded at startup.
type Catalog struct {
	flat  []FlatTemplate
	index map[string]int
	shot  ShotTemplate
}

type catalogFile struct {
	Flat []FlatTemplate `yaml:"flat"`
	Shot struct {
		Type        string    `yaml:"type"`
		Name        string    `yaml:"name"`
		Description string    `yaml:"description"`
		Root        string    `yaml:"root"`
		PerShot     yaml.Node `yaml:"per_shot"`
		Project     yaml.Node `yaml:"project"`
	} `yaml:"shot"`
}

// DefaultCatalog parses the embedded templates.yaml.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultCatalogYAML)
}

// LoadCatalogFile parses a catalog from disk, falling back to the embedded
// one when path is empty.
func LoadCatalogFile(file string) (*Catalog, error) {
	if file == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template catalog: %w", err)
	}
	return LoadCatalog(data)
}

func LoadCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid template catalog: %w", err)
	}

	if len(file.Flat) == 0 {
		return nil, fmt.Errorf("invalid template catalog: at least one flat template is required")
	}

	c := &Catalog{
		flat:  make([]FlatTemplate, 0, len(file.Flat)),
		index: make(map[string]int, len(file.Flat)),
	}
	for _, t := range file.Flat {
		if t.Type == "" {
			return nil, fmt.Errorf("invalid template catalog: flat template without type")
		}
		if _, dup := c.index[t.Type]; dup {
			return nil, fmt.Errorf("invalid template catalog: duplicate type %q", t.Type)
		}
		for _, folder := range t.Folders {
			if err := validRelPath(folder); err != nil {
				return nil, fmt.Errorf("invalid template catalog: %s: %w", t.Type, err)
			}
		}
		if t.Name == "" {
			t.Name = t.Type
		}
		c.index[t.Type] = len(c.flat)
		c.flat = append(c.flat, t)
	}

	shot := file.Shot
	c.shot = ShotTemplate{
		Type:        shot.Type,
		Name:        shot.Name,
		Description: shot.Description,
		Root:        shot.Root,
	}
	if c.shot.Type == "" {
		c.shot.Type = "vfx"
	}
	if c.shot.Root == "" {
		c.shot.Root = "vfx"
	}
	if !utils.ValidName(c.shot.Root) {
		return nil, fmt.Errorf("invalid template catalog: bad shot root %q", c.shot.Root)
	}
	if _, clash := c.index[c.shot.Type]; clash {
		return nil, fmt.Errorf("invalid template catalog: shot type %q clashes with a flat template", c.shot.Type)
	}

	var err error
	if c.shot.PerShot, err = decodeTree(&shot.PerShot, 0); err != nil {
		return nil, fmt.Errorf("invalid template catalog: per_shot: %w", err)
	}
	if c.shot.Project, err = decodeTree(&shot.Project, 0); err != nil {
		return nil, fmt.Errorf("invalid template catalog: project: %w", err)
	}

	return c, nil
}

// decodeTree turns a YAML value into child nodes. Mappings nest, a null
// value is a leaf and a sequence lists leaves (or nested mappings).
func decodeTree(n *yaml.Node, depth int) ([]*Node, error) {
	if depth > maxTreeDepth {
		return nil, fmt.Errorf("template nested deeper than %d levels", maxTreeDepth)
	}
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return nil, fmt.Errorf("line %d: expected mapping, list or empty value, got %q", n.Line, n.Value)
	case yaml.MappingNode:
		children := make([]*Node, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if !utils.ValidName(key.Value) {
				return nil, fmt.Errorf("line %d: invalid folder name %q", key.Line, key.Value)
			}
			sub, err := decodeTree(value, depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, &Node{Name: key.Value, Children: sub})
		}
		return children, uniqueNames(children)
	case yaml.SequenceNode:
		var children []*Node
		for _, item := range n.Content {
			for item.Kind == yaml.AliasNode {
				item = item.Alias
			}
			switch item.Kind {
			case yaml.ScalarNode:
				if !utils.ValidName(item.Value) {
					return nil, fmt.Errorf("line %d: invalid folder name %q", item.Line, item.Value)
				}
				children = append(children, &Node{Name: item.Value})
			case yaml.MappingNode:
				sub, err := decodeTree(item, depth+1)
				if err != nil {
					return nil, err
				}
				children = append(children, sub...)
			default:
				return nil, fmt.Errorf("line %d: unsupported list entry", item.Line)
			}
		}
		return children, uniqueNames(children)
	default:
		return nil, fmt.Errorf("line %d: unsupported template node", n.Line)
	}
}

func uniqueNames(nodes []*Node) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if _, ok := seen[n.Name]; ok {
			return fmt.Errorf("duplicate folder %q", n.Name)
		}
		seen[n.Name] = struct{}{}
	}
	return nil
}

// validRelPath accepts slash separated relative paths made of valid names.
func validRelPath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") {
		return fmt.Errorf("invalid folder %q", p)
	}
	for _, part := range strings.Split(p, "/") {
		if !utils.ValidName(part) {
			return fmt.Errorf("invalid folder %q", p)
		}
	}
	return nil
}

// Resolve returns the flat template for projectType. Unknown types fall
// back to the first template in the catalog.
func (c *Catalog) Resolve(projectType string) FlatTemplate {
	if i, ok := c.index[projectType]; ok {
		return c.flat[i]
	}
	return c.flat[0]
}

// Has reports whether projectType names a flat template.
func (c *Catalog) Has(projectType string) bool {
	_, ok := c.index[projectType]
	return ok
}

func (c *Catalog) Shot() ShotTemplate {
	return c.shot
}

// List returns the flat templates in catalog order followed by the shot template.
func (c *Catalog) List() []TemplateSummary {
	out := make([]TemplateSummary, 0, len(c.flat)+1)
	for _, t := range c.flat {
		out = append(out, TemplateSummary{
			Type:        t.Type,
			Name:        t.Name,
			Description: t.Description,
			Kind:        KindFlat,
			Folders:     append([]string(nil), t.Folders...),
		})
	}

	folders := flatten(c.shot.PerShot, path.Join(c.shot.Root, "{shot}"), nil)
	folders = flatten(c.shot.Project, "", folders)
	out = append(out, TemplateSummary{
		Type:        c.shot.Type,
		Name:        c.shot.Name,
		Description: c.shot.Description,
		Kind:        KindShot,
		Folders:     folders,
	})
	return out
}

// flatten appends every node path under prefix, parents before children.
func flatten(nodes []*Node, prefix string, out []string) []string {
	for _, n := range nodes {
		p := n.Name
		if prefix != "" {
			p = prefix + "/" + n.Name
		}
		out = append(out, p)
		out = flatten(n.Children, p, out)
	}
	return out
}

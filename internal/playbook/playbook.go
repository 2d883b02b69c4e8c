// Package playbook holds the catalog of remediation playbooks recommended
// for each alert type.
package playbook

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task is one ordered step of a playbook.
type Task struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Definition is a read-only remediation checklist.
type Definition struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Description   string   `yaml:"description" json:"description"`
	AlertTypes    []string `yaml:"alert_types" json:"alert_types"`
	EstimatedDays int      `yaml:"estimated_days" json:"estimated_days"`
	Tasks         []Task   `yaml:"tasks" json:"tasks"`
	Source        string   `yaml:"-" json:"source,omitempty"`
}

// AppliesTo reports whether the playbook is recommended for alertType.
func (d *Definition) AppliesTo(alertType string) bool {
	for _, t := range d.AlertTypes {
		if t == alertType {
			return true
		}
	}
	return false
}

// Progress converts a set of completed task indices into a 0-100 percentage.
// Out-of-range and duplicate indices are ignored.
func (d *Definition) Progress(completed []int) int {
	if len(d.Tasks) == 0 {
		return 0
	}
	seen := make(map[int]bool, len(completed))
	for _, i := range completed {
		if i >= 0 && i < len(d.Tasks) {
			seen[i] = true
		}
	}
	return int(math.Round(float64(len(seen)) / float64(len(d.Tasks)) * 100))
}

// ParseDefinition parses and validates a playbook from YAML bytes.
func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("invalid playbook YAML: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Definition) validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("playbook id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("playbook %s: name is required", d.ID)
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("playbook %s: at least one task is required", d.ID)
	}
	for i, t := range d.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("playbook %s: task %d has no title", d.ID, i)
		}
	}
	if d.EstimatedDays < 0 {
		return fmt.Errorf("playbook %s: estimated_days must not be negative", d.ID)
	}
	return nil
}

// Catalog is an ordered, read-only set of playbooks. Lookups are first-match
// in load order: built-ins first, then user directories.
type Catalog struct {
	defs []*Definition
}

// NewCatalog builds a catalog from definitions. Duplicate IDs are rejected.
func NewCatalog(defs ...*Definition) (*Catalog, error) {
	c := &Catalog{}
	for _, d := range defs {
		if err := c.add(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(d *Definition) error {
	if c.Get(d.ID) != nil {
		return fmt.Errorf("duplicate playbook id %q", d.ID)
	}
	c.defs = append(c.defs, d)
	return nil
}

// LoadDir appends every *.yaml playbook in dir, sorted by file name.
// A missing directory is not an error.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read playbook dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read playbook %s: %w", path, err)
		}
		d, err := ParseDefinition(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		d.Source = path
		if err := c.add(d); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Recommended returns the first playbook applicable to alertType, or nil.
func (c *Catalog) Recommended(alertType string) *Definition {
	for _, d := range c.defs {
		if d.AppliesTo(alertType) {
			return d
		}
	}
	return nil
}

// Get returns the playbook with the given ID, or nil.
func (c *Catalog) Get(id string) *Definition {
	for _, d := range c.defs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// List returns all playbooks in catalog order.
func (c *Catalog) List() []*Definition {
	out := make([]*Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

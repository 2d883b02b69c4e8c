package playbook

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed playbooks/*.yaml
var builtinFS embed.FS

// Builtin returns a catalog of the embedded playbooks in file-name order.
// The embedded files are validated by tests, so a parse failure here is a
// build defect and panics.
func Builtin() *Catalog {
	defs, err := loadBuiltin()
	if err != nil {
		panic(err)
	}
	c, err := NewCatalog(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

func loadBuiltin() ([]*Definition, error) {
	entries, err := builtinFS.ReadDir("playbooks")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var defs []*Definition
	for _, name := range names {
		data, err := builtinFS.ReadFile("playbooks/" + name)
		if err != nil {
			return nil, err
		}
		d, err := ParseDefinition(data)
		if err != nil {
			return nil, fmt.Errorf("built-in playbook %s: %w", name, err)
		}
		d.Source = "built-in"
		defs = append(defs, d)
	}
	return defs, nil
}

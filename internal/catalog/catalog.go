// Package catalog holds the criterion catalogues the review pipeline
// evaluates against. Catalogues are embedded YAML, loaded once at process
// start, and immutable afterwards.
package catalog

import (
	"embed"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/pontoedu/apostila-review/internal/model"
)

//go:embed student.yaml professor.yaml
var catalogFS embed.FS

var catalogFiles = map[string]string{
	"estudante": "student.yaml",
	"professor": "professor.yaml",
}

// Catalog is one immutable criterion catalogue.
type Catalog struct {
	Name        string            `yaml:"name"`
	Suggestions []int             `yaml:"suggestions"`
	Criteria    []model.Criterion `yaml:"criteria"`
}

// Names lists the available catalogue names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalogFiles))
	for n := range catalogFiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads and validates the named catalogue.
func Load(name string) (*Catalog, error) {
	file, ok := catalogFiles[name]
	if !ok {
		return nil, eris.Errorf("catalog: unknown catalogue %q (available: %v)", name, Names())
	}

	data, err := catalogFS.ReadFile(file)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", file)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", file)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[int]bool, len(c.Criteria))
	for _, cr := range c.Criteria {
		if seen[cr.ID] {
			return eris.Errorf("catalog: %s: duplicate criterion id %d", c.Name, cr.ID)
		}
		seen[cr.ID] = true
		if cr.DisplayText == "" {
			return eris.Errorf("catalog: %s: criterion %d has no display text", c.Name, cr.ID)
		}
		switch cr.Type {
		case model.CriterionAuto, model.CriterionManual:
		default:
			return eris.Errorf("catalog: %s: criterion %d has invalid type %q", c.Name, cr.ID, cr.Type)
		}
	}
	for _, id := range c.Suggestions {
		if !seen[id] {
			return eris.Errorf("catalog: %s: suggestion id %d not in catalogue", c.Name, id)
		}
	}
	return nil
}

// Auto returns the criteria the model evaluates, in catalogue order.
func (c *Catalog) Auto() []model.Criterion {
	var out []model.Criterion
	for _, cr := range c.Criteria {
		if cr.Type == model.CriterionAuto {
			out = append(out, cr)
		}
	}
	return out
}

// ByID returns the criterion with the given id.
func (c *Catalog) ByID(id int) (model.Criterion, bool) {
	for _, cr := range c.Criteria {
		if cr.ID == id {
			return cr, true
		}
	}
	return model.Criterion{}, false
}

// HasSuggestions reports whether correction suggestions are generated for
// the criterion.
func (c *Catalog) HasSuggestions(id int) bool {
	for _, s := range c.Suggestions {
		if s == id {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (c *Catalog) String() string {
	return fmt.Sprintf("%s (%d criteria, %d auto)", c.Name, len(c.Criteria), len(c.Auto()))
}

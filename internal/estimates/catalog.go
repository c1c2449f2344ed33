package estimates

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog holds the lookup tables the estimate prompt draws on.
type Catalog struct {
	DefaultSize  string              `yaml:"default_size"`
	Sizes        map[string]string   `yaml:"sizes"`
	DefaultFocus []string            `yaml:"default_focus"`
	Industries   map[string][]string `yaml:"industries"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes a YAML catalog and checks that its defaults resolve.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if _, ok := c.Sizes[c.DefaultSize]; !ok {
		return nil, fmt.Errorf("default_size %q has no hours range", c.DefaultSize)
	}
	if len(c.DefaultFocus) == 0 {
		return nil, fmt.Errorf("default_focus is empty")
	}
	return &c, nil
}

// HoursRange returns the target hours for a size label, falling back to the
// default size for unknown labels.
func (c *Catalog) HoursRange(size string) string {
	if r, ok := c.Sizes[strings.ToLower(strings.TrimSpace(size))]; ok {
		return r
	}
	return c.Sizes[c.DefaultSize]
}

// FocusAreas returns the focus list for an industry. Lookup is lower-cased
// with spaces turned into underscores.
func (c *Catalog) FocusAreas(industry string) []string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(industry)), " ", "_")
	if areas, ok := c.Industries[key]; ok {
		return areas
	}
	return c.DefaultFocus
}

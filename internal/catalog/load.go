package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrCatalogNotFound is returned when the catalog file does not exist.
var ErrCatalogNotFound = errors.New("catalog file not found")

// Load reads a YAML catalog from path on top of the defaults. Keys missing
// from the file keep their default values. The result is validated.
func Load(path string) (*Catalog, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(payload)
}

// Parse decodes a YAML catalog on top of the defaults and validates it.
func Parse(payload []byte) (*Catalog, error) {
	c := Default()
	if err := yaml.Unmarshal(payload, c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Marshal encodes a catalog as YAML.
func Marshal(c *Catalog) ([]byte, error) {
	payload, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return payload, nil
}

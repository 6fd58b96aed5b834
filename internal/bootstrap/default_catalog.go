package bootstrap

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/gigmarket/gigmarket/internal/modules/repo"
)

//go:embed catalog.yaml
var defaultCatalog string

type CatalogFile struct {
	Categories []CatalogCategory `yaml:"categories"`
}

type CatalogCategory struct {
	Name          string                 `yaml:"name"`
	Meta          map[string]interface{} `yaml:"meta"`
	Subcategories []string               `yaml:"subcategories"`
}

// ParseCatalog decodes a catalog file. Names must be unique across
// categories and subcategories since filters resolve them by name alone.
func ParseCatalog(r io.Reader) (*CatalogFile, error) {
	var f CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := map[string]bool{}
	for _, c := range f.Categories {
		names := append([]string{c.Name}, c.Subcategories...)
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n == "" {
				return nil, fmt.Errorf("catalog: empty name under %q", c.Name)
			}
			if seen[n] {
				return nil, fmt.Errorf("catalog: duplicate name %q", n)
			}
			seen[n] = true
		}
	}
	return &f, nil
}

// EnsureDefaultCatalog seeds categories from path, or from the built-in
// catalog when path is empty.
func EnsureDefaultCatalog(ctx context.Context, categories repo.CategoryRepo, path string, log *zap.Logger) error {
	var r io.Reader = strings.NewReader(defaultCatalog)
	if path != "" {
		fh, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer fh.Close()
		r = fh
	}

	f, err := ParseCatalog(r)
	if err != nil {
		return err
	}

	for _, c := range f.Categories {
		if _, err := categories.Ensure(ctx, c.Name, datatypes.JSONMap(c.Meta), c.Subcategories); err != nil {
			return fmt.Errorf("ensure category %q: %w", c.Name, err)
		}
	}
	log.Info("catalog seeded", zap.Int("categories", len(f.Categories)), zap.String("source", sourceName(path)))
	return nil
}

func sourceName(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}

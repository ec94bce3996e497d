// Package curated serves hand-authored bundles declared in YAML.
package curated

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"gopkg.in/yaml.v3"
)

var _ port.ProductSource = (*BundleSource)(nil)

//go:embed bundles.yaml
var defaultBundles []byte

type bundleFile struct {
	Bundles []domain.CuratedBundleRecord `yaml:"bundles"`
}

// A BundleSource is an in-memory product source.
type BundleSource struct {
	bundles []domain.CuratedBundleRecord
}

// NewBundleSource parses YAML bundle declarations.
func NewBundleSource(data []byte) (BundleSource, error) {
	const op = "curated.NewBundleSource"

	var f bundleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return BundleSource{}, fmt.Errorf("%s: %w", op, err)
	}
	return BundleSource{f.Bundles}, nil
}

// Load reads bundles from path, or the embedded defaults when path is empty.
func Load(path string) (BundleSource, error) {
	const op = "curated.Load"
	log := slog.With("op", op)

	data := defaultBundles
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return BundleSource{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	s, err := NewBundleSource(data)
	if err != nil {
		return BundleSource{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("curated bundles loaded", "nBundles", len(s.bundles), "path", path)
	return s, nil
}

func (BundleSource) Source() domain.Source {
	return domain.SourceCuratedBundle
}

// FetchRecords applies category, price and availability criteria
// with simple comparisons.
func (s BundleSource) FetchRecords(
	ctx context.Context, c domain.FilterCriteria,
) ([]domain.SourceRecord, error) {
	const op = "BundleSource.FetchRecords"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]domain.SourceRecord, 0, len(s.bundles))
	for _, b := range s.bundles {
		if s.match(b, c) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s BundleSource) match(
	b domain.CuratedBundleRecord, c domain.FilterCriteria,
) bool {
	if c.InStockOnly && !b.Available {
		return false
	}

	if len(c.Categories) != 0 && !matchCategory(b.Category, c.Categories) {
		return false
	}

	if c.MinPrice == nil && c.MaxPrice == nil {
		return true
	}

	// unparsable prices normalize to zero, compare the same way
	price, err := domain.MajorToMinorUnits(b.Price)
	if err != nil || price < 0 {
		price = 0
	}
	if c.MinPrice != nil && price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && price > *c.MaxPrice {
		return false
	}
	return true
}

func matchCategory(category string, wants []string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "bundle"
	}
	var active bool
	for _, w := range wants {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		active = true
		if strings.Contains(category, w) {
			return true
		}
	}
	return !active
}

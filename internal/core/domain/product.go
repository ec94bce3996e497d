package domain

import (
	"strings"
	"time"
)

// A Source is the origin of a catalog product.
type Source int

const (
	SourceDatabase Source = iota
	SourceCuratedBundle
)

func (s Source) String() string {
	switch s {
	case SourceDatabase:
		return "DATABASE"
	case SourceCuratedBundle:
		return "CURATED_BUNDLE"
	default:
		return "UNKNOWN"
	}
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Source) UnmarshalText(b []byte) error {
	switch string(b) {
	case "DATABASE":
		*s = SourceDatabase
	case "CURATED_BUNDLE":
		*s = SourceCuratedBundle
	default:
		return ErrUnknownSource
	}
	return nil
}

// A Product is the single shape every source is normalized to.
//
// Price is in minor currency units and never negative.
// ID is unique inside one source only, use [Product.Key]
// when identity across sources matters.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	Category    string     `json:"category"`
	Colors      []string   `json:"colors"`
	Tags        []string   `json:"tags"`
	Images      []string   `json:"images"`
	InStock     bool       `json:"inStock"`
	Source      Source     `json:"source"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Key returns the source-namespaced product identity.
func (p Product) Key() string {
	return p.Source.String() + ":" + p.ID
}

func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PrimaryColor returns the first listed color or empty string.
func (p Product) PrimaryColor() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[0]
}

const TagTrending = "trending"

// A Season is the seasonal collection a product belongs to.
type Season string

const (
	SeasonNone   Season = ""
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// ParseSeason is lenient: unknown values give [SeasonNone] and false.
func ParseSeason(s string) (Season, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spring":
		return SeasonSpring, true
	case "summer":
		return SeasonSummer, true
	case "fall", "autumn":
		return SeasonFall, true
	case "winter":
		return SeasonWinter, true
	default:
		return SeasonNone, false
	}
}

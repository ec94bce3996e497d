package domain

import "time"

// A SourceRecord is a raw record as fetched from one source.
//
// It is implemented by [DatabaseRecord] and [CuratedBundleRecord] only.
type SourceRecord interface {
	Source() Source
	RecordID() string
	sourceRecord()
}

// A DatabaseRecord is a products table row joined with its variant colors
// and images. Nullable columns are pointers.
type DatabaseRecord struct {
	ID          string
	Name        *string
	Description *string
	PriceCents  *int64
	Category    *string
	Colors      []string
	ImageURLs   []string
	Stock       int
	IsTrending  bool
	Season      *string
	Tags        []string
	CreatedAt   *time.Time
}

func (DatabaseRecord) Source() Source     { return SourceDatabase }
func (r DatabaseRecord) RecordID() string { return r.ID }
func (DatabaseRecord) sourceRecord()      {}

// A CuratedBundleRecord is a hand-authored themed package.
//
// Price is a decimal string in major currency units.
type CuratedBundleRecord struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Category    string   `yaml:"category"`
	Items       []string `yaml:"items"`
	Colors      []string `yaml:"colors"`
	Images      []string `yaml:"images"`
	Available   bool     `yaml:"available"`
	Featured    bool     `yaml:"featured"`
	Season      string   `yaml:"season"`
	Tags        []string `yaml:"tags"`
}

func (CuratedBundleRecord) Source() Source     { return SourceCuratedBundle }
func (r CuratedBundleRecord) RecordID() string { return r.ID }
func (CuratedBundleRecord) sourceRecord()      {}

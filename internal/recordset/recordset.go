// Package recordset turns one parsed JSON document into spreadsheet rows.
package recordset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mcncl/jsonsheet/internal/flatten"
	"github.com/mcncl/jsonsheet/internal/models"
)

// Sentinel errors matched by BuildError through errors.Is.
var (
	ErrUnsupportedRootShape = errors.New("top-level JSON value must be an object or an array")
	ErrNoRecords            = errors.New("no records found")
)

// BuildErrorKind categorizes a BuildError.
type BuildErrorKind string

const (
	UnsupportedRootShape BuildErrorKind = "unsupported_root_shape"
	NoRecords            BuildErrorKind = "no_records"
)

// BuildError reports why a document could not be turned into a RecordSet.
type BuildError struct {
	Kind BuildErrorKind
	// RootKind is the kind of the top-level value that was rejected.
	RootKind models.Kind
}

func (e *BuildError) Error() string {
	switch e.Kind {
	case UnsupportedRootShape:
		return fmt.Sprintf("%s, got %s", ErrUnsupportedRootShape, e.RootKind)
	case NoRecords:
		return ErrNoRecords.Error()
	default:
		return string(e.Kind)
	}
}

// Is lets errors.Is match the sentinel for the error's kind.
func (e *BuildError) Is(target error) bool {
	switch e.Kind {
	case UnsupportedRootShape:
		return target == ErrUnsupportedRootShape
	case NoRecords:
		return target == ErrNoRecords
	}
	return false
}

// HeaderPolicy decides the column set of a RecordSet.
type HeaderPolicy int

const (
	// FirstRecordHeader uses the keys of the first record only.
	// Columns that appear only in later records are dropped.
	FirstRecordHeader HeaderPolicy = iota
	// UnionHeader uses every key of every record in first-seen order.
	UnionHeader
)

func (p HeaderPolicy) String() string {
	switch p {
	case FirstRecordHeader:
		return "first"
	case UnionHeader:
		return "union"
	default:
		return fmt.Sprintf("HeaderPolicy(%d)", int(p))
	}
}

// ParseHeaderPolicy accepts "first" or "union" (case-insensitive).
// An empty name selects FirstRecordHeader.
func ParseHeaderPolicy(name string) (HeaderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first":
		return FirstRecordHeader, nil
	case "union":
		return UnionHeader, nil
	default:
		return 0, fmt.Errorf("unknown header policy %q (must be first or union)", name)
	}
}

// Builder builds RecordSets with a fixed header policy.
type Builder struct {
	Policy HeaderPolicy
}

// NewBuilder creates a Builder using FirstRecordHeader.
func NewBuilder() *Builder {
	return &Builder{Policy: FirstRecordHeader}
}

// Build builds a RecordSet using FirstRecordHeader.
func Build(root models.Value) (*models.RecordSet, error) {
	return NewBuilder().Build(root)
}

// Build normalizes root to a list of records, flattens each one and projects
// them onto the header order chosen by the builder's policy.
func (b *Builder) Build(root models.Value) (*models.RecordSet, error) {
	records, err := normalize(root)
	if err != nil {
		return nil, err
	}

	flat := make([]*models.FlatRecord, len(records))
	for i, rec := range records {
		flat[i] = flatten.Flatten(rec)
	}

	headers := b.headers(flat)
	return &models.RecordSet{
		Headers: headers,
		Records: flat,
		Rows:    project(flat, headers),
	}, nil
}

func normalize(root models.Value) ([]models.Value, error) {
	var records []models.Value
	switch root.Kind {
	case models.Object:
		records = []models.Value{root}
	case models.Array:
		records = root.Items
	default:
		return nil, &BuildError{Kind: UnsupportedRootShape, RootKind: root.Kind}
	}
	if len(records) == 0 {
		return nil, &BuildError{Kind: NoRecords, RootKind: root.Kind}
	}
	return records, nil
}

func (b *Builder) headers(flat []*models.FlatRecord) []string {
	if b.Policy != UnionHeader {
		return flat[0].Keys()
	}

	seen := make(map[string]struct{})
	var headers []string
	for _, rec := range flat {
		for _, k := range rec.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			headers = append(headers, k)
		}
	}
	return headers
}

func project(flat []*models.FlatRecord, headers []string) [][]models.Cell {
	rows := make([][]models.Cell, len(flat))
	for i, rec := range flat {
		row := make([]models.Cell, len(headers))
		for j, h := range headers {
			if v, ok := rec.Get(h); ok {
				row[j] = models.Cell{Value: v}
			} else {
				row[j] = models.Cell{Missing: true}
			}
		}
		rows[i] = row
	}
	return rows
}

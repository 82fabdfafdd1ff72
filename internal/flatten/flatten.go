// Package flatten maps nested JSON values onto flat, ordered key/value records.
package flatten

import (
	"strconv"

	"github.com/mcncl/jsonsheet/internal/models"
)

// Separator joins the path segments of a flat key.
const Separator = "_"

// Flatten flattens v starting from an empty path.
//
// Object keys and array indices become path segments joined by Separator.
// Scalars and nulls are recorded under their path; a bare scalar with no
// path produces an empty record. Empty objects and arrays contribute nothing.
func Flatten(v models.Value) *models.FlatRecord {
	return FlattenWithPrefix(v, "")
}

// FlattenWithPrefix flattens v with every key rooted at prefix.
func FlattenWithPrefix(v models.Value, prefix string) *models.FlatRecord {
	out := models.NewFlatRecord()
	flattenInto(out, v, prefix)
	return out
}

// flattenInto walks v depth-first, writing into out. Writing directly into
// one accumulator is equivalent to merging child records in order with
// last-write-wins.
func flattenInto(out *models.FlatRecord, v models.Value, prefix string) {
	switch v.Kind {
	case models.Object:
		for _, m := range v.Members {
			flattenInto(out, m.Value, join(prefix, m.Key))
		}
	case models.Array:
		for i, item := range v.Items {
			flattenInto(out, item, join(prefix, strconv.Itoa(i)))
		}
	case models.Null, models.Bool, models.Number, models.String:
		if prefix != "" {
			out.Set(prefix, v)
		}
	}
}

func join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + Separator + segment
}

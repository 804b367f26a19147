package pricing

import (
	"strings"
	"time"
)

// Filters is the closed set of dimensions a dealer can subscribe on.
// Every field is optional; an unset field means "match everything".
// Keeping this a struct (not a string-keyed map) makes the surcharge
// behavior exhaustively testable.
type Filters struct {
	City      string
	Region    string
	Brand     string
	Model     string
	LeadType  string
	DateRange *DateRange
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// Normalize trims values and drops the "all"/"any" placeholders the
// dealer UI sends for unselected dropdowns.
func (f Filters) Normalize() Filters {
	return Filters{
		City:      normalizeText(f.City),
		Region:    normalizeText(f.Region),
		Brand:     normalizeText(f.Brand),
		Model:     normalizeText(f.Model),
		LeadType:  normalizeText(f.LeadType),
		DateRange: f.DateRange,
	}
}

// HasAny reports whether at least one dimension is set. Filtered packs
// narrow supply, so the engine surcharges them.
func (f Filters) HasAny() bool {
	return f.City != "" || f.Region != "" || f.Brand != "" || f.Model != "" ||
		f.LeadType != "" || f.DateRange != nil
}

func normalizeText(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "", "all", "any":
		return ""
	}
	return trimmed
}

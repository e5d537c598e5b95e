package domain

import (
	"fmt"
	"strings"
)

// Kind is the decoded type of a fixed-width column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Column is a named byte range of a fixed-width line.
// Start and End are 1-based and inclusive, matching the upstream documentation.
type Column struct {
	Name  string
	Start int
	End   int
	Kind  Kind
}

// Schema describes a fixed-width file: its columns plus the number of
// non-data lines at the head and tail.
type Schema struct {
	Columns  []Column
	Preamble int
	Trailer  int
}

// Column names used by ListingSchema.
const (
	ColSite   = "site"
	ColDist   = "dist"
	ColName   = "name"
	ColStart  = "start"
	ColEnd    = "end"
	ColLat    = "lat"
	ColLon    = "lon"
	ColSource = "source"
	ColState  = "state"
	ColElev   = "elev"
	ColBarHt  = "bar_ht"
	ColWMO    = "wmo"
)

// ListingSchema returns the layout of the BOM station listing (IDCJMC0014).
// A fresh value is returned on every call.
func ListingSchema() Schema {
	return Schema{
		Columns: []Column{
			{Name: ColSite, Start: 1, End: 8, Kind: KindString},
			{Name: ColDist, Start: 9, End: 14, Kind: KindString},
			{Name: ColName, Start: 15, End: 55, Kind: KindString},
			{Name: ColStart, Start: 56, End: 63, Kind: KindInt},
			{Name: ColEnd, Start: 64, End: 71, Kind: KindInt},
			{Name: ColLat, Start: 72, End: 80, Kind: KindFloat},
			{Name: ColLon, Start: 81, End: 90, Kind: KindFloat},
			{Name: ColSource, Start: 91, End: 105, Kind: KindString},
			{Name: ColState, Start: 106, End: 109, Kind: KindString},
			{Name: ColElev, Start: 110, End: 120, Kind: KindFloat},
			{Name: ColBarHt, Start: 121, End: 129, Kind: KindFloat},
			{Name: ColWMO, Start: 130, End: 136, Kind: KindInt},
		},
		Preamble: 4,
		Trailer:  6,
	}
}

// Validate checks that the columns are well formed, ascending and
// non-overlapping. It says nothing about whether a file matches the schema.
func (s Schema) Validate() error {
	if s.Preamble < 0 || s.Trailer < 0 {
		return fmt.Errorf("schema: negative preamble/trailer (%d/%d)", s.Preamble, s.Trailer)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema: no columns")
	}
	seen := make(map[string]bool, len(s.Columns))
	prevEnd := 0
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema: column at %d has no name", c.Start)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema: duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if c.Start < 1 || c.End < c.Start {
			return fmt.Errorf("schema: column %q has invalid range %d-%d", c.Name, c.Start, c.End)
		}
		if c.Start <= prevEnd {
			return fmt.Errorf("schema: column %q starts at %d, overlapping previous column ending at %d", c.Name, c.Start, prevEnd)
		}
		prevEnd = c.End
	}
	return nil
}

// Width is the line length the schema expects.
func (s Schema) Width() int {
	if len(s.Columns) == 0 {
		return 0
	}
	return s.Columns[len(s.Columns)-1].End
}

// Extract returns the trimmed text of the column in line. Lines shorter than
// the column are read to end of line.
func (c Column) Extract(line string) string {
	begin := c.Start - 1
	if begin >= len(line) {
		return ""
	}
	end := min(c.End, len(line))
	return strings.TrimSpace(line[begin:end])
}

// isMissing reports whether a trimmed field is one of the listing's
// missing-value placeholders.
func isMissing(field string) bool {
	switch field {
	case "", "..", ".....":
		return true
	}
	return false
}

package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoStations is returned when a listing has no data lines left after the
// preamble and trailer are removed.
var ErrNoStations = errors.New("listing contains no station lines")

// FieldError describes a column whose text could not be decoded.
type FieldError struct {
	Line   int // 1-based line number in the listing
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ParseListing decodes a fixed-width station listing.
//
// In lenient mode a field that fails to decode is left nil and reported in the
// returned FieldErrors, and the line is still kept. In strict mode the first
// such field aborts parsing with a *FieldError.
func ParseListing(r io.Reader, schema Schema, strict bool) ([]Station, []FieldError, error) {
	if err := schema.Validate(); err != nil {
		return nil, nil, err
	}

	lines, err := dataLines(r, schema)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, ErrNoStations
	}

	stations := make([]Station, 0, len(lines))
	var fieldErrs []FieldError
	for _, ln := range lines {
		st, errs := decodeLine(ln, schema)
		if len(errs) > 0 {
			if strict {
				fe := errs[0]
				return nil, nil, &fe
			}
			fieldErrs = append(fieldErrs, errs...)
		}
		stations = append(stations, st)
	}
	return stations, fieldErrs, nil
}

type numberedLine struct {
	num  int
	text string
}

// dataLines drops the preamble, blank lines and the trailer.
func dataLines(r io.Reader, schema Schema) ([]numberedLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []numberedLine
	n := 0
	for scanner.Scan() {
		n++
		if n <= schema.Preamble {
			continue
		}
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, numberedLine{num: n, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}

	if len(lines) <= schema.Trailer {
		return nil, nil
	}
	return lines[:len(lines)-schema.Trailer], nil
}

func decodeLine(ln numberedLine, schema Schema) (Station, []FieldError) {
	var st Station
	var errs []FieldError
	for _, col := range schema.Columns {
		raw := col.Extract(ln.text)
		if isMissing(raw) {
			continue
		}
		if err := assign(&st, col, raw); err != nil {
			errs = append(errs, FieldError{Line: ln.num, Column: col.Name, Value: raw, Err: err})
		}
	}
	return st, errs
}

// assign decodes raw according to the column kind and stores it on st.
// Columns the Station type does not know are ignored.
func assign(st *Station, col Column, raw string) error {
	switch col.Kind {
	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		switch col.Name {
		case ColStart:
			st.Start = &v
		case ColEnd:
			st.End = &v
		case ColWMO:
			st.WMO = &v
		}
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		switch col.Name {
		case ColLat:
			st.Lat = &v
		case ColLon:
			st.Lon = &v
		case ColElev:
			st.Elev = &v
		case ColBarHt:
			st.BarHeight = &v
		}
	default:
		switch col.Name {
		case ColSite:
			st.Site = raw
		case ColDist:
			st.District = raw
		case ColName:
			st.Name = raw
		case ColSource:
			st.Source = raw
		case ColState:
			st.State = raw
		}
	}
	return nil
}

package domain

import "time"

// Station is one decoded line of the station listing.
// Pointer fields are nil where the listing holds a missing-value placeholder.
type Station struct {
	Site      string // BOM station number, zero padded, e.g. "086338"
	District  string
	Name      string
	Start     *int
	End       *int // nil while the station is still reporting
	Lat       *float64
	Lon       *float64
	Source    string // how the coordinates were determined, e.g. "GPS"
	State     string // WA, QLD, VIC, NT, TAS, ANT, NSW or SA
	Elev      *float64
	BarHeight *float64
	WMO       *int
}

// CatalogEntry is a Station with its derived feed fields.
type CatalogEntry struct {
	Station

	StateCode string // one-letter code, empty when the state is unmapped
	URL       string // candidate or probed feed URL, empty when none

	Active  bool
	EndYear int // year written to the output end column for active stations
}

// URLRow is one row of the site → feed URL table.
type URLRow struct {
	Site      string   `parquet:"site" json:"site"`
	Dist      string   `parquet:"dist" json:"dist"`
	Name      string   `parquet:"name" json:"name"`
	Start     *int32   `parquet:"start,optional" json:"start,omitempty"`
	End       int32    `parquet:"end" json:"end"`
	Lat       *float64 `parquet:"lat,optional" json:"lat,omitempty"`
	Lon       *float64 `parquet:"lon,optional" json:"lon,omitempty"`
	Source    string   `parquet:"source" json:"source"`
	State     string   `parquet:"state" json:"state"`
	Elev      *float64 `parquet:"elev,optional" json:"elev,omitempty"`
	BarHeight *float64 `parquet:"bar_ht,optional" json:"bar_ht,omitempty"`
	WMO       int32    `parquet:"wmo" json:"wmo"`
	StateCode string   `parquet:"state_code" json:"state_code"`
	URL       string   `parquet:"url" json:"url"`
}

// LocationRow is one row of the site → location metadata table.
type LocationRow struct {
	Site      string   `parquet:"site" json:"site"`
	Dist      string   `parquet:"dist" json:"dist"`
	Name      string   `parquet:"name" json:"name"`
	Start     *int32   `parquet:"start,optional" json:"start,omitempty"`
	End       int32    `parquet:"end" json:"end"`
	Lat       *float64 `parquet:"lat,optional" json:"lat,omitempty"`
	Lon       *float64 `parquet:"lon,optional" json:"lon,omitempty"`
	State     string   `parquet:"state" json:"state"`
	Elev      *float64 `parquet:"elev,optional" json:"elev,omitempty"`
	BarHeight *float64 `parquet:"bar_ht,optional" json:"bar_ht,omitempty"`
	WMO       *int32   `parquet:"wmo,optional" json:"wmo,omitempty"`
}

// Tables is the output of one catalog run.
type Tables struct {
	URLs        []URLRow
	Locations   []LocationRow
	GeneratedAt time.Time
}

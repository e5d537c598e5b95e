// Package domain models the Bureau of Meteorology (BOM) station listing and
// the two reference tables derived from it.
//
// # Data Source
//
// BOM publishes every station it has ever operated as a fixed-width text file
// (product IDCJMC0014) inside stations.zip on its anonymous FTP server:
//
//	ftp://ftp.bom.gov.au/anon2/home/ncc/metadata/sitelists/stations.zip
//
// The file opens with a 4-line preamble (product banner, blank line, column
// headings, dashed underline) and closes with a 6-line trailer of notes. Every
// other non-blank line is one station.
//
// # Column Layout
//
// Columns are addressed by 1-based inclusive byte positions; see
// ListingSchema. Missing values are written as ".." or "....." and decode to
// nil. The layout is not self-describing: if BOM widens a column the parser
// misaligns silently. ListingSchema keeps the offsets in one place so that
// drift is a one-line fix.
//
// # Feed URLs
//
// Current observations for a station are served as JSON at
//
//	{base}/ID{state}{product}/ID{state}{product}.{wmo}.json
//
// where {state} is a one-letter state code (see StateCode), {product} is
// 60801 for mainland and island stations or 60803 for Antarctic stations, and
// {wmo} is the station's WMO index number. Stations without a WMO number have
// no feed.
//
// # Activity
//
// A station is active when its End column is empty. Active stations get the
// current calendar year written to the end column of both output tables; the
// Active flag on CatalogEntry carries the real meaning.
package domain

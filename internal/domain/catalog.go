package domain

import "strings"

// FilterActive keeps stations that were still reporting when the listing was
// produced (no End year) and stamps them with the current year.
func FilterActive(entries []CatalogEntry) []CatalogEntry {
	year := clock.Now().Year()
	active := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if e.End != nil {
			continue
		}
		e.Active = true
		e.EndYear = year
		active = append(active, e)
	}
	return active
}

// TrimSitePadding strips up to two leading zeros from a station number,
// e.g. "001019" → "1019", "086338" → "86338".
func TrimSitePadding(site string) string {
	for range 2 {
		if !strings.HasPrefix(site, "0") {
			break
		}
		site = site[1:]
	}
	return site
}

// BuildTables assembles both output tables from filtered, probed entries.
// Inactive entries are skipped.
func BuildTables(entries []CatalogEntry) Tables {
	return Tables{
		URLs:        BuildURLTable(entries),
		Locations:   BuildLocationTable(entries),
		GeneratedAt: clock.Now().UTC(),
	}
}

// BuildURLTable returns one row per active entry that still has a URL.
func BuildURLTable(entries []CatalogEntry) []URLRow {
	rows := make([]URLRow, 0, len(entries))
	for _, e := range entries {
		if !e.Active || e.URL == "" || e.WMO == nil {
			continue
		}
		rows = append(rows, URLRow{
			Site:      e.Site,
			Dist:      e.District,
			Name:      e.Name,
			Start:     int32Ptr(e.Start),
			End:       int32(e.EndYear),
			Lat:       e.Lat,
			Lon:       e.Lon,
			Source:    e.Source,
			State:     e.State,
			Elev:      e.Elev,
			BarHeight: e.BarHeight,
			WMO:       int32(*e.WMO),
			StateCode: e.StateCode,
			URL:       e.URL,
		})
	}
	return rows
}

// BuildLocationTable returns one row per active entry, with padding removed
// from the site number and the feed columns dropped.
func BuildLocationTable(entries []CatalogEntry) []LocationRow {
	rows := make([]LocationRow, 0, len(entries))
	for _, e := range entries {
		if !e.Active {
			continue
		}
		rows = append(rows, LocationRow{
			Site:      TrimSitePadding(e.Site),
			Dist:      e.District,
			Name:      e.Name,
			Start:     int32Ptr(e.Start),
			End:       int32(e.EndYear),
			Lat:       e.Lat,
			Lon:       e.Lon,
			State:     e.State,
			Elev:      e.Elev,
			BarHeight: e.BarHeight,
			WMO:       int32Ptr(e.WMO),
		})
	}
	return rows
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

package domain

import (
	"fmt"
	"strings"
)

// DefaultFeedBaseURL is where BOM serves per-station observation JSON.
const DefaultFeedBaseURL = "http://www.bom.gov.au/fwo"

// Product codes for the observation feeds.
const (
	ProductStandard  = "60801"
	ProductAntarctic = "60803"
)

// StateAntarctic is the listing's state token for Antarctic stations.
const StateAntarctic = "ANT"

// StateCode maps a listing state token to the one-letter code used in BOM
// product identifiers. Tasmania and the Antarctic territory share "T".
func StateCode(state string) (string, bool) {
	switch state {
	case "WA":
		return "W", true
	case "QLD":
		return "Q", true
	case "VIC":
		return "V", true
	case "NT":
		return "D", true
	case "TAS", StateAntarctic:
		return "T", true
	case "NSW":
		return "N", true
	case "SA":
		return "S", true
	}
	return "", false
}

// ProductCode returns the observation product for a state token.
func ProductCode(state string) string {
	if state == StateAntarctic {
		return ProductAntarctic
	}
	return ProductStandard
}

// FeedURL builds the candidate observation URL for a station. It returns ""
// when the station has no WMO number or its state is unmapped.
func FeedURL(base, state string, wmo *int) string {
	if wmo == nil {
		return ""
	}
	code, ok := StateCode(state)
	if !ok {
		return ""
	}
	product := "ID" + code + ProductCode(state)
	return fmt.Sprintf("%s/%s/%s.%d.json", strings.TrimRight(base, "/"), product, product, *wmo)
}

// Derive attaches state codes and candidate feed URLs to parsed stations.
func Derive(stations []Station, base string) []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(stations))
	for _, st := range stations {
		code, _ := StateCode(st.State)
		entries = append(entries, CatalogEntry{
			Station:   st,
			StateCode: code,
			URL:       FeedURL(base, st.State, st.WMO),
		})
	}
	return entries
}

// Command validate checks a pair of catalog tables written by the stations
// command. It verifies the invariants consumers rely on: every URL row has a
// well-formed feed URL, location sites carry no zero padding, both tables
// agree on the stamped end year, and every URL row has a location row.
//
// Usage:
//
//	go run ./cmd/validate -dir inst/extdata
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/station-catalog-etl/internal/adapter/parquet"
	"github.com/couchcryptid/station-catalog-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "inst/extdata", "directory containing the catalog tables")
	flag.Parse()

	if code := run(*dir); code != 0 {
		os.Exit(code)
	}
}

func run(dir string) int {
	fmt.Println("=== Station Catalog Validation ===")
	fmt.Println()

	urls, err := parquet.ReadURLTable(filepath.Join(dir, parquet.URLTableFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load url table: %v\n", err)
		return 1
	}
	locs, err := parquet.ReadLocationTable(filepath.Join(dir, parquet.LocationTableFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load location table: %v\n", err)
		return 1
	}

	phases := validate(urls, locs)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d url, %d location\n", len(urls), len(locs))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validate(urls []domain.URLRow, locs []domain.LocationRow) []*phase {
	return []*phase{
		validateURLTable(urls),
		validateLocationTable(locs),
		validateEndYear(urls, locs),
		validateCrossTable(urls, locs),
	}
}

// validateURLTable checks that each URL matches the feed scheme for its state
// and WMO number.
func validateURLTable(urls []domain.URLRow) *phase {
	p := &phase{name: "URL table: feed URLs"}
	seen := make(map[string]bool, len(urls))
	for i, row := range urls {
		if row.URL == "" {
			p.errorf("row %d (%s): empty url", i, row.Site)
			continue
		}
		code, ok := domain.StateCode(row.State)
		if !ok {
			p.errorf("row %d (%s): unmapped state %q has a url", i, row.Site, row.State)
			continue
		}
		if row.StateCode != code {
			p.errorf("row %d (%s): state_code %q, want %q", i, row.Site, row.StateCode, code)
		}
		wmo := int(row.WMO)
		suffix := domain.FeedURL("", row.State, &wmo)
		if !strings.HasSuffix(row.URL, suffix) {
			p.errorf("row %d (%s): url %s does not end with %s", i, row.Site, row.URL, suffix)
		}
		if seen[row.Site] {
			p.errorf("row %d: duplicate site %s", i, row.Site)
		}
		seen[row.Site] = true
	}
	return p
}

func validateLocationTable(locs []domain.LocationRow) *phase {
	p := &phase{name: "Location table: sites"}
	seen := make(map[string]bool, len(locs))
	for i, row := range locs {
		if row.Site == "" {
			p.errorf("row %d: empty site", i)
			continue
		}
		if strings.HasPrefix(row.Site, "0") {
			p.errorf("row %d: site %s still has zero padding", i, row.Site)
		}
		if seen[row.Site] {
			p.errorf("row %d: duplicate site %s", i, row.Site)
		}
		seen[row.Site] = true
	}
	return p
}

// validateEndYear checks that all active stations carry the same stamped year.
func validateEndYear(urls []domain.URLRow, locs []domain.LocationRow) *phase {
	p := &phase{name: "Both tables: end year stamp"}
	var year int32
	check := func(table, site string, end int32) {
		if year == 0 {
			year = end
		}
		if end != year {
			p.errorf("%s %s: end %d, want %d", table, site, end, year)
		}
	}
	for _, row := range locs {
		check("location", row.Site, row.End)
	}
	for _, row := range urls {
		check("url", row.Site, row.End)
	}
	return p
}

func validateCrossTable(urls []domain.URLRow, locs []domain.LocationRow) *phase {
	p := &phase{name: "Cross-table: url rows have locations"}
	bySite := make(map[string]domain.LocationRow, len(locs))
	for _, row := range locs {
		bySite[row.Site] = row
	}
	for _, row := range urls {
		loc, ok := bySite[domain.TrimSitePadding(row.Site)]
		if !ok {
			p.errorf("url site %s has no location row", row.Site)
			continue
		}
		if loc.Name != row.Name {
			p.errorf("site %s: name %q vs %q", row.Site, row.Name, loc.Name)
		}
		if loc.WMO == nil || *loc.WMO != row.WMO {
			p.errorf("site %s: wmo mismatch", row.Site)
		}
	}
	return p
}

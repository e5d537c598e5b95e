package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestStateCode(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"WA", "W"},
		{"QLD", "Q"},
		{"VIC", "V"},
		{"NT", "D"},
		{"TAS", "T"},
		{"ANT", "T"},
		{"NSW", "N"},
		{"SA", "S"},
	}
	distinct := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			got, ok := StateCode(tt.state)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
		distinct[tt.want] = true
	}
	assert.Len(t, distinct, 7, "TAS and ANT share a code")
}

func TestStateCode_Unmapped(t *testing.T) {
	for _, s := range []string{"", "ISL", "ACT", "vic"} {
		code, ok := StateCode(s)
		assert.False(t, ok, s)
		assert.Empty(t, code, s)
	}
}

func TestFeedURL(t *testing.T) {
	tests := []struct {
		name  string
		state string
		wmo   *int
		want  string
	}{
		{
			name:  "mainland station",
			state: "VIC",
			wmo:   intPtr(95936),
			want:  "http://www.bom.gov.au/fwo/IDV60801/IDV60801.95936.json",
		},
		{
			name:  "antarctic station",
			state: "ANT",
			wmo:   intPtr(89564),
			want:  "http://www.bom.gov.au/fwo/IDT60803/IDT60803.89564.json",
		},
		{
			name:  "tasmania uses standard product",
			state: "TAS",
			wmo:   intPtr(94970),
			want:  "http://www.bom.gov.au/fwo/IDT60801/IDT60801.94970.json",
		},
		{
			name:  "northern territory",
			state: "NT",
			wmo:   intPtr(94120),
			want:  "http://www.bom.gov.au/fwo/IDD60801/IDD60801.94120.json",
		},
		{
			name:  "no wmo number",
			state: "VIC",
			wmo:   nil,
			want:  "",
		},
		{
			name:  "no wmo number antarctic",
			state: "ANT",
			wmo:   nil,
			want:  "",
		},
		{
			name:  "unmapped state",
			state: "ISL",
			wmo:   intPtr(94996),
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FeedURL(DefaultFeedBaseURL, tt.state, tt.wmo))
		})
	}
}

func TestFeedURL_TrailingSlashBase(t *testing.T) {
	got := FeedURL("http://example.test/fwo/", "SA", intPtr(94672))
	assert.Equal(t, "http://example.test/fwo/IDS60801/IDS60801.94672.json", got)
}

func TestDerive(t *testing.T) {
	entries := Derive(loadFixture(t), DefaultFeedBaseURL)
	assert.Len(t, entries, 8)

	byName := map[string]CatalogEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	casey := byName["CASEY"]
	assert.Equal(t, "T", casey.StateCode)
	assert.Equal(t, "http://www.bom.gov.au/fwo/IDT60803/IDT60803.89611.json", casey.URL)

	brisbane := byName["BRISBANE"]
	assert.Equal(t, "Q", brisbane.StateCode)
	assert.Empty(t, brisbane.URL)

	norfolk := byName["NORFOLK ISLAND AERO"]
	assert.Empty(t, norfolk.StateCode)
	assert.Empty(t, norfolk.URL)

	for _, e := range entries {
		assert.False(t, e.Active, "Derive does not decide activity")
	}
}

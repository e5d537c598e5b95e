package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingSchema_Valid(t *testing.T) {
	s := ListingSchema()
	assert.NoError(t, s.Validate())
	assert.Equal(t, 136, s.Width())
	assert.Equal(t, 4, s.Preamble)
	assert.Equal(t, 6, s.Trailer)
}

func TestListingSchema_ReturnsCopy(t *testing.T) {
	s := ListingSchema()
	s.Columns[0].End = 99
	assert.Equal(t, 8, ListingSchema().Columns[0].End)
}

func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		wantErr string
	}{
		{
			name:    "no columns",
			schema:  Schema{},
			wantErr: "no columns",
		},
		{
			name: "overlap",
			schema: Schema{Columns: []Column{
				{Name: "a", Start: 1, End: 5},
				{Name: "b", Start: 5, End: 8},
			}},
			wantErr: "overlapping",
		},
		{
			name: "duplicate",
			schema: Schema{Columns: []Column{
				{Name: "a", Start: 1, End: 2},
				{Name: "a", Start: 3, End: 4},
			}},
			wantErr: "duplicate",
		},
		{
			name:    "zero start",
			schema:  Schema{Columns: []Column{{Name: "a", Start: 0, End: 2}}},
			wantErr: "invalid range",
		},
		{
			name:    "negative trailer",
			schema:  Schema{Columns: []Column{{Name: "a", Start: 1, End: 2}}, Trailer: -1},
			wantErr: "negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestColumn_Extract(t *testing.T) {
	col := Column{Name: "x", Start: 3, End: 6}
	assert.Equal(t, "cdef", col.Extract("abcdefgh"))
	assert.Equal(t, "cd", col.Extract("abcd"), "short line reads to end")
	assert.Equal(t, "", col.Extract("ab"), "line ends before column")
	assert.Equal(t, "d", col.Extract("ab d  "), "surrounding spaces trimmed")
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "..", "....."} {
		assert.True(t, isMissing(s), s)
	}
	for _, s := range []string{".", "...", "0", "GPS"} {
		assert.False(t, isMissing(s), s)
	}
}

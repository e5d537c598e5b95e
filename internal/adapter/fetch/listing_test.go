package fetch

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestOpenListing_PlainText(t *testing.T) {
	p := filepath.Join(t.TempDir(), "stations.txt")
	require.NoError(t, os.WriteFile(p, []byte(listingText), 0o644))

	rc, err := OpenListing(p)
	require.NoError(t, err)
	assert.Equal(t, listingText, readAll(t, rc))
}

func TestOpenListing_ShortFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tiny")
	require.NoError(t, os.WriteFile(p, []byte("PK"), 0o644))

	rc, err := OpenListing(p)
	require.NoError(t, err)
	assert.Equal(t, "PK", readAll(t, rc))
}

func TestOpenListing_ZipPrefersTxt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "stations.zip")
	require.NoError(t, os.WriteFile(p, zipBytes(t, map[string]string{
		"README":       "readme",
		"docs/":        "",
		"stations.txt": listingText,
	}), 0o644))

	rc, err := OpenListing(p)
	require.NoError(t, err)
	assert.Equal(t, listingText, readAll(t, rc))
}

func TestOpenListing_ZipWithoutTxt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "stations.zip")
	require.NoError(t, os.WriteFile(p, zipBytes(t, map[string]string{
		"docs/":  "",
		"README": "readme",
	}), 0o644))

	rc, err := OpenListing(p)
	require.NoError(t, err)
	assert.Equal(t, "readme", readAll(t, rc))
}

func TestOpenListing_EmptyZip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "stations.zip")
	require.NoError(t, os.WriteFile(p, zipBytes(t, map[string]string{"docs/": ""}), 0o644))

	_, err := OpenListing(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files")
}

func TestOpenListing_Missing(t *testing.T) {
	_, err := OpenListing(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

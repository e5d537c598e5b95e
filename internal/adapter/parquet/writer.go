package parquet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	parquetgo "github.com/parquet-go/parquet-go"

	"github.com/couchcryptid/station-catalog-etl/internal/domain"
)

// Output file names, relative to the output directory.
const (
	URLTableFile      = "JSONurl_site_list.parquet"
	LocationTableFile = "stations_site_list.parquet"
)

// Writer persists both catalog tables as zstd-compressed parquet files.
// It implements pipeline.Sink.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a table writer rooted at dir. The directory is created on
// first write.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

func (w *Writer) Name() string { return "parquet" }

// Write replaces both table files. Both tables are staged as .tmp files and
// renamed only once both have been written, so a failed write leaves the
// previous pair in place.
func (w *Writer) Write(ctx context.Context, tables domain.Tables) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	urlPath := filepath.Join(w.dir, URLTableFile)
	locPath := filepath.Join(w.dir, LocationTableFile)

	urlTmp, err := stageTable(urlPath, tables.URLs)
	if err != nil {
		return fmt.Errorf("write url table: %w", err)
	}
	locTmp, err := stageTable(locPath, tables.Locations)
	if err != nil {
		os.Remove(urlTmp)
		return fmt.Errorf("write location table: %w", err)
	}

	if err := os.Rename(urlTmp, urlPath); err != nil {
		os.Remove(urlTmp)
		os.Remove(locTmp)
		return fmt.Errorf("replace url table: %w", err)
	}
	if err := os.Rename(locTmp, locPath); err != nil {
		os.Remove(locTmp)
		return fmt.Errorf("replace location table: %w", err)
	}

	w.logger.Info("table written", "path", urlPath, "rows", len(tables.URLs))
	w.logger.Info("table written", "path", locPath, "rows", len(tables.Locations))
	return nil
}

// stageTable writes rows to a .tmp file next to path and returns its name.
func stageTable[T any](path string, rows []T) (string, error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}

	pw := parquetgo.NewGenericWriter[T](f, parquetgo.Compression(&parquetgo.Zstd))
	if _, err := pw.Write(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := pw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}

// ReadURLTable loads a URL table written by Writer.
func ReadURLTable(path string) ([]domain.URLRow, error) {
	return parquetgo.ReadFile[domain.URLRow](path)
}

// ReadLocationTable loads a location table written by Writer.
func ReadLocationTable(path string) ([]domain.LocationRow, error) {
	return parquetgo.ReadFile[domain.LocationRow](path)
}

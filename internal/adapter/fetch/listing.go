package fetch

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

var zipMagic = []byte("PK\x03\x04")

// OpenListing opens a downloaded listing. Zip archives yield their first .txt
// entry (or first regular file if none is .txt); anything else is read as text.
func OpenListing(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open listing: %w", err)
	}

	head := make([]byte, len(zipMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, fmt.Errorf("read listing: %w", err)
	}
	if n < len(zipMagic) || !bytes.Equal(head, zipMagic) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("rewind listing: %w", err)
		}
		return f, nil
	}
	_ = f.Close()

	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("open listing archive: %w", err)
	}
	entry := pickEntry(zr.File)
	if entry == nil {
		_ = zr.Close()
		return nil, errors.New("listing archive has no files")
	}
	rc, err := entry.Open()
	if err != nil {
		_ = zr.Close()
		return nil, fmt.Errorf("open %s in archive: %w", entry.Name, err)
	}
	return &archiveEntry{ReadCloser: rc, archive: zr}, nil
}

func pickEntry(files []*zip.File) *zip.File {
	var first *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(path.Ext(f.Name), ".txt") {
			return f
		}
		if first == nil {
			first = f
		}
	}
	return first
}

type archiveEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (a *archiveEntry) Close() error {
	err := a.ReadCloser.Close()
	if cerr := a.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

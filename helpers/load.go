package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// UPLOAD LOADER — Size-checked dispatch on file extension
// ============================================================================

// DefaultMaxUploadBytes is the largest accepted upload (1 GB).
const DefaultMaxUploadBytes int64 = 1_000_000_000

var (
	// ErrTooLarge is returned when an upload exceeds the byte limit.
	ErrTooLarge = errors.New("upload exceeds size limit")

	// ErrUnsupportedFormat is returned for extensions other than .csv and .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Upload is a parsed dataset along with where it came from.
type Upload struct {
	ID    uuid.UUID    `json:"id"`
	Name  string       `json:"name"`
	Size  int64        `json:"size"`
	Table *table.Table `json:"-"`
}

// Load reads at most maxBytes from r and parses it according to name's
// extension. maxBytes <= 0 means DefaultMaxUploadBytes.
func Load(name string, r io.Reader, maxBytes int64) (*Upload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, ext)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %.1f MB", ErrTooLarge, name, float64(maxBytes)/(1024*1024))
	}

	var t *table.Table
	switch ext {
	case ".csv":
		t, err = ParseCSV(bytes.NewReader(data))
	case ".xlsx":
		t, err = ParseXLSX(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return &Upload{
		ID:    uuid.New(),
		Name:  name,
		Size:  int64(len(data)),
		Table: t,
	}, nil
}

// LoadFile loads a dataset from disk, rejecting oversize files before reading them.
func LoadFile(path string, maxBytes int64) (*Upload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %s is %.1f MB (limit %.1f MB)", ErrTooLarge, path,
			float64(info.Size())/(1024*1024), float64(maxBytes)/(1024*1024))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Load(filepath.Base(path), f, maxBytes)
}

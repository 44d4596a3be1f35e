package mapstate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

const fileExt = ".json"

// FileStore reads native map records from one directory and writes
// generated records to another. The native directory is never written,
// so every process start sees the maps' own content.
type FileStore struct {
	nativeDir string
	outputDir string
}

// NewFileStore creates a FileStore. outputDir is created on first save.
func NewFileStore(nativeDir, outputDir string) *FileStore {
	return &FileStore{nativeDir: nativeDir, outputDir: outputDir}
}

// ListMaps returns the ids of every *.json record in the native directory.
func (s *FileStore) ListMaps(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.nativeDir)
	if err != nil {
		return nil, fmt.Errorf("listing maps in %s: %w", s.nativeDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	slices.Sort(names)
	return names, nil
}

// LoadMap reads the native record of a map.
func (s *FileStore) LoadMap(ctx context.Context, name string) (*Record, error) {
	path := filepath.Join(s.nativeDir, name+fileExt)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMapNotFound, name)
		}
		return nil, fmt.Errorf("opening map %s: %w", path, err)
	}
	defer f.Close()

	var base Base
	if err := json.UnmarshalRead(f, &base); err != nil {
		return nil, fmt.Errorf("decoding map %s: %w", path, err)
	}
	if base.Id == "" {
		base.Id = name
	}

	return NewRecord(base), nil
}

// SaveMap writes the current state of rec to the output directory.
func (s *FileStore) SaveMap(ctx context.Context, name string, rec *Record) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", s.outputDir, err)
	}

	data, err := EncodeBase(rec.Base)
	if err != nil {
		return fmt.Errorf("encoding map %s: %w", name, err)
	}

	path := filepath.Join(s.outputDir, name+fileExt)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing map %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing map %s: %w", path, err)
	}

	slog.Debug("map record saved", "map", name, "path", path,
		"waves", len(rec.Waves), "bosses", len(rec.BossLocationSpawn))
	return nil
}

// EncodeBase renders a record in the host's JSON layout. Nil lists encode
// as empty arrays, so equal records always produce equal bytes.
func EncodeBase(b Base) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.MarshalWrite(&buf, b,
		json.FormatNilSliceAsNull(false),
		jsontext.WithIndent("  "),
	); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

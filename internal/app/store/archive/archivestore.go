// internal/app/store/archive/archivestore.go
package archivestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalemusser/forecastviz/internal/domain/models"
	"go.uber.org/zap"
)

// Metadata files expected at the archive root. Units live in
// locations.json, the name the archive format uses for them.
const (
	targetVariablesFile = "target_variables.json"
	locationsFile       = "locations.json"
	modelsFile          = "models.json"
	availableAsOfsFile  = "available_as_ofs.json"
)

// Subdirectories holding the per-selection series files, named
// <target>_<unit>_<refdate>.json.
const (
	truthDir    = "truth"
	forecastDir = "forecasts"
)

// Store reads a forecast archive: a directory of static JSON files
// produced by an archive export. The archive is immutable while the
// server runs; the store is safe for concurrent use.
type Store struct {
	root   string
	logger *zap.Logger
}

// New opens the archive rooted at dir.
func New(dir string, logger *zap.Logger) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open archive %s: not a directory", dir)
	}
	return &Store{root: dir, logger: logger}, nil
}

// Ping verifies the metadata files are present and readable. Used by
// startup validation and the health endpoints.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, name := range []string{targetVariablesFile, locationsFile, modelsFile, availableAsOfsFile} {
		if _, err := os.Stat(filepath.Join(s.root, name)); err != nil {
			return fmt.Errorf("archive missing %s: %w", name, err)
		}
	}
	return nil
}

// TargetVariables returns the archive's forecastable quantities.
func (s *Store) TargetVariables(ctx context.Context) ([]models.TargetVariable, error) {
	var out []models.TargetVariable
	if err := s.readMeta(ctx, targetVariablesFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Units returns the archive's units.
func (s *Store) Units(ctx context.Context) ([]models.Unit, error) {
	var out []models.Unit
	if err := s.readMeta(ctx, locationsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Models returns the model abbreviations present in the archive.
func (s *Store) Models(ctx context.Context) ([]string, error) {
	var out []string
	if err := s.readMeta(ctx, modelsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableAsOfs returns the target-variable to reference-date lists
// mapping. Each list is chronological ascending in the archive.
func (s *Store) AvailableAsOfs(ctx context.Context) (map[string][]string, error) {
	out := map[string][]string{}
	if err := s.readMeta(ctx, availableAsOfsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) readMeta(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// FetchData returns the truth or forecast payload for one selection.
// A selection the archive has no file for answers an empty object,
// the archive's convention for "no data". Parameters that do not look
// like plain file-name components are rejected before touching the
// filesystem.
func (s *Store) FetchData(ctx context.Context, isForecast bool, targetKey, unitAbbrev, referenceDate string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, part := range []string{targetKey, unitAbbrev, referenceDate} {
		if !validComponent(part) {
			return nil, fmt.Errorf("invalid data parameter %q", part)
		}
	}

	dir := truthDir
	if isForecast {
		dir = forecastDir
	}
	name := fmt.Sprintf("%s_%s_%s.json", targetKey, unitAbbrev, referenceDate)
	data, err := os.ReadFile(filepath.Join(s.root, dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no archive file for selection",
			zap.String("dir", dir),
			zap.String("file", name))
		return json.RawMessage("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", dir, name, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("archive file %s/%s is not valid JSON", dir, name)
	}
	return data, nil
}

// validComponent accepts non-empty values free of path separators and
// traversal sequences.
func validComponent(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}

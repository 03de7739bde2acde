package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
)

// DefaultFilePattern names a saved season page inside a data directory.
const DefaultFilePattern = "NBA_%d_per_game.html"

// FileSource reads saved season pages from a directory.
type FileSource struct {
	Dir     string
	Pattern string
}

func (FileSource) Name() string { return "file" }

// Path returns the file location for season.
func (s FileSource) Path(season int) string {
	pattern := s.Pattern
	if pattern == "" {
		pattern = DefaultFilePattern
	}
	return filepath.Join(s.Dir, fmt.Sprintf(pattern, season))
}

func (s FileSource) Fetch(ctx context.Context, season int) (*analysis.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, &UnavailableError{Source: s.Name(), Season: season, Err: err}
	}
	path := s.Path(season)
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnavailableError{Source: s.Name(), Season: season, Location: path, Err: err}
	}
	defer f.Close()
	raw, err := ExtractTable(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source, pe.Season = s.Name(), season
			return nil, pe
		}
		return nil, err
	}
	return raw, nil
}

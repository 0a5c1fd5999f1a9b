package fixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Source produces the raw record sets the data store is built from.
type Source interface {
	Load(ctx context.Context) (*Set, error)
}

// DirSource reads the three JSON fixture files from a directory.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (s *DirSource) Load(ctx context.Context) (*Set, error) {
	set := &Set{}
	if err := readJSON(filepath.Join(s.Dir, RoomingListsFile), &set.RoomingLists); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(s.Dir, BookingsFile), &set.Bookings); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(s.Dir, JoinFile), &set.Join); err != nil {
		return nil, err
	}

	log.Debug().
		Str("dir", s.Dir).
		Int("rooming_lists", len(set.RoomingLists)).
		Int("bookings", len(set.Bookings)).
		Int("join_rows", len(set.Join)).
		Msg("fixtures loaded from directory")
	return set, nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode fixture %s: %w", filepath.Base(path), err)
	}
	return nil
}

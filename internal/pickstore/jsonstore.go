package pickstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/pick"
)

// JSONStore keeps the whole pick collection in a single JSON file.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the pick collection. A missing or unreadable file loads as an
// empty collection; records that fail validation are kept but logged so the
// source data can be fixed by hand.
func (s *JSONStore) Load() ([]pick.Pick, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", s.path).Msg("picks file not found, starting with an empty collection")
			return []pick.Pick{}, nil
		}
		log.Error().Err(err).Str("path", s.path).Msg("failed to read picks file, treating as empty")
		return []pick.Pick{}, nil
	}

	var picks []pick.Pick
	if err := sonic.Unmarshal(data, &picks); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("picks file is corrupt, treating as empty")
		return []pick.Pick{}, nil
	}

	for i := range picks {
		if err := picks[i].Validate(); err != nil {
			log.Warn().Err(err).Int("index", i).Str("game", picks[i].EventDetails.Game).Msg("pick failed validation")
		}
	}
	return picks, nil
}

// Save writes the whole collection. The file is written to a temp path and
// renamed so a concurrent reader never observes a partial write.
func (s *JSONStore) Save(picks []pick.Pick) error {
	data, err := sonic.MarshalIndent(picks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal picks: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".picks-*.json")
	if err != nil {
		return fmt.Errorf("create temp picks file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write picks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp picks file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace picks file: %w", err)
	}
	return nil
}

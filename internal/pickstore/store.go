// Package pickstore persists the pick collection. The collection is always
// read and written wholesale: one Load at the start of a run, one Save at the
// end. Both backends tolerate an absent or corrupt store by loading an empty
// collection, so a settlement run never fails on storage.
package pickstore

import (
	"fmt"

	"github.com/tensorplex-labs/picksettle/internal/config"
	"github.com/tensorplex-labs/picksettle/internal/pick"
)

// Store loads and persists the full pick collection.
type Store interface {
	Load() ([]pick.Pick, error)
	Save(picks []pick.Pick) error
}

// New selects a backend from configuration.
func New(cfg *config.StoreEnvConfig) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store configuration cannot be nil")
	}
	switch cfg.StoreBackend {
	case "json":
		return NewJSONStore(cfg.PicksFile), nil
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

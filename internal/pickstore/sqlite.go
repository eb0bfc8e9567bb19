package pickstore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/pick"
)

// SQLiteStore keeps the pick collection in a local SQLite database. Load and
// Save still operate on the whole collection; Save replaces every row inside
// one transaction so readers see either the old or the new collection.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS picks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sport TEXT NOT NULL,
		bet_type TEXT NOT NULL,
		prediction TEXT NOT NULL,
		game TEXT NOT NULL,
		event_date TEXT NOT NULL,
		stake REAL NOT NULL,
		odds REAL,
		status TEXT NOT NULL DEFAULT 'pending',
		profit_loss REAL NOT NULL DEFAULT 0
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create picks table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads all picks in insertion order. Query failures load as an empty
// collection, matching the JSON backend's tolerance of a broken store.
func (s *SQLiteStore) Load() ([]pick.Pick, error) {
	rows, err := s.db.Query(`
		SELECT sport, bet_type, prediction, game, event_date, stake, odds, status, profit_loss
		FROM picks ORDER BY id
	`)
	if err != nil {
		log.Error().Err(err).Msg("failed to query picks, treating store as empty")
		return []pick.Pick{}, nil
	}
	defer rows.Close()

	picks := []pick.Pick{}
	for rows.Next() {
		var p pick.Pick
		var odds sql.NullFloat64
		if err := rows.Scan(&p.Sport, &p.BetType, &p.Prediction, &p.EventDetails.Game,
			&p.EventDetails.Date, &p.Stake, &odds, &p.Status, &p.ProfitLoss); err != nil {
			log.Error().Err(err).Msg("failed to scan pick row, treating store as empty")
			return []pick.Pick{}, nil
		}
		if odds.Valid {
			v := odds.Float64
			p.Odds = &v
		}
		if err := p.Validate(); err != nil {
			log.Warn().Err(err).Str("game", p.EventDetails.Game).Msg("pick failed validation")
		}
		picks = append(picks, p)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("failed to iterate picks, treating store as empty")
		return []pick.Pick{}, nil
	}
	return picks, nil
}

// Save replaces the stored collection with picks, preserving input order.
func (s *SQLiteStore) Save(picks []pick.Pick) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM picks`); err != nil {
		return fmt.Errorf("clear picks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO picks (sport, bet_type, prediction, game, event_date, stake, odds, status, profit_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range picks {
		p := &picks[i]
		var odds sql.NullFloat64
		if p.Odds != nil {
			odds = sql.NullFloat64{Float64: *p.Odds, Valid: true}
		}
		if _, err := stmt.Exec(p.Sport, p.BetType, p.Prediction, p.EventDetails.Game,
			p.EventDetails.Date, p.Stake, odds, p.Status, p.ProfitLoss); err != nil {
			return fmt.Errorf("insert pick %q: %w", p.EventDetails.Game, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

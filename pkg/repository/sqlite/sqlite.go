package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/interfaces"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"

	_ "modernc.org/sqlite"
)

// SQLite stores preferences in a single table of the database file at path
type SQLite struct {
	db *sql.DB
}

var _ interfaces.PreferenceRepository = &SQLite{}

func New(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// modernc sqlite serializes writers; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to migrate sqlite database", goerr.V("path", path))
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS preferences (
		user_id TEXT NOT NULL,
		pref_key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, pref_key)
	);`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SQLite) Get(ctx context.Context, userID types.UserID, key string) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE user_id = ? AND pref_key = ?`,
		userID.String(), key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []string{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, goerr.Wrap(err, "failed to decode preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func (s *SQLite) Put(ctx context.Context, userID types.UserID, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return goerr.Wrap(err, "failed to encode preference")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, pref_key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, pref_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID.String(), key, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to put preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

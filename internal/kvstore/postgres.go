package kvstore

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the key space in a single kv table (key text primary
// key, value jsonb). It creates the table on open so no separate migration
// step is needed.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore connects to the database at dsn, verifies the connection
// and ensures the kv table exists.
func NewPostgresStore(dsn string, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	query := `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value JSONB NOT NULL
		)
	`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

func (s *PostgresStore) Get(key string) json.RawMessage {
	var raw []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Error("Failed to read key", "key", key, "error", err)
		}
		return nil
	}
	return raw
}

func (s *PostgresStore) Set(key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Failed to serialize value", "key", key, "error", err)
		return false
	}

	query := `
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.Exec(query, key, data); err != nil {
		s.logger.Error("Failed to write key", "key", key, "error", err)
		return false
	}
	return true
}

func (s *PostgresStore) Remove(key string) bool {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = $1`, key); err != nil {
		s.logger.Error("Failed to delete key", "key", key, "error", err)
		return false
	}
	return true
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

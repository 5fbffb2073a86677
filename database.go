package main

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// MatchRow represents a finished match
type MatchRow struct {
	ID        string           `json:"id"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   time.Time        `json:"ended_at"`
	Ticks     int64            `json:"ticks"`
	Reason    string           `json:"reason"`
	Players   []MatchPlayerRow `json:"players"`
}

// MatchPlayerRow represents a player's result in a match
type MatchPlayerRow struct {
	MatchID  string `json:"-"`
	PlayerID int    `json:"player_id"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		ticks INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS match_players (
		match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		player_id INTEGER NOT NULL,
		kills INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (match_id, player_id)
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		match_id TEXT,
		player_id INTEGER,
		data TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_type ON analytics_events(event_type, created_at);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordMatch stores a finished match and its player results in one transaction
func (db *DB) RecordMatch(id string, m MatchSummary) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO matches (id, started_at, ended_at, ticks, reason) VALUES (?, ?, ?, ?, ?)",
		id, m.StartedAt.UTC().Format(timeLayout), m.EndedAt.UTC().Format(timeLayout), m.Ticks, m.Reason,
	); err != nil {
		return err
	}
	for _, p := range m.Players {
		if _, err := tx.Exec(
			"INSERT INTO match_players (match_id, player_id, kills, deaths) VALUES (?, ?, ?, ?)",
			id, p.PlayerID, p.Kills, p.Deaths,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentMatches returns the latest finished matches, newest first
func (db *DB) RecentMatches(limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(
		"SELECT id, started_at, ended_at, ticks, reason FROM matches ORDER BY ended_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var m MatchRow
		var started, ended string
		if err := rows.Scan(&m.ID, &started, &ended, &m.Ticks, &m.Reason); err != nil {
			return nil, err
		}
		m.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		m.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		players, err := db.matchPlayers(result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Players = players
	}
	return result, nil
}

func (db *DB) matchPlayers(matchID string) ([]MatchPlayerRow, error) {
	rows, err := db.conn.Query(
		"SELECT match_id, player_id, kills, deaths FROM match_players WHERE match_id = ? ORDER BY player_id",
		matchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchPlayerRow
	for rows.Next() {
		var p MatchPlayerRow
		if err := rows.Scan(&p.MatchID, &p.PlayerID, &p.Kills, &p.Deaths); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetSetting returns a stored setting, or "" if unset
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

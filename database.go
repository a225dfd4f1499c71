package main

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding the match event log
type DB struct {
	conn *sql.DB
}

// LeaderboardRow is one line of the kill leaderboard
type LeaderboardRow struct {
	Name   string `json:"name"`
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer; sqlite serialises anyway
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS match_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		player_id INTEGER NOT NULL DEFAULT 0,
		player_name TEXT NOT NULL DEFAULT '',
		other_name TEXT NOT NULL DEFAULT '',
		weapon TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_match_events_type_name ON match_events(event_type, player_name);
	CREATE INDEX IF NOT EXISTS idx_match_events_run ON match_events(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// KillLeaderboard returns the players with the most kills across every run
func (db *DB) KillLeaderboard(limit int) ([]LeaderboardRow, error) {
	rows, err := db.conn.Query(`
		SELECT player_name,
			SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END) AS kills,
			SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END) AS deaths
		FROM match_events
		WHERE event_type IN (?, ?) AND player_name != ''
		GROUP BY player_name
		ORDER BY kills DESC, deaths ASC, player_name ASC
		LIMIT ?
	`, EvtKill, EvtDeath, EvtKill, EvtDeath, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []LeaderboardRow{}
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Name, &r.Kills, &r.Deaths); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// EventCounts returns how many events of each type a run produced
func (db *DB) EventCounts(runID string) (map[string]int, error) {
	rows, err := db.conn.Query(`
		SELECT event_type, COUNT(*) FROM match_events
		WHERE run_id = ?
		GROUP BY event_type
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			return nil, err
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SessionRecord is one finished or in-progress session row.
type SessionRecord struct {
	ID              string          `json:"id"`
	StartedAt       time.Time       `json:"started_at"`
	EndedAt         *time.Time      `json:"ended_at,omitempty"`
	Status          string          `json:"status"`
	DurationSeconds float64         `json:"duration_seconds"`
	ElapsedSeconds  float64         `json:"elapsed_seconds"`
	Finale          string          `json:"finale"`
	TotalBeats      int             `json:"total_beats"`
	Edges           int             `json:"edges"`
	Ruins           int             `json:"ruins"`
	Orgasms         int             `json:"orgasms"`
	GameConfig      json.RawMessage `json:"game_config"`
}

// CreateSession inserts a session row at start time.
func (db *DB) CreateSession(rec *SessionRecord) error {
	if rec.GameConfig == nil {
		rec.GameConfig = json.RawMessage("{}")
	}
	_, err := db.Exec(
		`INSERT INTO sessions
			(id, started_at, status, duration_seconds, elapsed_seconds, finale,
			 total_beats, edges, ruins, orgasms, game_config)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt, rec.Status, rec.DurationSeconds, rec.ElapsedSeconds,
		rec.Finale, rec.TotalBeats, rec.Edges, rec.Ruins, rec.Orgasms,
		string(rec.GameConfig),
	)
	return err
}

// FinishSession writes the final counters when a session ends.
func (db *DB) FinishSession(rec *SessionRecord) error {
	now := time.Now()
	result, err := db.Exec(
		`UPDATE sessions SET
			ended_at = ?, status = ?, elapsed_seconds = ?, finale = ?,
			total_beats = ?, edges = ?, ruins = ?, orgasms = ?
		 WHERE id = ?`,
		now, rec.Status, rec.ElapsedSeconds, rec.Finale,
		rec.TotalBeats, rec.Edges, rec.Ruins, rec.Orgasms, rec.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSession fetches one session row.
func (db *DB) GetSession(id string) (*SessionRecord, error) {
	var rec SessionRecord
	var endedAt sql.NullTime
	var gameConfig string

	err := db.QueryRow(
		`SELECT id, started_at, ended_at, status, duration_seconds, elapsed_seconds,
		        finale, total_beats, edges, ruins, orgasms, game_config
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.StartedAt, &endedAt, &rec.Status, &rec.DurationSeconds,
		&rec.ElapsedSeconds, &rec.Finale, &rec.TotalBeats, &rec.Edges,
		&rec.Ruins, &rec.Orgasms, &gameConfig)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		rec.EndedAt = &endedAt.Time
	}
	rec.GameConfig = json.RawMessage(gameConfig)
	return &rec, nil
}

// DeleteSession removes a session and its task history.
func (db *DB) DeleteSession(id string) error {
	result, err := db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSessions returns sessions newest first.
func (db *DB) ListSessions(limit, offset int) ([]*SessionRecord, error) {
	query := `SELECT id, started_at, ended_at, status, duration_seconds, elapsed_seconds,
	                 finale, total_beats, edges, ruins, orgasms, game_config
	          FROM sessions ORDER BY started_at DESC`
	args := []any{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if offset > 0 {
		query += " OFFSET ?"
		args = append(args, offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var endedAt sql.NullTime
		var gameConfig string

		if err := rows.Scan(&rec.ID, &rec.StartedAt, &endedAt, &rec.Status,
			&rec.DurationSeconds, &rec.ElapsedSeconds, &rec.Finale,
			&rec.TotalBeats, &rec.Edges, &rec.Ruins, &rec.Orgasms,
			&gameConfig); err != nil {
			return nil, err
		}

		if endedAt.Valid {
			rec.EndedAt = &endedAt.Time
		}
		rec.GameConfig = json.RawMessage(gameConfig)
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// Stats aggregates lifetime totals across all sessions.
type Stats struct {
	Sessions      int     `json:"sessions"`
	TotalSeconds  float64 `json:"total_seconds"`
	TotalBeats    int     `json:"total_beats"`
	TotalEdges    int     `json:"total_edges"`
	TotalRuins    int     `json:"total_ruins"`
	TotalOrgasms  int     `json:"total_orgasms"`
	LongestSecond float64 `json:"longest_seconds"`
}

// GetStats computes the lifetime aggregate.
func (db *DB) GetStats() (*Stats, error) {
	var s Stats
	err := db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(elapsed_seconds), 0),
		        COALESCE(SUM(total_beats), 0),
		        COALESCE(SUM(edges), 0),
		        COALESCE(SUM(ruins), 0),
		        COALESCE(SUM(orgasms), 0),
		        COALESCE(MAX(elapsed_seconds), 0)
		 FROM sessions`,
	).Scan(&s.Sessions, &s.TotalSeconds, &s.TotalBeats, &s.TotalEdges,
		&s.TotalRuins, &s.TotalOrgasms, &s.LongestSecond)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

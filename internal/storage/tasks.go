package storage

import (
	"database/sql"
	"errors"
	"time"
)

// TaskRecord is one issued task within a session.
type TaskRecord struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"session_id"`
	TaskID     string     `json:"task_id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	Outcome    string     `json:"outcome"`
	IssuedAt   time.Time  `json:"issued_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// CreateTask inserts a task row when the scheduler issues it.
func (db *DB) CreateTask(rec *TaskRecord) error {
	_, err := db.Exec(
		`INSERT INTO task_history (id, session_id, task_id, title, category, outcome, issued_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.TaskID, rec.Title, rec.Category, rec.Outcome, rec.IssuedAt,
	)
	return err
}

// ResolveTask records the outcome of an issued task.
func (db *DB) ResolveTask(id, outcome string) error {
	now := time.Now()
	result, err := db.Exec(
		"UPDATE task_history SET outcome = ?, resolved_at = ? WHERE id = ?",
		outcome, now, id,
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

// ListTasks returns a session's task history oldest first.
func (db *DB) ListTasks(sessionID string) ([]*TaskRecord, error) {
	rows, err := db.Query(
		`SELECT id, session_id, task_id, title, category, outcome, issued_at, resolved_at
		 FROM task_history WHERE session_id = ? ORDER BY issued_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*TaskRecord
	for rows.Next() {
		var rec TaskRecord
		var resolvedAt sql.NullTime

		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.TaskID, &rec.Title,
			&rec.Category, &rec.Outcome, &rec.IssuedAt, &resolvedAt); err != nil {
			return nil, err
		}

		if resolvedAt.Valid {
			rec.ResolvedAt = &resolvedAt.Time
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// GetTask fetches one task row.
func (db *DB) GetTask(id string) (*TaskRecord, error) {
	var rec TaskRecord
	var resolvedAt sql.NullTime

	err := db.QueryRow(
		`SELECT id, session_id, task_id, title, category, outcome, issued_at, resolved_at
		 FROM task_history WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.SessionID, &rec.TaskID, &rec.Title, &rec.Category,
		&rec.Outcome, &rec.IssuedAt, &resolvedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if resolvedAt.Valid {
		rec.ResolvedAt = &resolvedAt.Time
	}
	return &rec, nil
}

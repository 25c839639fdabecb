package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is the record of one pipeline run.
type Session struct {
	ID        string
	Source    string
	Mode      string
	Width     int
	Height    int
	Frames    int64
	Error     string
	StartedAt time.Time
	EndedAt   *time.Time
}

// SessionRepository records pipeline runs.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start inserts a new running session.
func (r *SessionRepository) Start(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, source, mode, width, height, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Source, sess.Mode, sess.Width, sess.Height, sess.StartedAt,
	)
	return err
}

// Finish records the frame count and the terminal error, if any.
func (r *SessionRepository) Finish(id string, frames int64, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}

	result, err := r.db.Exec(
		`UPDATE sessions SET frames = ?, error = ?, ended_at = ? WHERE id = ?`,
		frames, msg, time.Now(), id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, source, mode, width, height, frames, error, started_at, ended_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Source, &sess.Mode, &sess.Width, &sess.Height,
		&sess.Frames, &sess.Error, &sess.StartedAt, &ended)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	return sess, nil
}

// Recent returns up to limit sessions, newest first.
func (r *SessionRepository) Recent(limit int) ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, source, mode, width, height, frames, error, started_at, ended_at
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var ended sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.Source, &sess.Mode, &sess.Width, &sess.Height,
			&sess.Frames, &sess.Error, &sess.StartedAt, &ended); err != nil {
			return nil, err
		}
		if ended.Valid {
			sess.EndedAt = &ended.Time
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

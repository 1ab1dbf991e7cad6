// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tuiview/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const currentSessionKey = "current_session_id"

// Store wraps SQLite access for interview sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps snapshot writes serialized.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			current_question_index INTEGER NOT NULL,
			status TEXT NOT NULL,
			score INTEGER,
			summary TEXT,
			started_at TEXT,
			completed_at TEXT,
			time_remaining INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS session_questions (
			session_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			question_id TEXT NOT NULL,
			text TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			time_limit INTEGER NOT NULL,
			category TEXT NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS session_answers (
			session_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			question_id TEXT NOT NULL,
			text TEXT NOT NULL,
			time_spent INTEGER NOT NULL,
			is_timed_out INTEGER NOT NULL,
			answered_at TEXT NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_seq ON sessions(seq);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the snapshot in one transaction. Questions and answers are
// append-only, so rows that already exist are left untouched.
func (s *Store) Save(ctx context.Context, snap model.Snapshot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		w, err := prepareWriter(ctx, tx)
		if err != nil {
			return err
		}
		defer w.close()
		for i, sess := range snap.Sessions {
			if err := w.write(ctx, i, sess); err != nil {
				return err
			}
		}
		return writeCurrent(ctx, tx, snap.CurrentSessionID)
	})
}

// SaveSession writes one session at position seq plus the active pointer,
// leaving every other stored session alone.
func (s *Store) SaveSession(ctx context.Context, seq int, sess model.Session, currentID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		w, err := prepareWriter(ctx, tx)
		if err != nil {
			return err
		}
		defer w.close()
		if err := w.write(ctx, seq, sess); err != nil {
			return err
		}
		return writeCurrent(ctx, tx, currentID)
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type writer struct {
	session  *sql.Stmt
	question *sql.Stmt
	answer   *sql.Stmt
}

func prepareWriter(ctx context.Context, tx *sql.Tx) (*writer, error) {
	w := &writer{}
	var err error
	w.session, err = tx.PrepareContext(ctx,
		`INSERT INTO sessions (id, seq, name, email, phone, current_question_index, status, score, summary, started_at, completed_at, time_remaining)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			seq = excluded.seq,
			current_question_index = excluded.current_question_index,
			status = excluded.status,
			score = excluded.score,
			summary = excluded.summary,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			time_remaining = excluded.time_remaining`)
	if err != nil {
		return nil, err
	}
	w.question, err = tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO session_questions (session_id, position, question_id, text, difficulty, time_limit, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		w.close()
		return nil, err
	}
	w.answer, err = tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO session_answers (session_id, position, question_id, text, time_spent, is_timed_out, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		w.close()
		return nil, err
	}
	return w, nil
}

func (w *writer) close() {
	for _, stmt := range []*sql.Stmt{w.session, w.question, w.answer} {
		if stmt != nil {
			closeStmt(stmt)
		}
	}
}

func (w *writer) write(ctx context.Context, seq int, sess model.Session) error {
	if _, err := w.session.ExecContext(ctx,
		sess.ID,
		seq,
		sess.CandidateInfo.Name,
		sess.CandidateInfo.Email,
		sess.CandidateInfo.Phone,
		sess.CurrentQuestionIndex,
		string(sess.Status),
		nullInt(sess.Score),
		nullString(sess.Summary),
		nullTime(sess.StartedAt),
		nullTime(sess.CompletedAt),
		nullInt(sess.TimeRemaining),
	); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sess.ID, err)
	}
	for pos, q := range sess.Questions {
		if _, err := w.question.ExecContext(ctx, sess.ID, pos, q.ID, q.Text, string(q.Difficulty), q.TimeLimit, q.Category); err != nil {
			return fmt.Errorf("failed to save question %s: %w", q.ID, err)
		}
	}
	for pos, a := range sess.Answers {
		if _, err := w.answer.ExecContext(ctx, sess.ID, pos, a.QuestionID, a.Text, a.TimeSpent, boolInt(a.IsTimedOut), a.Timestamp.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to save answer %s: %w", a.QuestionID, err)
		}
	}
	return nil
}

func writeCurrent(ctx context.Context, tx *sql.Tx, id string) error {
	var current any
	if id != "" {
		current = id
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		currentSessionKey, current)
	return err
}

// Load reads every session in creation order plus the active pointer.
func (s *Store) Load(ctx context.Context) (model.Snapshot, error) {
	sessions, err := s.listSessions(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	questions, err := s.listQuestions(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	answers, err := s.listAnswers(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	for i := range sessions {
		sessions[i].Questions = questions[sessions[i].ID]
		sessions[i].Answers = answers[sessions[i].ID]
	}

	var current sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, currentSessionKey).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return model.Snapshot{}, err
	}
	return model.Snapshot{Sessions: sessions, CurrentSessionID: current.String}, nil
}

func (s *Store) listSessions(ctx context.Context) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, current_question_index, status, score, summary, started_at, completed_at, time_remaining
		 FROM sessions
		 ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []model.Session
	for rows.Next() {
		var (
			sess          model.Session
			status        string
			score         sql.NullInt64
			summary       sql.NullString
			startedAt     sql.NullString
			completedAt   sql.NullString
			timeRemaining sql.NullInt64
		)
		if err := rows.Scan(&sess.ID, &sess.CandidateInfo.Name, &sess.CandidateInfo.Email, &sess.CandidateInfo.Phone,
			&sess.CurrentQuestionIndex, &status, &score, &summary, &startedAt, &completedAt, &timeRemaining); err != nil {
			return nil, err
		}
		sess.Status = model.Status(status)
		sess.Score = intPtr(score)
		if summary.Valid {
			v := summary.String
			sess.Summary = &v
		}
		if sess.StartedAt, err = timePtr(startedAt); err != nil {
			return nil, err
		}
		if sess.CompletedAt, err = timePtr(completedAt); err != nil {
			return nil, err
		}
		sess.TimeRemaining = intPtr(timeRemaining)
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) listQuestions(ctx context.Context) (map[string][]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, question_id, text, difficulty, time_limit, category
		 FROM session_questions
		 ORDER BY session_id, position ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	result := map[string][]model.Question{}
	for rows.Next() {
		var sessionID, difficulty string
		var q model.Question
		if err := rows.Scan(&sessionID, &q.ID, &q.Text, &difficulty, &q.TimeLimit, &q.Category); err != nil {
			return nil, err
		}
		q.Difficulty = model.Difficulty(difficulty)
		result[sessionID] = append(result[sessionID], q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) listAnswers(ctx context.Context) (map[string][]model.Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, question_id, text, time_spent, is_timed_out, answered_at
		 FROM session_answers
		 ORDER BY session_id, position ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	result := map[string][]model.Answer{}
	for rows.Next() {
		var sessionID, answeredAt string
		var timedOut int
		var a model.Answer
		if err := rows.Scan(&sessionID, &a.QuestionID, &a.Text, &a.TimeSpent, &timedOut, &answeredAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, answeredAt)
		if err != nil {
			return nil, err
		}
		a.Timestamp = parsed
		a.IsTimedOut = timedOut != 0
		result[sessionID] = append(result[sessionID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func closeStmt(stmt *sql.Stmt) {
	if cerr := stmt.Close(); cerr != nil {
		// Best-effort statement close.
		_ = cerr
	}
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(time.RFC3339Nano)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func timePtr(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

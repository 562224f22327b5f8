package auditlog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS triage_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	timestamp     TEXT NOT NULL,
	subject       TEXT NOT NULL,
	sender        TEXT NOT NULL,
	received_time TEXT NOT NULL,
	body_summary  TEXT NOT NULL,
	ai_response   TEXT NOT NULL,
	importance    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_triage_log_importance ON triage_log(importance);
`

// SQLiteSink mirrors the audit trail into a local queryable database. It is
// an optional third sink; the two file sinks remain the durable record.
type SQLiteSink struct {
	db *sql.DB
}

func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite sink: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite sink: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing sqlite schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

func (s *SQLiteSink) Append(rec *models.TriageRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO triage_log (run_id, timestamp, subject, sender, received_time, body_summary, ai_response, importance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Timestamp.Format(time.RFC3339),
		rec.Subject,
		rec.Sender,
		rec.ReceivedTime.Format(time.RFC3339),
		rec.BodySummary,
		rec.AIResponse,
		string(rec.Importance),
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Close() error { return s.db.Close() }

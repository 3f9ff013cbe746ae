package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jo-hoe/badgeprinter/internal/backend/records"
	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

// OpenSQLiteRecordSource opens an existing database file read-only. The schema is
// not created, so a missing file or records table is reported as an error.
func OpenSQLiteRecordSource(path string) (DatabaseService, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("record database unavailable: %w", err)
	}

	connectionString := (&url.URL{Scheme: "file", Opaque: path, RawQuery: "mode=ro"}).String()
	database, err := NewSQLiteDatabase(connectionString)
	if err != nil {
		return nil, err
	}
	if !database.DoesDatabaseExist() {
		_ = database.Close()
		return nil, fmt.Errorf("record database %s cannot be opened", path)
	}
	return database, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS badge_events (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			action TEXT NOT NULL,
			path TEXT NOT NULL,
			reused INTEGER NOT NULL DEFAULT 0,
			printed INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_badge_events_code ON badge_events (code, created_at)`,
		`CREATE TABLE IF NOT EXISTS records (
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			company TEXT NOT NULL
		)`,
	}
	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return nil, err
		}
	}
	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// the file is created on connect, so a successful ping is enough
	return s.db.Ping() == nil
}

func (s *SQLiteDatabase) CreateBadgeEvent(event BadgeEvent) (string, error) {
	id := uuid.NewString()
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(
		"INSERT INTO badge_events (id, code, action, path, reused, printed, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, event.Code, event.Action, event.Path, event.Reused, event.Printed, createdAt.UnixNano())
	if err != nil {
		return "", fmt.Errorf("failed to insert badge event: %w", err)
	}
	return id, nil
}

func (s *SQLiteDatabase) GetBadgeEvents(code string) ([]*BadgeEvent, error) {
	rows, err := s.db.Query(
		"SELECT id, code, action, path, reused, printed, created_at FROM badge_events WHERE code = ? ORDER BY created_at, rowid",
		code)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []*BadgeEvent
	for rows.Next() {
		var event BadgeEvent
		var createdAt int64
		if err := rows.Scan(&event.ID, &event.Code, &event.Action, &event.Path,
			&event.Reused, &event.Printed, &createdAt); err != nil {
			return nil, err
		}
		event.CreatedAt = time.Unix(0, createdAt)
		events = append(events, &event)
	}
	return events, rows.Err()
}

func (s *SQLiteDatabase) InsertRecords(rows []records.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := tx.Exec("INSERT INTO records (code, name, company) VALUES (?, ?, ?)",
			row.Code, row.Name, row.Company); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert record %s: %w", row.Code, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteDatabase) GetRecords() ([]records.Record, error) {
	rows, err := s.db.Query("SELECT code, name, company FROM records ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []records.Record
	for rows.Next() {
		var record records.Record
		if err := rows.Scan(&record.Code, &record.Name, &record.Company); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

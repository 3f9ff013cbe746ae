package database

import (
	"database/sql"

	"github.com/jo-hoe/badgeprinter/internal/backend/records"
)

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// CreateBadgeEvent stores event and returns its generated ID
	CreateBadgeEvent(event BadgeEvent) (string, error)
	// GetBadgeEvents returns the events for code, oldest first
	GetBadgeEvents(code string) ([]*BadgeEvent, error)

	InsertRecords(rows []records.Record) error
	// GetRecords returns all records in insertion order
	GetRecords() ([]records.Record, error)
}

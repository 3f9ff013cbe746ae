package database

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jo-hoe/badgeprinter/internal/backend/records"
)

func newTestDB(t *testing.T) DatabaseService {
	t.Helper()

	ds, err := NewDatabase("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func TestNewDatabase_UnsupportedType(t *testing.T) {
	if _, err := NewDatabase("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestSQLite_DoesDatabaseExist(t *testing.T) {
	ds := newTestDB(t)
	if !ds.DoesDatabaseExist() {
		t.Fatalf("expected DoesDatabaseExist to return true")
	}
}

func TestSQLite_CreateDatabaseIsIdempotent(t *testing.T) {
	ds := newTestDB(t)
	if _, err := ds.CreateDatabase(); err != nil {
		t.Fatalf("second CreateDatabase error: %v", err)
	}
}

func TestSQLite_BadgeEvents(t *testing.T) {
	ds := newTestDB(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	id1, err := ds.CreateBadgeEvent(BadgeEvent{Code: "A1", Action: ActionPreview, Path: "badges_out/badge_A1.png", CreatedAt: base})
	if err != nil {
		t.Fatalf("CreateBadgeEvent #1 error: %v", err)
	}
	id2, err := ds.CreateBadgeEvent(BadgeEvent{Code: "A1", Action: ActionPrint, Path: "badges_out/badge_A1.png", Reused: true, CreatedAt: base.Add(time.Minute)})
	if err != nil {
		t.Fatalf("CreateBadgeEvent #2 error: %v", err)
	}
	if _, err := ds.CreateBadgeEvent(BadgeEvent{Code: "B2", Action: ActionPrint, Path: "badges_out/badge_B2.png", Printed: true}); err != nil {
		t.Fatalf("CreateBadgeEvent #3 error: %v", err)
	}

	for _, id := range []string{id1, id2} {
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected UUID id, got %q", id)
		}
	}

	events, err := ds.GetBadgeEvents("A1")
	if err != nil {
		t.Fatalf("GetBadgeEvents error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for A1, got %d", len(events))
	}
	if events[0].ID != id1 || events[1].ID != id2 {
		t.Errorf("expected events oldest first, got %s, %s", events[0].ID, events[1].ID)
	}
	if events[0].Action != ActionPreview || events[1].Action != ActionPrint {
		t.Errorf("unexpected actions %s, %s", events[0].Action, events[1].Action)
	}
	if !events[1].Reused || events[1].Printed {
		t.Errorf("expected reused and not printed, got %+v", events[1])
	}
	if !events[0].CreatedAt.Equal(base) {
		t.Errorf("expected created_at %v, got %v", base, events[0].CreatedAt)
	}

	none, err := ds.GetBadgeEvents("ZZZ")
	if err != nil {
		t.Fatalf("GetBadgeEvents error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no events for unknown code, got %d", len(none))
	}
}

func TestSQLite_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	ds, err := NewDatabase("sqlite", path)
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}

	rows := []records.Record{
		{Code: "B2", Name: "John Roe", Company: "Globex"},
		{Code: "A1", Name: "Jane Doe", Company: "Acme"},
		{Code: "A1", Name: "Duplicate", Company: "Other"},
	}
	if err := ds.InsertRecords(rows); err != nil {
		t.Fatalf("InsertRecords error: %v", err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	reopened, err := NewDatabase("sqlite", path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.GetRecords()
	if err != nil {
		t.Fatalf("GetRecords error: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d records, got %d", len(rows), len(got))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], rows[i])
		}
	}
}

func TestOpenSQLiteRecordSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	seed, err := NewDatabase("sqlite", path)
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}
	if err := seed.InsertRecords([]records.Record{{Code: "A1", Name: "Jane Doe", Company: "Acme"}}); err != nil {
		t.Fatalf("InsertRecords error: %v", err)
	}
	if err := seed.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	source, err := OpenSQLiteRecordSource(path)
	if err != nil {
		t.Fatalf("OpenSQLiteRecordSource error: %v", err)
	}
	defer func() { _ = source.Close() }()

	rows, err := source.GetRecords()
	if err != nil {
		t.Fatalf("GetRecords error: %v", err)
	}
	if len(rows) != 1 || rows[0].Code != "A1" {
		t.Errorf("unexpected rows %+v", rows)
	}
	if err := source.InsertRecords([]records.Record{{Code: "B2"}}); err == nil {
		t.Error("expected read-only source to reject writes")
	}
}

func TestOpenSQLiteRecordSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.db")

	if _, err := OpenSQLiteRecordSource(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected no file to be created, stat error: %v", err)
	}
}

func TestOpenSQLiteRecordSource_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	source, err := OpenSQLiteRecordSource(path)
	if err != nil {
		t.Fatalf("OpenSQLiteRecordSource error: %v", err)
	}
	defer func() { _ = source.Close() }()

	if _, err := source.GetRecords(); err == nil {
		t.Error("expected error for a database without a records table")
	}
}

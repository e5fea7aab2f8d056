package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func newTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrateAppliesOnce(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	applied := 0
	migrations := []Migration{
		{
			Version:     1,
			Description: "create things table",
			Up: func(tx *sql.Tx) error {
				applied++
				_, err := tx.Exec("CREATE TABLE things (id TEXT PRIMARY KEY)")
				return err
			},
		},
	}

	if err := s.Migrate(ctx, "test", migrations); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := s.Migrate(ctx, "test", migrations); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if applied != 1 {
		t.Errorf("migration applied %d times, want 1", applied)
	}

	if _, err := s.DB().Exec("INSERT INTO things (id) VALUES ('x')"); err != nil {
		t.Errorf("migrated table unusable: %v", err)
	}
}

func TestMigrateRollsBackFailure(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	bad := []Migration{
		{
			Version:     1,
			Description: "failing migration",
			Up: func(tx *sql.Tx) error {
				if _, err := tx.Exec("CREATE TABLE half (id TEXT)"); err != nil {
					return err
				}
				return errors.New("deliberate failure")
			},
		},
	}
	if err := s.Migrate(ctx, "test", bad); err == nil {
		t.Fatal("expected migration error")
	}

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'half'",
	).Scan(&name)
	if err != sql.ErrNoRows {
		t.Errorf("failed migration should leave no table, got err=%v name=%q", err, name)
	}
}

func TestCheckVersionFirstRun(t *testing.T) {
	s := newTestDB(t)
	if err := s.CheckVersion(context.Background(), "0.2.0"); err != nil {
		t.Fatalf("first CheckVersion: %v", err)
	}
	// Same version again is fine.
	if err := s.CheckVersion(context.Background(), "0.2.0"); err != nil {
		t.Fatalf("repeat CheckVersion: %v", err)
	}
}

func TestCheckVersionRejectsOlderBinary(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	if err := s.CheckVersion(ctx, "0.3.0"); err != nil {
		t.Fatalf("CheckVersion: %v", err)
	}
	err := s.CheckVersion(ctx, "0.2.0")
	if !errors.Is(err, ErrNewerSchema) {
		t.Errorf("expected ErrNewerSchema, got %v", err)
	}
}

func TestCheckVersionDevAlwaysPasses(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	if err := s.CheckVersion(ctx, "0.3.0"); err != nil {
		t.Fatalf("CheckVersion: %v", err)
	}
	if err := s.CheckVersion(ctx, "dev"); err != nil {
		t.Errorf("dev binary should always pass: %v", err)
	}
}

func TestTxCommitAndRollback(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	if _, err := s.DB().Exec("CREATE TABLE t (id TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	if err := s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO t (id) VALUES ('keep')")
		return err
	}); err != nil {
		t.Fatalf("Tx commit: %v", err)
	}

	wantErr := errors.New("abort")
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO t (id) VALUES ('drop')"); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Tx rollback err = %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM t").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (rollback should discard the second insert)", count)
	}
}

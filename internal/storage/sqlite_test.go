package storage

import (
	"path/filepath"
	"testing"

	"hackterm/internal/db"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewSQLite(database.DB)
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok, err := s.Load("missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Save("k", []byte(`{"level":2}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, ok, err := s.Load("k")
	if err != nil || !ok || string(data) != `{"level":2}` {
		t.Fatalf("load = %q ok=%v err=%v", data, ok, err)
	}

	// Save is an upsert.
	if err := s.Save("k", []byte(`{"level":3}`)); err != nil {
		t.Fatalf("second save: %v", err)
	}
	data, _, _ = s.Load("k")
	if string(data) != `{"level":3}` {
		t.Fatalf("overwrite failed, got %q", data)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Load("k"); ok {
		t.Fatal("record survived delete")
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete of missing key must be silent: %v", err)
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	s := NewMemory()
	src := []byte("abc")
	if err := s.Save("k", src); err != nil {
		t.Fatalf("save: %v", err)
	}
	src[0] = 'X'

	data, ok, err := s.Load("k")
	if err != nil || !ok || string(data) != "abc" {
		t.Fatalf("stored data aliased caller slice: %q ok=%v err=%v", data, ok, err)
	}

	data[0] = 'Y'
	again, _, _ := s.Load("k")
	if string(again) != "abc" {
		t.Fatalf("loaded data aliased internal slice: %q", again)
	}
}

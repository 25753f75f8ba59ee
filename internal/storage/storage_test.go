package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorage_LoadMissing(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "state.json"))
	if _, err := s.Load(); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := NewFileStorage(path)
	want := []byte(`{"users":{}}`)
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("load = %s, want %s", got, want)
	}
}

func TestFileStorage_SaveReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStorage(path)
	if err := s.Save([]byte("first version with a long body")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save([]byte("second")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("load = %q, want %q", got, "second")
	}
	// no temp leftovers
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file in state dir, found %d", len(entries))
	}
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	if _, err := s.Load(); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if err := s.Save([]byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil || string(got) != "x" {
		t.Fatalf("load = %q, %v", got, err)
	}
}

func TestSQLiteStorage_RoundTrip(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if err := s.Save([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save([]byte(`{"a":2}`)); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("load = %s, want {\"a\":2}", got)
	}
}

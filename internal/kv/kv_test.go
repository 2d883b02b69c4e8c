package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	db, err := NewSQLite(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]Store{
		"file":   file,
		"sqlite": db,
		"memory": NewMemory(),
	}
}

func TestGetMissingKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("alert-states")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSetThenGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set("alert-notes", []byte(`[1]`)); err != nil {
				t.Fatal(err)
			}
			if err := s.Set("alert-notes", []byte(`[1,2]`)); err != nil {
				t.Fatal(err)
			}
			got, err := s.Get("alert-notes")
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != `[1,2]` {
				t.Errorf("expected last write to win, got %s", got)
			}
		})
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", "sp ace"} {
				if err := s.Set(key, []byte("x")); err == nil {
					t.Errorf("expected error for key %q", key)
				}
			}
		})
	}
}

func TestFileWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Set("current-user", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "current-user.json.tmp")); !os.IsNotExist(err) {
		t.Error("expected temp file to be renamed away")
	}
	if _, err := os.Stat(filepath.Join(dir, "current-user.json")); err != nil {
		t.Errorf("expected committed file: %v", err)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := NewSQLite(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Set("alert-action-log", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = NewSQLite(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, err := db.Get("alert-action-log")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `[]` {
		t.Errorf("unexpected value %s", got)
	}
}

func TestMemoryFailWrites(t *testing.T) {
	m := NewMemory()
	m.FailWrites = errors.New("quota exceeded")
	if err := m.Set("alert-states", []byte(`{}`)); err == nil {
		t.Error("expected write failure")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

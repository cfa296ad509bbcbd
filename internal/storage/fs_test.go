package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempDir(t *testing.T, files map[string]string) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, fs
}

func TestRead(t *testing.T) {
	_, s := tempDir(t, map[string]string{"paper.json": `{"title":"x"}`})
	got, err := s.Read("paper.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != `{"title":"x"}` {
		t.Errorf("content = %q", got)
	}
}

func TestRead_Missing(t *testing.T) {
	_, s := tempDir(t, nil)
	_, err := s.Read("missing.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestList_FiltersAndSorts(t *testing.T) {
	_, s := tempDir(t, map[string]string{
		"b.json":          "{}",
		"a.json":          "{}",
		"C.JSON":          "{}",
		"notes.txt":       "x",
		"sub/nested.json": "{}",
		".json":           "{}",
	})
	if err := os.Mkdir(filepath.Join(s.Root(), "dir.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	want := []string{"C.JSON", "a.json", "b.json"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if items[1].Size != 2 || items[1].ModTime.IsZero() {
		t.Errorf("metadata not populated: %+v", items[1])
	}
}

func TestTraversalBlocked(t *testing.T) {
	_, s := tempDir(t, nil)

	cases := []string{
		"../../etc/passwd",
		"../outside.json",
		"/etc/shadow",
		"sub/nested.json",
		"..",
		"",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "exhyte-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestIsPaperFile(t *testing.T) {
	cases := map[string]bool{
		"a.json":    true,
		"a.JSON":    true,
		".json":     false,
		"json":      false,
		"a.json.gz": false,
		"a.jsonl":   false,
	}
	for name, want := range cases {
		if got := IsPaperFile(name); got != want {
			t.Errorf("IsPaperFile(%q) = %v, want %v", name, got, want)
		}
	}
}

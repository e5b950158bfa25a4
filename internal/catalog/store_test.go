package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openStore(t *testing.T, content string) *Store {
	t.Helper()
	s, err := Open(writeFile(t, content), LoadOptions{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.txt")
	s, err := Open(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.Len() != 0 || sumOf(t, s) != 0 {
		t.Errorf("new store has %d records, sum %d", s.Len(), sumOf(t, s))
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestStoreAdd(t *testing.T) {
	s := openStore(t, "Widget — 10\n")

	if err := s.Add("Gadget", 25); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got, want := readFile(t, s.Path()), "Widget — 10\nGadget — 25\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestStoreAdd_DuplicateGrowsByOne(t *testing.T) {
	s := openStore(t, "Widget — 10\n")
	before := s.Len()

	if err := s.Add("Widget", 10); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if s.Len() != before+1 {
		t.Errorf("Len() = %d, want %d", s.Len(), before+1)
	}
	if got, want := readFile(t, s.Path()), "Widget — 10\nWidget — 10\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestStoreAdd_InvalidNameDoesNotWrite(t *testing.T) {
	content := "Widget — +10\n"
	s := openStore(t, content)

	err := s.Add("Bad — Name", 1)
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("Add() error = %v, want ErrInvalidName", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if got := readFile(t, s.Path()); got != content {
		t.Errorf("file rewritten to %q", got)
	}
}

func TestStoreUpdate_FirstMatchOnly(t *testing.T) {
	s := openStore(t, "X — 1\nY — 2\nX — 3\n")

	found, err := s.Update("X", 99)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !found {
		t.Fatal("Update() found = false, want true")
	}

	want := Catalog{{Name: "X", Price: 99}, {Name: "Y", Price: 2}, {Name: "X", Price: 3}}
	if diff := cmp.Diff(want, s.Records()); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
	if got, want := readFile(t, s.Path()), "X — 99\nY — 2\nX — 3\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestStoreUpdate_NotFoundDoesNotWrite(t *testing.T) {
	// "+10" would be rewritten as "10" by any save.
	content := "Widget — +10\n"
	s := openStore(t, content)

	found, err := s.Update("widget", 5)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if found {
		t.Error("Update() found = true for case-mismatched name")
	}
	if got := readFile(t, s.Path()); got != content {
		t.Errorf("file rewritten to %q", got)
	}
}

func TestStoreDelete_RemovesAllMatches(t *testing.T) {
	s := openStore(t, "X — 1\nY — 2\nX — 3\n")

	removed, err := s.Delete("X")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if got, want := readFile(t, s.Path()), "Y — 2\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestStoreDelete_MissingNameStillRewrites(t *testing.T) {
	s := openStore(t, "Widget — +10\nGadget — 25\n")
	before := s.Records()

	removed, err := s.Delete("Nothing")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if diff := cmp.Diff(before, s.Records()); diff != "" {
		t.Errorf("Records() changed (-before +after):\n%s", diff)
	}
	// The canonical price proves the file was rewritten.
	if got, want := readFile(t, s.Path()), "Widget — 10\nGadget — 25\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestStoreDelete_MissingFileCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.txt")
	s, err := Open(path, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Delete("Widget"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := readFile(t, path); got != "" {
		t.Errorf("file = %q, want empty", got)
	}
}

func TestStoreSum(t *testing.T) {
	s := openStore(t, "Widget — 10\nGadget — 25\n")
	if got := sumOf(t, s); got != 35 {
		t.Errorf("Sum() = %d, want 35", got)
	}
}

func TestStoreRecordsIsACopy(t *testing.T) {
	s := openStore(t, "Widget — 10\n")
	recs := s.Records()
	recs[0].Price = 1000
	if sumOf(t, s) != 10 {
		t.Errorf("mutating Records() changed the store")
	}
}

func TestStoreSkipModeDropsLinesOnSave(t *testing.T) {
	path := writeFile(t, "Widget — 10\nbroken\n")
	s, err := Open(path, LoadOptions{OnMalformed: Skip})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", s.Skipped())
	}
	if err := s.Add("Gadget", 25); err != nil {
		t.Fatal(err)
	}
	if got, want := readFile(t, path), "Widget — 10\nGadget — 25\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestStoreScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.txt")
	open := func() *Store {
		s, err := Open(path, LoadOptions{})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		return s
	}

	if err := open().Add("Widget", 10); err != nil {
		t.Fatal(err)
	}
	if got, want := readFile(t, path), "Widget — 10\n"; got != want {
		t.Fatalf("after first add: %q, want %q", got, want)
	}
	if err := open().Add("Gadget", 25); err != nil {
		t.Fatal(err)
	}
	if found, err := open().Update("Widget", 15); err != nil || !found {
		t.Fatalf("Update() = %v, %v", found, err)
	}
	if got, want := readFile(t, path), "Widget — 15\nGadget — 25\n"; got != want {
		t.Fatalf("after update: %q, want %q", got, want)
	}
	if _, err := open().Delete("Gadget"); err != nil {
		t.Fatal(err)
	}
	if got, want := readFile(t, path), "Widget — 15\n"; got != want {
		t.Fatalf("after delete: %q, want %q", got, want)
	}
	if got := sumOf(t, open()); got != 15 {
		t.Errorf("Sum() = %d, want 15", got)
	}
}

func sumOf(t *testing.T, s *Store) int64 {
	t.Helper()
	total, err := s.Sum()
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	return total
}

func TestStoreAdd_NamesReadBack(t *testing.T) {
	for _, name := range []string{"Widget", "—", "— Widget", "Widget—", "Widget -"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "shop.txt")
			s, err := Open(path, LoadOptions{})
			if err != nil {
				t.Fatal(err)
			}
			if err := s.Add(name, 10); err != nil {
				t.Fatalf("Add(%q) error = %v", name, err)
			}

			c, err := Load(path, LoadOptions{})
			if err != nil {
				t.Fatalf("Load() after Add(%q) error = %v", name, err)
			}
			want := Catalog{{Name: name, Price: 10}}
			if diff := cmp.Diff(want, c); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreAdd_RejectsTrailingDash(t *testing.T) {
	for _, name := range []string{"Widget —", " —"} {
		content := "Gadget — 25\n"
		s := openStore(t, content)

		if err := s.Add(name, 10); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("Add(%q) error = %v, want ErrInvalidName", name, err)
		}
		if got := readFile(t, s.Path()); got != content {
			t.Errorf("file rewritten to %q", got)
		}
		if _, err := Load(s.Path(), LoadOptions{}); err != nil {
			t.Errorf("Load() after rejected Add(%q) error = %v", name, err)
		}
	}
}

func TestStoreSum_Overflow(t *testing.T) {
	s := openStore(t, "A — 9223372036854775807\nB — 1\n")
	if _, err := s.Sum(); !errors.Is(err, ErrSumOverflow) {
		t.Errorf("Sum() error = %v, want ErrSumOverflow", err)
	}
}

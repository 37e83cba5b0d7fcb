package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShortTermFIFOAtCapacity(t *testing.T) {
	s := NewShortTerm()
	for i := 0; i < MaxShortTermEntries+1; i++ {
		s.Add(fmt.Sprintf("entry-%d", i))
	}
	if s.Len() != MaxShortTermEntries {
		t.Fatalf("expected %d entries, got %d", MaxShortTermEntries, s.Len())
	}
	entries := s.Entries()
	if entries[0].Content != "entry-1" {
		t.Fatalf("expected oldest retained to be entry-1, got %q", entries[0].Content)
	}
}

func TestShortTermClear(t *testing.T) {
	s := NewShortTerm()
	s.Add("a")
	s.Clear()
	if !s.IsEmpty() {
		t.Fatal("expected empty after clear")
	}
}

func TestAppendToMemoryRejectsEmptyContent(t *testing.T) {
	l := NewLongTerm(t.TempDir())
	if _, err := l.AppendToMemory("   "); err == nil || err.Kind != ErrInvalidContent {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
}

func TestAppendToMemoryWritesFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLongTerm(dir)
	path, err := l.AppendToMemory("remember this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		t.Fatalf("expected file to exist: %v", rerr)
	}
	if !strings.Contains(string(data), "remember this") {
		t.Fatalf("expected content in file, got %q", data)
	}
}

func TestCreateDailyNoteUsesDatedFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLongTerm(dir)
	path, err := l.CreateDailyNote("today's note")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Ext(path) != ".md" {
		t.Fatalf("expected .md file, got %s", path)
	}
}

func TestStoreMirrorsLongTermIntoShortTerm(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.AppendToMemory("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := s.ShortTerm().Entries()
	if len(entries) != 1 || entries[0].Content != "hello" {
		t.Fatalf("expected short-term mirror, got %+v", entries)
	}
}

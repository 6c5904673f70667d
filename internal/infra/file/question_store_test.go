package file

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"quizmaster/internal/domain"
)

func TestQuestionRoundTrip(t *testing.T) {
	store := NewQuestionStore(filepath.Join(t.TempDir(), "quest.bin"))

	want := []domain.Question{
		{Text: "What is 2 + 2?", Options: [3]string{"3", "4", "5"}, Correct: 1},
		{Text: "Capital of France?", Options: [3]string{"Paris", "Lyon", "Nice"}, Correct: 0},
		{Text: "Largest planet?", Options: [3]string{"Mars", "Venus", "Jupiter"}, Correct: 2},
	}
	for _, q := range want {
		if err := store.Append(q); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	// Idempotent read: a second pass returns the identical sequence.
	again, err := store.ReadAll()
	if err != nil {
		t.Fatalf("read all again: %v", err)
	}
	if !reflect.DeepEqual(again, got) {
		t.Fatalf("second read differs: %+v vs %+v", again, got)
	}
}

func TestQuestionReadAllMissingFile(t *testing.T) {
	store := NewQuestionStore(filepath.Join(t.TempDir(), "missing.bin"))

	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty bank, got %d questions", len(got))
	}
}

func TestQuestionUnsupportedVersionFailsLoudly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quest.bin")

	body := []byte(`{"v":2,"text":"q","options":["a","b","c"],"correct":0}`)
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	if err := os.WriteFile(path, append(prefix[:], body...), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := NewQuestionStore(path).ReadAll(); err == nil {
		t.Fatalf("expected error for unknown record version")
	}
}

func TestQuestionTruncatedRecordFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quest.bin")
	store := NewQuestionStore(path)
	if err := store.Append(domain.Question{Text: "q", Options: [3]string{"a", "b", "c"}, Correct: 0}); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0o644); err != nil {
		t.Fatalf("truncate fixture: %v", err)
	}

	if _, err := store.ReadAll(); err == nil {
		t.Fatalf("expected error for truncated record")
	}
}

package file

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quizmaster/internal/domain"
)

// schemaVersion tags every question record on disk so a future format change
// fails loudly on read instead of silently misparsing.
const schemaVersion = 1

// maxRecordSize bounds a single record; anything larger is a corrupt length prefix.
const maxRecordSize = 1 << 20

// QuestionStore persists the question bank as a stream of independently
// appended records in one file: a big-endian uint32 length prefix followed by
// a JSON body carrying a schema version tag. Records are never rewritten.
type QuestionStore struct {
	path string
}

func NewQuestionStore(path string) *QuestionStore {
	return &QuestionStore{path: path}
}

type questionRecord struct {
	V int `json:"v"`
	domain.Question
}

// Append encodes the question as one self-delimited record and appends it,
// creating the file (and its directory) if absent.
func (s *QuestionStore) Append(q domain.Question) error {
	body, err := json.Marshal(questionRecord{V: schemaVersion, Question: q})
	if err != nil {
		return fmt.Errorf("encode question: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open question store: %w", err)
	}
	defer f.Close()

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	if _, err := f.Write(append(prefix[:], body...)); err != nil {
		return fmt.Errorf("append question: %w", err)
	}
	return nil
}

// ReadAll decodes records sequentially until end-of-data and returns them in
// append order. A missing file is "no questions yet", not an error.
func (s *QuestionStore) ReadAll() ([]domain.Question, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open question store: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var questions []domain.Question
	for {
		var prefix [4]byte
		if _, err := io.ReadFull(r, prefix[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return questions, nil
			}
			return nil, fmt.Errorf("read record length: %w", err)
		}

		size := binary.BigEndian.Uint32(prefix[:])
		if size == 0 || size > maxRecordSize {
			return nil, fmt.Errorf("corrupt record length %d", size)
		}

		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("read record body: %w", err)
		}

		var rec questionRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, fmt.Errorf("decode question record: %w", err)
		}
		if rec.V != schemaVersion {
			return nil, fmt.Errorf("unsupported question record version %d", rec.V)
		}
		questions = append(questions, rec.Question)
	}
}

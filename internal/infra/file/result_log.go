package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"quizmaster/internal/domain"
)

var resultHeader = []string{"Username", "Name", "Correct", "Incorrect", "Skipped", "Score"}

// ResultLog is the append-only CSV table of exam outcomes. The header is
// written exactly once, when the file is first created; rows are never
// updated or deleted.
type ResultLog struct {
	path string
}

func NewResultLog(path string) *ResultLog {
	return &ResultLog{path: path}
}

// Append writes one result row, prefixing the header if the file is new.
func (l *ResultLog) Append(_ context.Context, row domain.ResultRow) error {
	_, statErr := os.Stat(l.path)
	isNew := os.IsNotExist(statErr)

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open result log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(resultHeader); err != nil {
			return fmt.Errorf("write result header: %w", err)
		}
	}
	record := []string{
		row.Username,
		row.Name,
		strconv.Itoa(row.Correct),
		strconv.Itoa(row.Incorrect),
		strconv.Itoa(row.Skipped),
		strconv.Itoa(row.Score),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write result row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush result log: %w", err)
	}
	return nil
}

// ReadAll returns every logged row in append order; a missing file means no
// results yet.
func (l *ResultLog) ReadAll(_ context.Context) ([]domain.ResultRow, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open result log: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read result log: %w", err)
	}

	var rows []domain.ResultRow
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) != len(resultHeader) {
			return nil, fmt.Errorf("result row %d has %d fields", i, len(record))
		}
		row := domain.ResultRow{Username: record[0], Name: record[1]}
		for j, dst := range []*int{&row.Correct, &row.Incorrect, &row.Skipped, &row.Score} {
			v, err := strconv.Atoi(record[2+j])
			if err != nil {
				return nil, fmt.Errorf("result row %d field %s: %w", i, resultHeader[2+j], err)
			}
			*dst = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

package auditlog

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

// CSVSink appends one fixed-schema row per record to a comma-separated file.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink opens the tabular sink, writing the 7-column header only when
// the file is new or empty. Re-opening a populated file never truncates it
// and never duplicates the header.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening tabular log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("inspecting tabular log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(models.CSVColumns); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing tabular header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing tabular header: %w", err)
		}
	}

	return &CSVSink{file: f, writer: w}, nil
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Append(rec *models.TriageRecord) error {
	if err := s.writer.Write(rec.CSVRow()); err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	return nil
}

func (s *CSVSink) Close() error {
	s.writer.Flush()
	return s.file.Close()
}

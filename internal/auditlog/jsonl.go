package auditlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

// JSONLSink appends one self-describing JSON object per line. A crash mid-run
// loses at most the in-flight record.
type JSONLSink struct {
	path string
	file *os.File
}

func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening structured log: %w", err)
	}
	return &JSONLSink{path: path, file: f}, nil
}

func (s *JSONLSink) Name() string { return "jsonl" }

func (s *JSONLSink) Append(rec *models.TriageRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending record: %w", err)
	}
	return nil
}

func (s *JSONLSink) Close() error { return s.file.Close() }

// ReadRecords loads all records from a structured log file. A missing file
// yields an empty slice; malformed lines are skipped.
func ReadRecords(path string) ([]models.TriageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening structured log: %w", err)
	}
	defer f.Close()

	var records []models.TriageRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec models.TriageRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading structured log: %w", err)
	}
	return records, nil
}

var importanceRank = map[models.Importance]int{
	models.NeedsReply:    0,
	models.MightReply:    1,
	models.NoReplyNeeded: 2,
}

// SortByImportance orders records Need to Reply first, then Might Reply,
// then May Not Reply, preserving arrival order within each bucket.
func SortByImportance(records []models.TriageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return importanceRank[records[i].Importance] < importanceRank[records[j].Importance]
	})
}

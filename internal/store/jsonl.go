// Package store persists benchmark experiments: a JSONL append log (the
// canonical sink), a Redis resume index, and an optional Postgres repository
// for SQL-side aggregation.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/benchdto"
)

// JSONLSink appends one experiment per line. Safe for concurrent Append.
type JSONLSink struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenJSONL opens (creating parents as needed) an append-only experiment log.
func OpenJSONL(path string) (*JSONLSink, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open jsonl: %w", err)
	}
	return &JSONLSink{f: f, path: path}, nil
}

func (s *JSONLSink) Path() string { return s.path }

func (s *JSONLSink) Append(exp *benchdto.Experiment) error {
	raw, err := json.Marshal(exp)
	if err != nil {
		return fmt.Errorf("marshal experiment: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("append experiment: %w", err)
	}
	return nil
}

func (s *JSONLSink) Close() error {
	if s == nil || s.f == nil {
		return nil
	}
	return s.f.Close()
}

// LoadExperiments reads a JSONL log back. Blank lines are skipped; a corrupt
// line is an error rather than silently dropped data.
func LoadExperiments(path string) ([]*benchdto.Experiment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jsonl: %w", err)
	}
	defer f.Close()

	var out []*benchdto.Experiment
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var exp benchdto.Experiment
		if err := json.Unmarshal([]byte(text), &exp); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", filepath.Base(path), line, err)
		}
		out = append(out, &exp)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl: %w", err)
	}
	return out, nil
}

// ProcessedFiles indexes the PGN inputs already present in a log, keyed by
// base name, for resume.
func ProcessedFiles(exps []*benchdto.Experiment) map[string]bool {
	done := make(map[string]bool, len(exps))
	for _, exp := range exps {
		if exp == nil || exp.Game.InputPGNFile == "" {
			continue
		}
		done[filepath.Base(exp.Game.InputPGNFile)] = true
	}
	return done
}

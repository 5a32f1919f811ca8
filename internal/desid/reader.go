package desid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ReadSSF loads a zstd-compressed SSF export from disk.
func ReadSSF(path string) ([]SSFRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening SSF export: %w", err)
	}
	defer f.Close()

	rows, err := DecodeSSF(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadLog loads a zstd-compressed log export from disk.
func ReadLog(path string) ([]LogRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log export: %w", err)
	}
	defer f.Close()

	rows, err := DecodeLog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// DecodeSSF reads a zstd-compressed SSF export stream.
func DecodeSSF(r io.Reader) ([]SSFRow, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening zstd stream: %w", err)
	}
	defer zr.Close()
	return parseSSF(zr)
}

// DecodeLog reads a zstd-compressed log export stream.
func DecodeLog(r io.Reader) ([]LogRow, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening zstd stream: %w", err)
	}
	defer zr.Close()
	return parseLog(zr)
}

func parseSSF(r io.Reader) ([]SSFRow, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("SSF export is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading SSF header: %w", err)
	}

	required := append([]string{"hashid", "clock"}, RegisterColumns...)
	cols, err := columnIndex(header, required)
	if err != nil {
		return nil, fmt.Errorf("SSF export: %w", err)
	}

	var rows []SSFRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading SSF row: %w", err)
		}

		hash, err := parseHash(rec[cols["hashid"]])
		if err != nil {
			return nil, fmt.Errorf("SSF line %d: %w", line, err)
		}
		clock, err := parseInt(rec[cols["clock"]], "clock")
		if err != nil {
			return nil, fmt.Errorf("SSF line %d: %w", line, err)
		}

		row := SSFRow{HashID: hash, Clock: clock}
		for _, name := range RegisterColumns {
			cell, err := parseCell(rec[cols[name]])
			if err != nil {
				return nil, fmt.Errorf("SSF line %d, column %s: %w", line, name, err)
			}
			row.SetColumn(name, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseLog(r io.Reader) ([]LogRow, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("log export is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading log header: %w", err)
	}

	cols, err := columnIndex(header, []string{"clock", "hashid", "voice"})
	if err != nil {
		return nil, fmt.Errorf("log export: %w", err)
	}

	var rows []LogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log row: %w", err)
		}

		clock, err := parseInt(rec[cols["clock"]], "clock")
		if err != nil {
			return nil, fmt.Errorf("log line %d: %w", line, err)
		}
		hash, err := parseHash(rec[cols["hashid"]])
		if err != nil {
			return nil, fmt.Errorf("log line %d: %w", line, err)
		}
		voice, err := parseInt(rec[cols["voice"]], "voice")
		if err != nil {
			return nil, fmt.Errorf("log line %d: %w", line, err)
		}
		rows = append(rows, LogRow{Clock: clock, HashID: hash, Voice: voice})
	}
	return rows, nil
}

// columnIndex maps header names to positions and verifies every
// required column is present.
func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// parseCell parses an optional numeric cell. desidulate writes some
// registers as float text, so float cells are truncated toward zero.
func parseCell(s string) (Field, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Field{}, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Field{Int: v, Valid: true}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Field{}, fmt.Errorf("cell %q is not numeric", s)
	}
	return Field{Int: int64(f), Valid: true}, nil
}

// parseInt parses a required numeric cell.
func parseInt(s, what string) (int64, error) {
	cell, err := parseCell(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	if !cell.Valid {
		return 0, fmt.Errorf("%s cell is empty", what)
	}
	return cell.Int, nil
}

// parseHash accepts both signed and unsigned 64-bit hash text. The
// exporter prints hashes as signed values, so negatives are common,
// but re-exported data sometimes carries the unsigned form.
func parseHash(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("hashid cell is empty")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("hashid %q is not a 64-bit integer", s)
	}
	return int64(u), nil
}

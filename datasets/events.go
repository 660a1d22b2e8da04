package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LoadEventsCSV reads every row of a CSV mobility log.
// The header must contain uid, d, t, x and y (any order, case-insensitive);
// other columns are ignored. A missing file yields an error wrapping
// fs.ErrNotExist so callers can abort with a clear message.
func LoadEventsCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log %s: %w", path, err)
	}
	defer file.Close()

	return readEventsCSV(file)
}

// LoadEvents reads a log split over several CSV files. pattern is a
// filepath.Glob pattern; a plain path is read as a single file. Files are
// read in lexical order and must all carry the required columns. A pattern
// that matches nothing yields an error wrapping fs.ErrNotExist.
func LoadEvents(pattern string) ([]Record, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files found matching pattern %s: %w", pattern, fs.ErrNotExist)
	}
	sort.Strings(paths)

	var records []Record
	for _, path := range paths {
		recs, err := LoadEventsCSV(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, recs...)
	}
	return records, nil
}

func readEventsCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	colIndex := columnIndex(header)
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("required column %q not found in CSV", col)
		}
	}
	uidCol, dCol, tCol, xCol, yCol := colIndex["uid"], colIndex["d"], colIndex["t"], colIndex["x"], colIndex["y"]

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		var rec Record
		if rec.UID, err = parseUID(row[uidCol]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse uid: %w", line, err)
		}
		if rec.Day, err = parseInt(row[dCol]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse d: %w", line, err)
		}
		if rec.Timestep, err = parseInt(row[tCol]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse t: %w", line, err)
		}
		if rec.X, err = parseInt(row[xCol]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse x: %w", line, err)
		}
		if rec.Y, err = parseInt(row[yCol]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse y: %w", line, err)
		}
		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadHeader returns the column names of a CSV log as written in the file.
func ReadHeader(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log %s: %w", path, err)
	}
	defer file.Close()

	header, err := csv.NewReader(file).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	return header, nil
}

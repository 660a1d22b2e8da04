package datasets

import (
	"fmt"
	"strconv"
	"strings"
)

// requiredColumns are the log columns every source must provide.
var requiredColumns = []string{"uid", "d", "t", "x", "y"}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// some exports write integral columns as floats ("12.0")
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, err
		}
		return int(f), nil
	}
	return v, nil
}

func parseUID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}
	return strconv.ParseInt(s, 10, 64)
}

// columnIndex maps normalized header names to their positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return idx
}

// validateRecord checks the value ranges shared by every event source.
func validateRecord(r Record) error {
	if r.Timestep < 0 || r.Timestep >= TimestepsPerDay {
		return fmt.Errorf("timestep %d outside [0, %d)", r.Timestep, TimestepsPerDay)
	}
	return nil
}

package datasets

import (
	"fmt"
	"sort"
)

// Sample is one user's history split into an input window X and a target
// window Y. Both slices are ordered by day then timestep and must not be
// modified once built.
type Sample struct {
	UID int64
	X   []Event
	Y   []Event
}

// Window controls how many sorted distinct days go into X and Y.
type Window struct {
	InputDays  int
	TargetDays int
}

// DefaultWindow is 60 input days followed by 15 target days.
var DefaultWindow = Window{InputDays: 60, TargetDays: 15}

// MinDays is the number of distinct days a user needs to produce a sample.
func (w Window) MinDays() int { return w.InputDays + w.TargetDays }

// Validate checks that both windows are positive.
func (w Window) Validate() error {
	if w.InputDays < 1 || w.TargetDays < 1 {
		return fmt.Errorf("window sizes must be >= 1, got input=%d target=%d", w.InputDays, w.TargetDays)
	}
	return nil
}

// BuildStats counts what happened to each user while building samples.
type BuildStats struct {
	Users        int // distinct users in the log
	Kept         int // users that produced a sample
	ShortHistory int // users with fewer than Window.MinDays() distinct days
	EmptyWindow  int // users whose X or Y ended up empty
}

// BuildSamples groups records by user, then day, then timestep and builds one
// Sample per user with at least w.MinDays() distinct days. The first
// w.InputDays sorted days form X, the next w.TargetDays form Y; any later days
// are ignored. Samples are returned in ascending uid order. records is not
// modified.
func BuildSamples(records []Record, w Window) ([]Sample, BuildStats, error) {
	var stats BuildStats
	if err := w.Validate(); err != nil {
		return nil, stats, err
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	// stable so that duplicate (uid, d, t) rows keep log order
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.UID != b.UID {
			return a.UID < b.UID
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Timestep < b.Timestep
	})

	var samples []Sample
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].UID == sorted[start].UID {
			end++
		}
		stats.Users++

		if s, ok := buildUserSample(sorted[start:end], w, &stats); ok {
			samples = append(samples, s)
			stats.Kept++
		}
		start = end
	}

	return samples, stats, nil
}

// buildUserSample splits one user's sorted records into X and Y.
func buildUserSample(user []Record, w Window, stats *BuildStats) (Sample, bool) {
	// rows are sorted by day, so a day change marks a new distinct day
	var dayStarts []int
	for i := range user {
		if i == 0 || user[i].Day != user[i-1].Day {
			dayStarts = append(dayStarts, i)
		}
	}
	if len(dayStarts) < w.MinDays() {
		stats.ShortHistory++
		return Sample{}, false
	}

	splitAt := dayStarts[w.InputDays]
	endAt := len(user)
	if len(dayStarts) > w.MinDays() {
		endAt = dayStarts[w.MinDays()]
	}

	x := toEvents(user[:splitAt])
	y := toEvents(user[splitAt:endAt])
	if len(x) == 0 || len(y) == 0 {
		stats.EmptyWindow++
		return Sample{}, false
	}

	return Sample{UID: user[0].UID, X: x, Y: y}, true
}

func toEvents(rs []Record) []Event {
	out := make([]Event, len(rs))
	for i, r := range rs {
		out[i] = r.Event
	}
	return out
}

// Days returns the sorted distinct days present in events.
func Days(events []Event) []int {
	seen := make(map[int]bool)
	var days []int
	for _, e := range events {
		if !seen[e.Day] {
			seen[e.Day] = true
			days = append(days, e.Day)
		}
	}
	sort.Ints(days)
	return days
}

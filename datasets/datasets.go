package datasets

// This package turns a raw mobility log into train/predict samples.
//
// The log is a flat table with one row per observation and at least the
// columns uid, d, t, x, y:
//
//	uid  user identifier
//	d    day index
//	t    timestep inside the day, 0..95 (15 minute slots)
//	x,y  grid cell coordinates
//
// Layout and intended usage:
//
// Event sources
//   - LoadEventsCSV reads a CSV log, columns are discovered from the header.
//   - LoadEventsSQL reads the same columns from a SQLite or PostgreSQL table.
//
// Samples
//   - BuildSamples groups records per user and per day and splits each user's
//     history into an input window X (first 60 days) and a target window Y
//     (the following 15 days).
//   - SaveSamples / LoadSamples persist the sample list with encoding/gob.
//   - MakeSampleBatchFlat + ToGomlxTensors convert samples into gomlx tensors
//     for tooling that wants dense inputs.
//
// Exploration
//   - Describe summarises a raw log (users, points, per-user distributions).

// TimestepsPerDay is the number of discrete time slots in one day.
const TimestepsPerDay = 96

// Event is a single observation of a user at a grid cell.
type Event struct {
	Day      int
	Timestep int
	X        int
	Y        int
}

// Record is one row of the raw log: an event and the user it belongs to.
type Record struct {
	UID int64
	Event
}

// Tuple returns the event as the (day, timestep, x, y) tuple used by scorers.
func (e Event) Tuple() [4]int {
	return [4]int{e.Day, e.Timestep, e.X, e.Y}
}

// SameLabel reports whether two events share day and timestep.
func (e Event) SameLabel(o Event) bool {
	return e.Day == o.Day && e.Timestep == o.Timestep
}

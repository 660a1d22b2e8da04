package datasets

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	// SQL drivers accepted by LoadEventsSQL.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported SQL drivers for LoadEventsSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// eventRow is the scan target for one log row.
type eventRow struct {
	UID      int64 `db:"uid"`
	Day      int   `db:"d"`
	Timestep int   `db:"t"`
	X        int   `db:"x"`
	Y        int   `db:"y"`
}

// LoadEventsSQL reads a mobility log stored in a SQL table with the columns
// uid, d, t, x and y. driver is DriverSQLite (dsn is a file path) or
// DriverPostgres (dsn is a connection string).
func LoadEventsSQL(ctx context.Context, driver, dsn, table string) ([]Record, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	query := fmt.Sprintf(`SELECT uid, d, t, x, y FROM %s`, table)

	var rows []eventRow
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query events from %s: %w", table, err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec := Record{
			UID:   row.UID,
			Event: Event{Day: row.Day, Timestep: row.Timestep, X: row.X, Y: row.Y},
		}
		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

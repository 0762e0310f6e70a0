package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/theoremus-urban-solutions/mnr-feed/timeutil"
)

// Matching window for trip-by-departure lookups. The page rounds times to
// the minute, so an exact-seconds match is too strict.
const departureWindow = 30 * time.Minute

var _ Store = (*SQLStore)(nil)

// SQLStore queries the compiled SQLite schedule database
type SQLStore struct {
	db  *sqlx.DB
	loc *time.Location
}

// NewSQLStore opens the schedule database at location
func NewSQLStore(location string, loc *time.Location) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite3", location)
	if err != nil {
		return nil, fmt.Errorf("could not open schedule db %s: %w", location, err)
	}
	return &SQLStore{db: db, loc: loc}, nil
}

// Close releases the underlying database handle
func (s *SQLStore) Close() error { return s.db.Close() }

type stopRow struct {
	ID       string  `db:"stop_id"`
	Name     string  `db:"stop_name"`
	Lat      float64 `db:"stop_lat"`
	Lon      float64 `db:"stop_lon"`
	StatusID string  `db:"status_id"`
}

func (r stopRow) stop() *Stop {
	return &Stop{ID: r.ID, Name: r.Name, Lat: r.Lat, Lon: r.Lon, StatusID: r.StatusID}
}

const stopColumns = `s.stop_id, s.stop_name, s.stop_lat, s.stop_lon,
	COALESCE(e.status_id, '-1') AS status_id`

const stopFrom = `FROM gtfs_stops s
	LEFT JOIN rt_stops_extra e ON e.stop_id = s.stop_id`

func (s *SQLStore) GetStop(ctx context.Context, id string) (*Stop, error) {
	var row stopRow
	q := `SELECT ` + stopColumns + ` ` + stopFrom + ` WHERE s.stop_id = ?`
	if err := s.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("stop %s: %w", id, err)
	}
	return row.stop(), nil
}

func (s *SQLStore) GetStopByName(ctx context.Context, name string) (*Stop, error) {
	queries := []struct {
		where string
		arg   string
	}{
		{`s.stop_name = ?`, name},
		{`LOWER(s.stop_name) = LOWER(?)`, name},
		{`s.stop_name LIKE ? || '%'`, strings.TrimSpace(name)},
	}
	for _, q := range queries {
		var row stopRow
		err := s.db.GetContext(ctx, &row,
			`SELECT `+stopColumns+` `+stopFrom+` WHERE `+q.where+` LIMIT 1`, q.arg)
		if err == nil {
			return row.stop(), nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stop named %q: %w", name, err)
		}
	}
	return nil, nil
}

type tripRow struct {
	ID        string         `db:"trip_id"`
	ShortName sql.NullString `db:"trip_short_name"`
	Direction sql.NullString `db:"description"`
}

type stopTimeRow struct {
	stopRow
	ArrivalSecs   int `db:"arrival_time_seconds"`
	DepartureSecs int `db:"departure_time_seconds"`
	Sequence      int `db:"stop_sequence"`
}

// serviceIDs resolves the service ids active on the YYYYMMDD date from the
// calendar, then applies calendar_dates exceptions.
func (s *SQLStore) serviceIDs(ctx context.Context, date int) ([]string, error) {
	weekday := strings.ToLower(timeutil.Midnight(date, s.loc).Weekday().String())

	var ids []string
	q := fmt.Sprintf(`SELECT service_id FROM gtfs_calendar
		WHERE %s = 1 AND start_date <= ? AND end_date >= ?`, weekday)
	if err := s.db.SelectContext(ctx, &ids, q, date, date); err != nil {
		return nil, fmt.Errorf("calendar for %d: %w", date, err)
	}

	type exception struct {
		ServiceID string `db:"service_id"`
		Type      int    `db:"exception_type"`
	}
	var exceptions []exception
	if err := s.db.SelectContext(ctx, &exceptions,
		`SELECT service_id, exception_type FROM gtfs_calendar_dates WHERE date = ?`, date); err != nil {
		return nil, fmt.Errorf("calendar dates for %d: %w", date, err)
	}
	for _, ex := range exceptions {
		switch ex.Type {
		case 1:
			ids = append(ids, ex.ServiceID)
		case 2:
			for i, id := range ids {
				if id == ex.ServiceID {
					ids = append(ids[:i], ids[i+1:]...)
					break
				}
			}
		}
	}
	return ids, nil
}

func (s *SQLStore) GetTripByShortName(ctx context.Context, shortName string, date int) (*Trip, error) {
	services, err := s.serviceIDs(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, nil
	}

	q, args, err := sqlx.In(`SELECT t.trip_id, t.trip_short_name, d.description
		FROM gtfs_trips t
		LEFT JOIN gtfs_directions d ON d.direction_id = t.direction_id
		WHERE t.trip_short_name = ? AND t.service_id IN (?) LIMIT 1`,
		shortName, services)
	if err != nil {
		return nil, fmt.Errorf("trip %s: %w", shortName, err)
	}

	var row tripRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("trip %s on %d: %w", shortName, date, err)
	}
	return s.loadTrip(ctx, row, date)
}

func (s *SQLStore) GetTripByDeparture(ctx context.Context, originID, destinationID string, departure time.Time) (*Trip, error) {
	date := timeutil.ServiceDate(departure, s.loc)
	services, err := s.serviceIDs(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, nil
	}

	depSecs := timeutil.ToGTFSSeconds(departure, date, s.loc)
	window := int(departureWindow / time.Second)

	// Origin departure within the window, destination called later on the
	// same trip, closest departure first.
	q, args, err := sqlx.In(`SELECT t.trip_id, t.trip_short_name, d.description
		FROM gtfs_trips t
		JOIN gtfs_stop_times o ON o.trip_id = t.trip_id AND o.stop_id = ?
		JOIN gtfs_stop_times x ON x.trip_id = t.trip_id AND x.stop_id = ?
			AND x.stop_sequence > o.stop_sequence
		LEFT JOIN gtfs_directions d ON d.direction_id = t.direction_id
		WHERE t.service_id IN (?)
			AND o.departure_time_seconds BETWEEN ? AND ?
		ORDER BY ABS(o.departure_time_seconds - ?) LIMIT 1`,
		originID, destinationID, services, depSecs-window, depSecs+window, depSecs)
	if err != nil {
		return nil, fmt.Errorf("trip %s -> %s: %w", originID, destinationID, err)
	}

	var row tripRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("trip %s -> %s: %w", originID, destinationID, err)
	}
	return s.loadTrip(ctx, row, date)
}

// loadTrip attaches the ordered stop-time sequence to a trip row
func (s *SQLStore) loadTrip(ctx context.Context, row tripRow, date int) (*Trip, error) {
	var sts []stopTimeRow
	q := `SELECT ` + stopColumns + `,
			st.arrival_time_seconds, st.departure_time_seconds, st.stop_sequence
		FROM gtfs_stop_times st
		JOIN gtfs_stops s ON s.stop_id = st.stop_id
		LEFT JOIN rt_stops_extra e ON e.stop_id = st.stop_id
		WHERE st.trip_id = ?
		ORDER BY st.stop_sequence`
	if err := s.db.SelectContext(ctx, &sts, q, row.ID); err != nil {
		return nil, fmt.Errorf("stop times for trip %s: %w", row.ID, err)
	}

	trip := &Trip{
		ID:          row.ID,
		ShortName:   row.ShortName.String,
		Direction:   row.Direction.String,
		ServiceDate: date,
	}
	for _, st := range sts {
		trip.StopTimes = append(trip.StopTimes, StopTime{
			Stop:          *st.stop(),
			ArrivalSecs:   st.ArrivalSecs,
			DepartureSecs: st.DepartureSecs,
			Sequence:      st.Sequence,
			Date:          date,
		})
	}
	return trip, nil
}

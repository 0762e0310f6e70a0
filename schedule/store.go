package schedule

import (
	"context"
	"time"
)

// Store is the schedule query interface consumed by the reconciler. Absent
// rows are returned as (nil, nil); a non-nil error always indicates a query
// failure, never a miss.
type Store interface {
	// GetStop returns the stop with the given id.
	GetStop(ctx context.Context, id string) (*Stop, error)

	// GetStopByName returns the stop whose name matches, trying an exact
	// match, then case-insensitive, then prefix.
	GetStopByName(ctx context.Context, name string) (*Stop, error)

	// GetTripByDeparture returns the trip departing origin for destination
	// closest to the given departure time, with its full stop-time sequence.
	GetTripByDeparture(ctx context.Context, originID, destinationID string, departure time.Time) (*Trip, error)

	// GetTripByShortName returns the trip with the given short name running
	// on the YYYYMMDD service date.
	GetTripByShortName(ctx context.Context, shortName string, date int) (*Trip, error)
}

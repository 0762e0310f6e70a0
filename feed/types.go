package feed

import (
	"sort"
	"time"

	"github.com/theoremus-urban-solutions/mnr-feed/schedule"
)

// Status is the normalized real-time status of a departure
type Status struct {
	Status       string    `json:"status"`
	Delay        int       `json:"delay"` // minutes
	EstDeparture time.Time `json:"estDeparture"`
	Track        string    `json:"track,omitempty"`
	Remarks      string    `json:"remarks,omitempty"`
}

// Departure is one upcoming departure from the origin station. Trip is nil
// when the real-time record could not be matched to a scheduled trip.
type Departure struct {
	Departure   time.Time      `json:"departure"` // scheduled
	Destination schedule.Stop  `json:"destination"`
	Trip        *schedule.Trip `json:"trip,omitempty"`
	Status      Status         `json:"status"`
}

// StationFeed is the ordered departure list for one station
type StationFeed struct {
	Origin     schedule.Stop `json:"origin"`
	Updated    time.Time     `json:"updated"`
	Departures []Departure   `json:"departures"`
}

// VehicleStatus is a vehicle's motion state. The integer values mirror the
// feed's current_status enum and must not be reordered.
type VehicleStatus int

const (
	IncomingAt  VehicleStatus = 0
	StoppedAt   VehicleStatus = 1
	InTransitTo VehicleStatus = 2
)

func (s VehicleStatus) String() string {
	switch s {
	case IncomingAt:
		return "INCOMING_AT"
	case StoppedAt:
		return "STOPPED_AT"
	case InTransitTo:
		return "IN_TRANSIT_TO"
	}
	return "UNKNOWN"
}

// VehiclePosition is a vehicle's live position and motion state
type VehiclePosition struct {
	Lat     float64        `json:"lat"`
	Lon     float64        `json:"lon"`
	Updated time.Time      `json:"updated"`
	Status  VehicleStatus  `json:"status"`
	Stop    *schedule.Stop `json:"stop,omitempty"`
}

// VehicleStopTime is one remaining stop of a moving vehicle, with live
// arrival/departure in GTFS seconds where reported (-1 when absent).
type VehicleStopTime struct {
	Stop          schedule.Stop `json:"stop"`
	ArrivalSecs   int           `json:"arrivalSecs"`
	DepartureSecs int           `json:"departureSecs"`
	Sequence      int           `json:"sequence"`
	Date          int           `json:"date"`
}

// VehicleFeed is one trip's live vehicle record with its remaining stops,
// starting at the vehicle's current stop.
type VehicleFeed struct {
	TripID   string            `json:"tripId"`
	Position VehiclePosition   `json:"position"`
	Trip     *schedule.Trip    `json:"trip,omitempty"`
	Stops    []VehicleStopTime `json:"stops"`
}

// sortDepartures orders departures by scheduled time ascending. Ties break
// by destination name, then trip id, so the order is total and stable across
// runs rather than an accident of resolution order.
func sortDepartures(deps []Departure) {
	sort.Slice(deps, func(i, j int) bool {
		a, b := deps[i], deps[j]
		if !a.Departure.Equal(b.Departure) {
			return a.Departure.Before(b.Departure)
		}
		if a.Destination.Name != b.Destination.Name {
			return a.Destination.Name < b.Destination.Name
		}
		return tripID(a.Trip) < tripID(b.Trip)
	})
}

func tripID(t *schedule.Trip) string {
	if t == nil {
		return ""
	}
	return t.ID
}

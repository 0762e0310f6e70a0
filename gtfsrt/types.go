package gtfsrt

import "time"

// StopRecord is one (trip, stop) pair reported by the full feed
type StopRecord struct {
	StopID    string
	TripID    string
	Date      int // YYYYMMDD service date from the trip descriptor
	Arrival   time.Time
	Departure time.Time
	Track     string
	Status    string
	Sequence  int
}

// VehicleRecord is a trip's live vehicle position
type VehicleRecord struct {
	Lat     float64
	Lon     float64
	Status  int // GTFS-RT VehicleStopStatus: 0=INCOMING_AT 1=STOPPED_AT 2=IN_TRANSIT_TO
	StopID  string
	Updated time.Time
}

// TripRecord is one trip from the full feed with its ordered stop records
// and, when reported, its vehicle position.
type TripRecord struct {
	ID          string // trip short name (feed entity id)
	Date        int
	Route       string
	Destination string // last reported stop id
	Stops       []StopRecord
	Vehicle     *VehicleRecord
}

// Feed is the normalized full feed, indexed by trip and by stop
type Feed struct {
	Updated time.Time
	Trips   map[string]*TripRecord
	Stops   map[string][]StopRecord
}

// DelayRecord is one trip's reported delay at a stop, in whole minutes.
// Delay-only records corroborate a status computed from another source;
// they never originate a departure on their own.
type DelayRecord struct {
	Trip  string
	Delay int
}

// DelayFeed maps stop ids to the delay records reported for them
type DelayFeed map[string][]DelayRecord

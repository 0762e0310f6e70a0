package schedule

// Stop is a scheduled station. A Stop with an empty ID is synthesized from a
// real-time destination name that could not be matched against the database;
// synthesized stops are never persisted.
type Stop struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	StatusID string  `json:"statusId"`
}

// Synthesized reports whether the stop was built from a raw feed name
// rather than read from the database.
func (s Stop) Synthesized() bool { return s.ID == "" }

// StopTime is one timetabled call of a trip. Arrival and departure are GTFS
// seconds since midnight of the service date and may exceed 24 hours for
// post-midnight calls.
type StopTime struct {
	Stop          Stop `json:"stop"`
	ArrivalSecs   int  `json:"arrivalSecs"`
	DepartureSecs int  `json:"departureSecs"`
	Sequence      int  `json:"sequence"`
	Date          int  `json:"date"`
}

// Trip is a scheduled trip with its ordered stop-times
type Trip struct {
	ID          string     `json:"id"`
	ShortName   string     `json:"shortName"`
	Direction   string     `json:"direction"`
	ServiceDate int        `json:"serviceDate"`
	StopTimes   []StopTime `json:"stopTimes"`
}

// Destination returns the trip's final stop-time, or nil for an empty trip
func (t *Trip) Destination() *StopTime {
	if len(t.StopTimes) == 0 {
		return nil
	}
	return &t.StopTimes[len(t.StopTimes)-1]
}

// StopTimeAt returns the trip's stop-time at the given stop, or nil
func (t *Trip) StopTimeAt(stopID string) *StopTime {
	for i := range t.StopTimes {
		if t.StopTimes[i].Stop.ID == stopID {
			return &t.StopTimes[i]
		}
	}
	return nil
}

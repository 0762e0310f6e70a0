package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/theoremus-urban-solutions/mnr-feed/gtfsrt"
	"github.com/theoremus-urban-solutions/mnr-feed/rterr"
	"github.com/theoremus-urban-solutions/mnr-feed/schedule"
	"github.com/theoremus-urban-solutions/mnr-feed/timeutil"
)

// LoadVehicleFeeds builds a vehicle feed for every trip in the decoded
// fleet-wide feed that reports a live position. Per-trip build failures are
// logged and skipped; a feed-level failure aborts the request.
func (s *Service) LoadVehicleFeeds(ctx context.Context) ([]VehicleFeed, error) {
	f, err := s.loadFullFeed(ctx)
	if err != nil {
		return nil, err
	}

	tripIDs := make([]string, 0, len(f.Trips))
	for id, rec := range f.Trips {
		if rec.Vehicle != nil {
			tripIDs = append(tripIDs, id)
		}
	}
	sort.Strings(tripIDs)

	slots := make([]*VehicleFeed, len(tripIDs))
	var wg sync.WaitGroup
	for i, id := range tripIDs {
		wg.Add(1)
		go func(i int, rec *gtfsrt.TripRecord) {
			defer wg.Done()
			vf, err := s.buildVehicleFeed(ctx, rec)
			if err != nil {
				s.log.Warnw("could not build vehicle feed", "trip", rec.ID, "error", err)
				return
			}
			slots[i] = vf
		}(i, f.Trips[id])
	}
	wg.Wait()

	feeds := make([]VehicleFeed, 0, len(slots))
	for _, vf := range slots {
		if vf != nil {
			feeds = append(feeds, *vf)
		}
	}
	return feeds, nil
}

// buildVehicleFeed resolves one trip's vehicle record: current stop,
// scheduled trip, and the remaining stop list starting at (and including)
// the vehicle's current stop.
func (s *Service) buildVehicleFeed(ctx context.Context, rec *gtfsrt.TripRecord) (*VehicleFeed, error) {
	date := rec.Date
	if date == 0 {
		date = timeutil.ServiceDate(s.now(), s.loc)
	}

	var currentStop *schedule.Stop
	if rec.Vehicle.StopID != "" {
		st, err := s.store.GetStop(ctx, rec.Vehicle.StopID)
		if err != nil {
			return nil, rterr.ScheduleLookup("vehicle stop lookup", err)
		}
		currentStop = st
	}

	trip, err := s.store.GetTripByShortName(ctx, rec.ID, date)
	if err != nil {
		return nil, rterr.ScheduleLookup("vehicle trip lookup", err)
	}

	updated := rec.Vehicle.Updated
	if updated.IsZero() {
		updated = s.now()
	}
	position := VehiclePosition{
		Lat:     rec.Vehicle.Lat,
		Lon:     rec.Vehicle.Lon,
		Updated: updated,
		Status:  VehicleStatus(rec.Vehicle.Status),
		Stop:    currentStop,
	}

	// Everything before the vehicle's current stop has already happened;
	// the remaining list starts at the current stop itself.
	var stops []VehicleStopTime
	reached := false
	for i, st := range rec.Stops {
		if st.StopID == rec.Vehicle.StopID {
			reached = true
		}
		if !reached {
			continue
		}
		stop, err := s.store.GetStop(ctx, st.StopID)
		if err != nil {
			s.log.Warnw("vehicle stop-time lookup failed", "trip", rec.ID,
				"stop", st.StopID, "error", err)
		}
		if stop == nil {
			stop = &schedule.Stop{Name: st.StopID}
		}
		vst := VehicleStopTime{
			Stop:          *stop,
			ArrivalSecs:   -1,
			DepartureSecs: -1,
			Sequence:      i + 1,
			Date:          date,
		}
		if !st.Arrival.IsZero() {
			vst.ArrivalSecs = timeutil.ToGTFSSeconds(st.Arrival, date, s.loc)
		}
		if !st.Departure.IsZero() {
			vst.DepartureSecs = timeutil.ToGTFSSeconds(st.Departure, date, s.loc)
		}
		stops = append(stops, vst)
	}

	return &VehicleFeed{
		TripID:   rec.ID,
		Position: position,
		Trip:     trip,
		Stops:    stops,
	}, nil
}

package feed

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/mnr-feed/gtfsrt"
	"github.com/theoremus-urban-solutions/mnr-feed/rterr"
	"github.com/theoremus-urban-solutions/mnr-feed/schedule"
	"github.com/theoremus-urban-solutions/mnr-feed/timeutil"
	"github.com/theoremus-urban-solutions/mnr-feed/traintime"
)

// LoadStationFeed builds the ordered departure list for the origin stop from
// the configured real-time source joined with the schedule database.
func (s *Service) LoadStationFeed(ctx context.Context, origin schedule.Stop) (*StationFeed, error) {
	if origin.StatusID == "-1" {
		return nil, rterr.UnsupportedStation()
	}

	if res, ok := s.stationCache.Get(stationKeyPrefix + origin.ID); ok {
		return &StationFeed{Origin: origin, Updated: res.Updated, Departures: res.Departures}, nil
	}

	var fd *StationFeed
	var err error
	switch s.cfg.Feed.Source {
	case "full":
		fd, err = s.loadStationFeedRT(ctx, origin)
	default:
		fd, err = s.loadStationFeedHTML(ctx, origin)
	}
	if err != nil {
		return nil, err
	}

	s.stationCache.Put(stationKeyPrefix+origin.ID,
		stationResult{Updated: fd.Updated, Departures: fd.Departures},
		s.cfg.StationPageTTL())
	return fd, nil
}

// loadStationFeedHTML builds departures from the station's TrainTime page,
// corroborated by the delay-only feed.
func (s *Service) loadStationFeedHTML(ctx context.Context, origin schedule.Stop) (*StationFeed, error) {
	delays := s.loadDelays(ctx)[origin.ID]

	body, err := s.client.Get(ctx, s.cfg.StationURL(origin.StatusID))
	if err != nil {
		kind := rterr.KindNetwork
		if rterr.IsTimeout(err) {
			kind = rterr.KindTimeout
		}
		return nil, rterr.Wrap(5003, "Could Not Parse Station Data",
			"The API Server did not get a response from the MTA TrainTime page. Please try again later.",
			kind, err)
	}

	remarksStation := origin.StatusID == s.cfg.Feed.StationPage.RemarksStatusID
	page, err := traintime.Parse(body, origin.StatusID, remarksStation)
	if err != nil {
		return nil, err
	}

	departures := fanOut(len(page.Rows), func(i int) (*Departure, error) {
		return s.buildDeparture(ctx, origin, page.Rows[i], delays)
	}, s.dropLogger(origin))
	sortDepartures(departures)

	return &StationFeed{Origin: origin, Updated: s.now(), Departures: departures}, nil
}

// buildDeparture resolves one page row against the schedule database
func (s *Service) buildDeparture(ctx context.Context, origin schedule.Stop, row traintime.Row, delays []gtfsrt.DelayRecord) (*Departure, error) {
	date := timeutil.DateInt(s.now().In(s.loc))
	dep, err := timeutil.ParseClock(row.Time, date, s.loc)
	if err != nil {
		return nil, err
	}

	destination := s.resolveDestinationByName(ctx, row.Destination)

	var trip *schedule.Trip
	if !destination.Synthesized() {
		trip, err = s.store.GetTripByDeparture(ctx, origin.ID, destination.ID, dep)
		if err != nil {
			// Keep the departure; only the schedule match degrades.
			s.log.Warnw("trip lookup failed", "origin", origin.ID,
				"destination", destination.ID, "error", rterr.ScheduleLookup("trip by departure", err))
			trip = nil
		}
	}

	label, delay := row.Status, row.Delay
	if trip != nil {
		for _, d := range delays {
			if d.Trip == trip.ShortName {
				label, delay = ReconcileDelays(delay, d.Delay)
			}
		}
	}

	return &Departure{
		Departure:   dep,
		Destination: destination,
		Trip:        trip,
		Status: Status{
			Status:       label,
			Delay:        delay,
			EstDeparture: dep.Add(time.Duration(delay) * time.Minute),
			Track:        row.Track,
			Remarks:      row.Remarks,
		},
	}, nil
}

// loadStationFeedRT builds departures for the origin from the full protobuf
// feed's per-stop records.
func (s *Service) loadStationFeedRT(ctx context.Context, origin schedule.Stop) (*StationFeed, error) {
	f, err := s.loadFullFeed(ctx)
	if err != nil {
		return nil, err
	}
	records := f.Stops[origin.ID]
	delays := s.loadDelays(ctx)[origin.ID]

	departures := fanOut(len(records), func(i int) (*Departure, error) {
		return s.buildDepartureRT(ctx, origin, f, records[i], delays)
	}, s.dropLogger(origin))
	sortDepartures(departures)

	return &StationFeed{Origin: origin, Updated: f.Updated, Departures: departures}, nil
}

// buildDepartureRT resolves one full-feed stop record. A nil, nil return
// means the record was filtered out, not that resolution failed.
func (s *Service) buildDepartureRT(ctx context.Context, origin schedule.Stop, f *gtfsrt.Feed, rec gtfsrt.StopRecord, delays []gtfsrt.DelayRecord) (*Departure, error) {
	destID := ""
	if tr := f.Trips[rec.TripID]; tr != nil {
		destID = tr.Destination
	}
	destination := s.resolveDestinationByID(ctx, destID)

	date := rec.Date
	if date == 0 {
		date = timeutil.ServiceDate(s.now(), s.loc)
	}
	trip, err := s.store.GetTripByShortName(ctx, rec.TripID, date)
	if err != nil {
		s.log.Warnw("trip lookup failed", "trip", rec.TripID,
			"error", rterr.ScheduleLookup("trip by short name", err))
		trip = nil
	}

	estimated := rec.Departure
	if estimated.IsZero() {
		estimated = rec.Arrival
	}
	var scheduled time.Time
	if trip != nil {
		if st := trip.StopTimeAt(origin.ID); st != nil {
			scheduled = timeutil.FromGTFSSeconds(st.Date, st.DepartureSecs, s.loc)
		}
	}
	delay := 0
	if !scheduled.IsZero() && !estimated.IsZero() {
		delay = int(estimated.Sub(scheduled) / time.Minute)
	} else if scheduled.IsZero() {
		// No schedule match: the live-reported time stands in for the
		// scheduled one and the delay is defined as zero.
		scheduled = estimated
	}

	if s.filterRecord(origin, destID, rec.Status, scheduled) {
		return nil, nil
	}

	hasRealtime := !estimated.IsZero()
	label := Classify(rec.Status, delay, hasRealtime)
	if label != "Departed" {
		for _, d := range delays {
			if d.Trip == rec.TripID {
				label, delay = ReconcileDelays(delay, d.Delay)
			}
		}
	}

	est := estimated
	if est.IsZero() {
		est = scheduled.Add(time.Duration(delay) * time.Minute)
	}

	return &Departure{
		Departure:   scheduled,
		Destination: destination,
		Trip:        trip,
		Status: Status{
			Status:       label,
			Delay:        delay,
			EstDeparture: est,
			Track:        rec.Track,
		},
	}, nil
}

// filterRecord applies the full-generation filtering policy: departed trains
// past the grace period, records beyond the future horizon, and terminal-hub
// self pairs are not real departures.
func (s *Service) filterRecord(origin schedule.Stop, destID, status string, scheduled time.Time) bool {
	now := s.now()
	if strings.EqualFold(status, "Departed") && now.Sub(scheduled) > s.cfg.DepartedGrace() {
		return true
	}
	if scheduled.Sub(now) > s.cfg.FutureHorizon() {
		return true
	}
	hub := s.cfg.Feed.TerminalStopID
	if hub != "" && origin.ID == hub && destID == hub {
		return true
	}
	return false
}

// resolveDestinationByName matches a page destination name against the
// schedule database; an unmatched name yields a synthesized stop so the
// record is never dropped.
func (s *Service) resolveDestinationByName(ctx context.Context, name string) schedule.Stop {
	st, err := s.store.GetStopByName(ctx, name)
	if err != nil {
		s.log.Warnw("destination lookup failed", "name", name,
			"error", rterr.ScheduleLookup("stop by name", err))
	}
	if st == nil {
		return schedule.Stop{Name: name}
	}
	return *st
}

func (s *Service) resolveDestinationByID(ctx context.Context, id string) schedule.Stop {
	if id == "" {
		return schedule.Stop{}
	}
	st, err := s.store.GetStop(ctx, id)
	if err != nil {
		s.log.Warnw("destination lookup failed", "stop", id,
			"error", rterr.ScheduleLookup("stop by id", err))
	}
	if st == nil {
		return schedule.Stop{Name: id}
	}
	return *st
}

// fanOut runs build for each index concurrently and collects the successes
// in index order. A failed or filtered record is dropped from the result;
// failures are reported to onDrop. The barrier waits for every task, so a
// partial result is always a consistent one.
func fanOut(n int, build func(i int) (*Departure, error), onDrop func(i int, err error)) []Departure {
	slots := make([]*Departure, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dep, err := build(i)
			if err != nil {
				onDrop(i, err)
				return
			}
			slots[i] = dep
		}(i)
	}
	wg.Wait()

	out := make([]Departure, 0, n)
	for _, dep := range slots {
		if dep != nil {
			out = append(out, *dep)
		}
	}
	return out
}

func (s *Service) dropLogger(origin schedule.Stop) func(int, error) {
	return func(i int, err error) {
		s.log.Warnw("dropping departure record", "origin", origin.ID, "row", i, "error", err)
	}
}

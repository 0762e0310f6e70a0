package gtfsrt

import (
	"strconv"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/mnr-feed/rterr"
)

// DecodeFeed decodes the full feed into normalized trip and stop indexes.
// The feed's entity ids are the trips' short names.
func DecodeFeed(data []byte) (*Feed, error) {
	if len(data) == 0 {
		return nil, rterr.NoData("The MNR GTFS-RT feed returned an empty response")
	}

	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, rterr.Decode("malformed protocol buffer message", err)
	}

	feed := &Feed{
		Trips: map[string]*TripRecord{},
		Stops: map[string][]StopRecord{},
	}
	if fm.Header != nil && fm.Header.Timestamp != nil {
		feed.Updated = time.Unix(int64(*fm.Header.Timestamp), 0)
	} else {
		feed.Updated = time.Now()
	}

	for _, e := range fm.Entity {
		if e.TripUpdate == nil {
			continue
		}
		tripID := e.GetId()
		rec := &TripRecord{ID: tripID}

		if trip := e.TripUpdate.Trip; trip != nil {
			rec.Route = trip.GetRouteId()
			if d, err := strconv.Atoi(trip.GetStartDate()); err == nil {
				rec.Date = d
			}
		}

		for j, stu := range e.TripUpdate.StopTimeUpdate {
			if stu.StopId == nil {
				continue
			}
			sr := StopRecord{
				StopID:   *stu.StopId,
				TripID:   tripID,
				Date:     rec.Date,
				Sequence: j,
			}
			if stu.Arrival != nil && stu.Arrival.Time != nil {
				sr.Arrival = time.Unix(*stu.Arrival.Time, 0)
			}
			if stu.Departure != nil && stu.Departure.Time != nil {
				sr.Departure = time.Unix(*stu.Departure.Time, 0)
			}
			sr.Track, sr.Status = foldStatusEntries(stu.ProtoReflect().GetUnknown())
			if sr.Status == "On-Time" {
				sr.Status = "On Time"
			}
			rec.Stops = append(rec.Stops, sr)
			feed.Stops[sr.StopID] = append(feed.Stops[sr.StopID], sr)
		}
		if len(rec.Stops) > 0 {
			rec.Destination = rec.Stops[len(rec.Stops)-1].StopID
		}

		if v := e.Vehicle; v != nil && v.Position != nil &&
			v.Position.Latitude != nil && v.Position.Longitude != nil {
			vr := &VehicleRecord{
				Lat:    float64(*v.Position.Latitude),
				Lon:    float64(*v.Position.Longitude),
				Status: int(v.GetCurrentStatus()),
				StopID: v.GetStopId(),
			}
			if v.Timestamp != nil {
				vr.Updated = time.Unix(int64(*v.Timestamp), 0)
			} else {
				vr.Updated = feed.Updated
			}
			rec.Vehicle = vr
		}

		feed.Trips[tripID] = rec
	}

	return feed, nil
}

// DecodeDelays decodes the delay-only feed generation. Stop-time updates
// lacking a stop id or a departure delay are skipped.
func DecodeDelays(data []byte) (DelayFeed, error) {
	if len(data) == 0 {
		return nil, rterr.NoData("The MNR GTFS-RT delay feed returned an empty response")
	}

	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, rterr.Decode("malformed protocol buffer message", err)
	}

	delays := DelayFeed{}
	for _, e := range fm.Entity {
		if e.TripUpdate == nil {
			continue
		}
		shortName := e.GetId()
		for _, stu := range e.TripUpdate.StopTimeUpdate {
			if stu.StopId == nil || stu.Departure == nil || stu.Departure.Delay == nil {
				continue
			}
			delays[*stu.StopId] = append(delays[*stu.StopId], DelayRecord{
				Trip:  shortName,
				Delay: int(*stu.Departure.Delay) / 60,
			})
		}
	}
	return delays, nil
}

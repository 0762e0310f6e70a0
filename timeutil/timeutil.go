package timeutil

import (
	"fmt"
	"time"
)

// Trains departing between midnight and the rollover hour run against the
// previous service date, with GTFS times past 24:00:00.
const rolloverHour = 4

var clockLayouts = []string{
	"3:04 PM",
	"03:04 PM",
	"3:04PM",
	"15:04:05",
	"15:04",
}

// Location resolves an IANA timezone name
func Location(tz string) (*time.Location, error) {
	return time.LoadLocation(tz)
}

// DateInt returns t's calendar date as YYYYMMDD
func DateInt(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// ServiceDate returns the operating date for t as YYYYMMDD: before the
// rollover hour the previous calendar date is still in service.
func ServiceDate(t time.Time, loc *time.Location) int {
	return DateInt(t.In(loc).Add(-rolloverHour * time.Hour))
}

// Midnight returns the start of the YYYYMMDD date in loc
func Midnight(dateInt int, loc *time.Location) time.Time {
	y := dateInt / 10000
	m := time.Month(dateInt / 100 % 100)
	d := dateInt % 100
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseClock parses a wall-clock string ("10:45 AM" or "22:45") against the
// YYYYMMDD date in loc.
func ParseClock(clock string, dateInt int, loc *time.Location) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			mid := Midnight(dateInt, loc)
			return mid.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable clock value %q", clock)
}

// FromGTFSSeconds converts GTFS seconds-since-midnight on the given service
// date to an absolute time. Values past 86400 land on the next calendar day.
func FromGTFSSeconds(dateInt, secs int, loc *time.Location) time.Time {
	return Midnight(dateInt, loc).Add(time.Duration(secs) * time.Second)
}

// ToGTFSSeconds converts an absolute time to GTFS seconds-since-midnight of
// the given service date; a post-midnight t on the next calendar day yields a
// value past 86400.
func ToGTFSSeconds(t time.Time, dateInt int, loc *time.Location) int {
	return int(t.Sub(Midnight(dateInt, loc)) / time.Second)
}

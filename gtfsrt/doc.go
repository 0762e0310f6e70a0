// Package gtfsrt decodes the railroad's GTFS-Realtime protobuf feeds into
// normalized records.
//
// Two feed generations exist:
//   - the full feed: trip updates with arrival/departure epochs plus
//     railroad status extension entries (track, train status) and vehicle
//     positions
//   - the delay-only feed: trip updates carrying only departure delays
//
// Both decode paths are pure functions of the input bytes.
package gtfsrt

// Package schedule provides read-only access to the agency's compiled GTFS
// schedule database: stop metadata and timetabled trips. The database is
// owned by the host framework's build tooling; this package only queries it.
package schedule

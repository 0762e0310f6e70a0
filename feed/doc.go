// Package feed reconciles the agency's scheduled service with its real-time
// sources into ordered, de-duplicated departure and vehicle lists.
//
// Station mode joins the per-station real-time records (HTML status page or
// the full protobuf feed, selected by configuration) with the schedule
// database, corroborated by the delay-only feed where configured. Fleet mode
// builds per-trip vehicle positions with their remaining stops.
//
// Per-record resolution failures degrade that record only; feed-level
// failures abort the request with a structured error.
package feed

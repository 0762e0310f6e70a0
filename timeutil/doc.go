// Package timeutil converts between wall-clock strings, epoch timestamps and
// GTFS seconds-since-midnight values in the agency's timezone, honoring the
// late-night service day rollover.
package timeutil

// Package traintime parses the railroad's per-station TrainTime status page
// into departure rows. The page is a plain HTML table: time, destination,
// track, and either a status text or (for remarks stations) a free-text
// remarks cell.
package traintime

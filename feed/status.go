package feed

import (
	"fmt"
	"strconv"
	"strings"
)

// Classify maps a raw status token and a reconciled delay to the canonical
// status label. Pure function; the label is always derived from its inputs,
// never hand-authored per call site.
func Classify(raw string, delay int, hasRealtime bool) string {
	switch {
	case strings.EqualFold(strings.TrimSpace(raw), "Departed"):
		return "Departed"
	case !hasRealtime:
		return "Scheduled"
	case delay == 0:
		return "On Time"
	default:
		return "Late " + strconv.Itoa(delay)
	}
}

// ReconcileDelays merges the primary source's delay with the one reported by
// an independent secondary source. When both are zero the trip is on time;
// when exactly one is nonzero it is adopted; when both are nonzero and they
// disagree, the label shows the low-high range and the smaller value is
// adopted for the numeric delay and the estimated time. Adopting the minimum
// matches how the upstream feeds have historically resolved the conflict.
func ReconcileDelays(local, remote int) (string, int) {
	switch {
	case local == 0 && remote == 0:
		return "On Time", 0
	case local == 0:
		return "Late " + strconv.Itoa(remote), remote
	case remote == 0:
		return "Late " + strconv.Itoa(local), local
	case local == remote:
		return "Late " + strconv.Itoa(local), local
	case local < remote:
		return fmt.Sprintf("Late %d-%d", local, remote), local
	default:
		return fmt.Sprintf("Late %d-%d", remote, local), remote
	}
}

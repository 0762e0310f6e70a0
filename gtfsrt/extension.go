package gtfsrt

import "google.golang.org/protobuf/encoding/protowire"

// The railroad's feed extends StopTimeUpdate with repeated status entries
// carrying the platform track and a train status string. The standard
// bindings keep the extension in the message's unknown fields, so the
// entries are walked with protowire.
const (
	statusEntryField = 1005
	trackField       = 1
	trainStatusField = 2
)

// foldStatusEntries folds a stop-time update's status entries into a single
// (track, status) pair: the last non-empty track and the last non-empty
// train status win, independently of each other.
func foldStatusEntries(unknown []byte) (track, status string) {
	b := unknown
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return
		}
		b = b[n:]
		if num == statusEntryField && typ == protowire.BytesType {
			payload, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return
			}
			b = b[n:]
			t, s := parseStatusEntry(payload)
			if t != "" {
				track = t
			}
			if s != "" {
				status = s
			}
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return
		}
		b = b[n:]
	}
	return
}

func parseStatusEntry(b []byte) (track, status string) {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return
		}
		b = b[n:]
		if typ == protowire.BytesType && (num == trackField || num == trainStatusField) {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return
			}
			b = b[n:]
			switch num {
			case trackField:
				track = string(v)
			case trainStatusField:
				status = string(v)
			}
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return
		}
		b = b[n:]
	}
	return
}

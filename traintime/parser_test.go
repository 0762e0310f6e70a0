package traintime

import (
	"strings"
	"testing"

	"github.com/theoremus-urban-solutions/mnr-feed/rterr"
)

const statusPage = `<html><body>
<div class="nav"><table><tr><td>navigation chrome</td></tr></table></div>
<table id="departures">
<tr><th>Time</th><th>To</th><th>Track</th><th>Status</th></tr>
<tr><td>10:45 AM</td><td>Poughkeepsie</td><td>32</td><td>On Time</td></tr>
<tr><td>10:52 AM</td><td>New Haven</td><td></td><td>Late 12 min</td></tr>
<tr><td colspan="4">service advisory</td></tr>
<tr><td>11:07 AM</td><td>Southeast</td><td>110</td><td>Departed</td></tr>
</table>
</body></html>`

func TestParse(t *testing.T) {
	page, err := Parse([]byte(statusPage), "12", false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Header and short rows are skipped; the nav table is not the one parsed.
	if len(page.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(page.Rows))
	}

	tests := []struct {
		idx         int
		time, dest  string
		track       string
		status      string
		delay       int
	}{
		{0, "10:45 AM", "Poughkeepsie", "32", "On Time", 0},
		{1, "10:52 AM", "New Haven", "", "Late 12", 12},
		{2, "11:07 AM", "Southeast", "110", "Departed", 0},
	}
	for _, tt := range tests {
		row := page.Rows[tt.idx]
		if row.Time != tt.time || row.Destination != tt.dest ||
			row.Track != tt.track || row.Status != tt.status || row.Delay != tt.delay {
			t.Errorf("row %d = %+v, want {%s %s %s %s %d}",
				tt.idx, row, tt.time, tt.dest, tt.track, tt.status, tt.delay)
		}
	}
}

func TestParseLastTableWins(t *testing.T) {
	page := `<html><body>
<table>
<tr><th>Time</th><th>To</th><th>Track</th><th>Status</th></tr>
<tr><td>9:00 AM</td><td>Stale Layout</td><td>1</td><td>On Time</td></tr>
</table>
<table>
<tr><th>Time</th><th>To</th><th>Track</th><th>Status</th></tr>
<tr><td>9:15 AM</td><td>Wassaic</td><td>42</td><td>On Time</td></tr>
</table>
</body></html>`
	parsed, err := Parse([]byte(page), "1", false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Rows) != 1 || parsed.Rows[0].Destination != "Wassaic" {
		t.Errorf("rows = %+v, want the single row of the last table", parsed.Rows)
	}
}

func TestParseRemarksStation(t *testing.T) {
	page := `<html><body><table>
<tr><th>Time</th><th>To</th><th>Track</th><th>Remarks</th></tr>
<tr><td>5:10 PM</td><td>Stamford</td><td>107</td><td>Track&nbsp;&amp;&nbsp;gate   posted</td></tr>
</table></body></html>`
	parsed, err := Parse([]byte(page), "1", true)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(parsed.Rows))
	}
	row := parsed.Rows[0]
	if row.Status != "Scheduled" {
		t.Errorf("remarks station status = %q, want Scheduled", row.Status)
	}
	if row.Remarks != "Track & gate posted" {
		t.Errorf("remarks = %q, want entities substituted and whitespace collapsed", row.Remarks)
	}
}

func TestParseEmptyBody(t *testing.T) {
	_, err := Parse(nil, "12", false)
	if err == nil {
		t.Fatal("expected error for empty body")
	}
	if !rterr.IsUpstream(err) {
		t.Errorf("error = %v, want upstream", err)
	}
	want := "The API Server did not get a response from the MTA TrainTime page. Please try again later."
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error message %q does not carry %q", err.Error(), want)
	}
}

func TestParseNoTable(t *testing.T) {
	_, err := Parse([]byte("<html><body><p>scheduled maintenance</p></body></html>"), "44", false)
	if err == nil {
		t.Fatal("expected error for a page without tables")
	}
	if !rterr.IsParse(err) {
		t.Errorf("error = %v, want parse", err)
	}
	if !strings.Contains(err.Error(), "StatusID: 44") {
		t.Errorf("error %q does not name the status id", err.Error())
	}
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		delay    int
	}{
		{"On Time", "On Time", 0},
		{"Departed", "Departed", 0},
		{"Late 5 min", "Late 5", 5},
		{"LATE 12 Min", "Late 12", 12},
		{"late 3", "Late 3", 3},
		{"Late", "Late", 0},
		{"Late unknown", "Late", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			status, delay := ParseDelay(tt.in)
			if status != tt.expected || delay != tt.delay {
				t.Errorf("ParseDelay(%q) = (%q, %d), want (%q, %d)",
					tt.in, status, delay, tt.expected, tt.delay)
			}
		})
	}
}

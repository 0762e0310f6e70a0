package traintime

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/theoremus-urban-solutions/mnr-feed/rterr"
)

// Row is one departure row from the station page table
type Row struct {
	Time        string
	Destination string
	Track       string
	Status      string
	Remarks     string
	Delay       int // minutes, extracted from the status text
}

// Page is a parsed station page
type Page struct {
	Rows []Row
}

// Known artifacts from the upstream page source; a fixed normalization
// table, not business logic.
var remarkSubstitutions = []struct{ from, to string }{
	{"&amp;", "&"},
	{"&nbsp;", " "},
	{"&#39;", "'"},
	{"&quot;", `"`},
}

// Parse parses a station page. The status pages have historically moved the
// departure table around, so the last table on the page is always the one
// parsed. statusID is only used in error messages.
func Parse(data []byte, statusID string, remarksStation bool) (*Page, error) {
	if len(data) == 0 {
		return nil, rterr.Upstream(
			"The API Server did not get a response from the MTA TrainTime page. Please try again later.")
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, rterr.Parse(fmt.Sprintf("TrainTime page (StatusID: %s) could not be parsed", statusID))
	}

	tables := findAll(doc, "table")
	if len(tables) == 0 {
		return nil, rterr.Parse(
			fmt.Sprintf("TrainTime page (StatusID: %s) does not have a table to parse.", statusID))
	}
	table := tables[len(tables)-1]

	page := &Page{}
	rows := findAll(table, "tr")
	for i, tr := range rows {
		if i == 0 {
			continue // header
		}
		cells := findAll(tr, "td")
		if len(cells) < 4 {
			continue
		}

		row := Row{
			Time:        cellText(cells[0]),
			Destination: cellText(cells[1]),
			Track:       cellText(cells[2]),
			Status:      "Scheduled",
		}
		if remarksStation {
			row.Remarks = substituteRemarks(cellText(cells[3]))
		} else {
			row.Status = cellText(cells[3])
		}
		row.Status, row.Delay = ParseDelay(row.Status)

		page.Rows = append(page.Rows, row)
	}
	return page, nil
}

// ParseDelay extracts a delay minute count from a status text embedding one
// ("Late 5 min"). On a failed parse the bare "Late" label is kept with delay
// 0 rather than failing the row.
func ParseDelay(statusText string) (string, int) {
	if !strings.Contains(strings.ToLower(statusText), "late") {
		return statusText, 0
	}
	s := strings.ToLower(statusText)
	s = strings.ReplaceAll(s, "late", "")
	s = strings.ReplaceAll(s, "min", "")
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.TrimSpace(s)
	delay, err := strconv.Atoi(s)
	if err != nil {
		return "Late", 0
	}
	return "Late " + strconv.Itoa(delay), delay
}

func substituteRemarks(s string) string {
	for _, sub := range remarkSubstitutions {
		s = strings.ReplaceAll(s, sub.from, sub.to)
	}
	return strings.Join(strings.Fields(s), " ")
}

// findAll collects the tag's element nodes in document order
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// cellText returns the node's concatenated text content, trimmed
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

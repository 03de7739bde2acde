package source

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
)

// maxColspan bounds colspan expansion on malformed markup.
const maxColspan = 64

// ExtractTable parses an HTML document and returns its first <table>, treating
// the first row as the header. Rows belonging to nested tables are ignored and
// colspan cells are repeated across the columns they span. The returned
// ParseError carries only the reason; callers fill in source and season.
func ExtractTable(r io.Reader) (*analysis.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Reason: "invalid html", Err: err}
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &ParseError{Reason: "no <table> element found"}
	}

	var rows [][]string
	table.Find("tr").
		FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return tr.Closest("table").IsSelection(table)
		}).
		Each(func(_ int, tr *goquery.Selection) {
			cells := tr.ChildrenFiltered("th, td")
			if cells.Length() == 0 {
				return
			}
			row := make([]string, 0, cells.Length())
			cells.Each(func(_ int, c *goquery.Selection) {
				text := strings.TrimSpace(c.Text())
				span := 1
				if v, ok := c.Attr("colspan"); ok {
					if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 1 {
						span = min(n, maxColspan)
					}
				}
				for i := 0; i < span; i++ {
					row = append(row, text)
				}
			})
			rows = append(rows, row)
		})

	if len(rows) == 0 {
		return nil, &ParseError{Reason: "first table has no rows"}
	}
	return &analysis.RawTable{Header: rows[0], Rows: rows[1:]}, nil
}

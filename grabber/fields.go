package grabber

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// RowMapping describes where the fields of one record live inside a table
// row. Sources declare one mapping per kind of row instead of hard coding
// positions in their parsers.
type RowMapping struct {
	// Row selects every record row of the page
	Row cascadia.Selector
	// Link selects the anchor giving both the URL (href) and the name (text)
	Link cascadia.Selector
	// DateCell is the 0-based index of the td holding the date, -1 for none
	DateCell int
}

// rowFields holds the raw values read from one row
type rowFields struct {
	URL     string
	Title   string
	Date    string
	HasDate bool
}

// parseDocument never fails: markup that cannot be read yields an empty
// document, so every lookup below degrades to a zero value.
func parseDocument(raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}

// walkRows applies m to doc and calls fn with the fields of every row in
// document order.
func walkRows(doc *goquery.Document, m RowMapping, fn func(rowFields)) {
	doc.FindMatcher(m.Row).Each(func(_ int, row *goquery.Selection) {
		var f rowFields

		if link := row.FindMatcher(m.Link).First(); link.Length() > 0 {
			f.URL = attr(link, "href")
			f.Title = text(link)
		}

		if m.DateCell >= 0 {
			if cell := cellAt(row, m.DateCell); cell.Length() > 0 {
				f.Date = text(cell)
				f.HasDate = true
			}
		}

		fn(f)
	})
}

// text returns the text of s with runs of whitespace collapsed to one space
func text(s *goquery.Selection) string {
	return collapseSpace(s.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// attr returns the attribute value of the first element in s, or "" if
// either is missing
func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

// cellAt returns the td at index i of row, or an empty selection
func cellAt(row *goquery.Selection, i int) *goquery.Selection {
	return row.Find("td").Eq(i)
}

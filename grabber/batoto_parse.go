package grabber

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

const (
	batotoNoResults    = "no (more) comics found!"
	batotoComplete     = "<td>Complete</td>"
	batotoOngoing      = "<td>Ongoing</td>"
	batotoDescLabel    = "Description:"
	batotoImageMarker  = `<img id="comic_page"`
	batotoImageClosing = "</a>"
)

var (
	batotoSeriesRows = RowMapping{
		Row:      cascadia.MustCompile("tr:not([id]):not([class])"),
		Link:     cascadia.MustCompile(`a[href^="http://bato.to"]`),
		DateCell: 5,
	}
	batotoChapterRows = RowMapping{
		Row:      cascadia.MustCompile("tr.row.lang_English.chapter_row"),
		Link:     cascadia.MustCompile(`a[href^="http://bato.to/read/"]`),
		DateCell: 4,
	}

	batotoArtistSel    = cascadia.MustCompile(`a[href^="http://bato.to/search?artist_name"]`)
	batotoGenreSel     = cascadia.MustCompile(`img[src="http://bato.to/forums/public/style_images/master/bullet_black.png"]`)
	batotoThumbnailSel = cascadia.MustCompile(`img[src^="http://img.bato.to/forums/uploads/"]`)
)

func (b *Batoto) ParseListing(html string) []Series {
	return b.parseSeriesList(html)
}

func (b *Batoto) ParseSearchResults(html string) []Series {
	return b.parseSeriesList(html)
}

// parseSeriesList reads one stub per result row. The sentinel page has a
// different table layout, so it is recognized before any selector runs.
func (b *Batoto) parseSeriesList(html string) []Series {
	if strings.Contains(strings.ToLower(html), batotoNoResults) {
		return []Series{}
	}

	series := []Series{}
	walkRows(parseDocument(html), batotoSeriesRows, func(f rowFields) {
		s := Series{
			Source: b.ID(),
			URL:    f.URL,
			Title:  f.Title,
		}
		if f.HasDate {
			s.LastUpdate = ParseDate(f.Date, b.Location)
		}
		series = append(series, s)
	})

	return series
}

func (b *Batoto) ParseDetail(detailURL, html string) Series {
	doc := parseDocument(html)

	s := Series{
		Source:      b.ID(),
		URL:         detailURL,
		Status:      batotoStatus(html),
		Initialized: true,
	}

	artists := doc.FindMatcher(batotoArtistSel)
	if artists.Length() > 0 {
		s.Author = text(artists.Eq(0))
		s.Artist = s.Author
		if artists.Length() > 1 {
			s.Artist = text(artists.Eq(1))
		}
	}

	if row := doc.Find("tr").Eq(5); row.Length() > 0 {
		s.Description = strings.TrimSpace(strings.TrimPrefix(text(row), batotoDescLabel))
	}

	var genres []string
	doc.FindMatcher(batotoGenreSel).Each(func(_ int, img *goquery.Selection) {
		genres = append(genres, attr(img, "alt"))
	})
	s.Genre = strings.Join(genres, ", ")

	if thumb := doc.FindMatcher(batotoThumbnailSel).First(); thumb.Length() > 0 {
		s.ThumbnailURL = attr(thumb, "src")
	}

	return s
}

func batotoStatus(html string) Status {
	switch {
	case strings.Contains(html, batotoComplete):
		return StatusCompleted
	case strings.Contains(html, batotoOngoing):
		return StatusOngoing
	default:
		return StatusUnknown
	}
}

// ParseChapters returns the English chapters in page order (newest first on
// the site). It does not sort.
func (b *Batoto) ParseChapters(html string) []Chapter {
	fetched := b.now().UnixMilli()

	chapters := []Chapter{}
	walkRows(parseDocument(html), batotoChapterRows, func(f rowFields) {
		c := Chapter{
			URL:       f.URL,
			Name:      f.Title,
			DateFetch: fetched,
		}
		if f.HasDate {
			c.DateUpload = ParseDate(f.Date, b.Location)
		}
		chapters = append(chapters, c)
	})

	return chapters
}

// ParsePageURLs returns the option values of the page selector, in order and
// with duplicates kept.
func (b *Batoto) ParsePageURLs(html string) []string {
	pages := []string{}
	parseDocument(html).Find("#page_select").First().Find("option").Each(func(_ int, opt *goquery.Selection) {
		pages = append(pages, attr(opt, "value"))
	})
	return pages
}

// ParseImageURL cuts the page down to the comic_page image and its closing
// anchor before parsing, since the reader page holds several other images.
func (b *Batoto) ParseImageURL(html string) (string, error) {
	begin := strings.Index(html, batotoImageMarker)
	if begin < 0 {
		return "", ErrNotFound
	}
	end := strings.Index(html[begin:], batotoImageClosing)
	if end < 0 {
		return "", ErrNotFound
	}

	img := parseDocument(html[begin : begin+end]).Find("#comic_page").First()
	src, ok := img.Attr("src")
	if !ok {
		return "", ErrNotFound
	}

	return src, nil
}

func (b *Batoto) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

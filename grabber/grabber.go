package grabber

import (
	"errors"
	"net/http"
)

// DefaultUserAgent is sent with every request unless a source overrides it
const DefaultUserAgent = "Mangafeed/1.0"

// ErrNotFound is returned when a structural anchor the parser depends on is
// missing from the page.
var ErrNotFound = errors.New("grabber: element not found")

// Source defines the interface that all site adapters must implement.
//
// URL builders never perform I/O. Parsers are pure functions of the HTML they
// are given and keep no state between calls, so a Source can be shared by
// concurrent callers.
type Source interface {
	// Name is the human readable label of the site
	Name() string
	// ID is the key the source is registered under
	ID() SourceID
	// Headers returns a fresh copy of the headers every request to the site
	// must carry. Callers may add to it.
	Headers() http.Header

	// ListingURL is the URL of the popular listing page (1-based)
	ListingURL(page int) string
	// SearchURL is the URL of a search results page. The query is used
	// verbatim, encoding it is up to the caller.
	SearchURL(query string, page int) string
	// DetailURL rewrites a listing URL into the URL of the detail page. The
	// boolean is false when the listing URL did not have the expected shape,
	// in which case the string is only a best effort.
	DetailURL(listingURL string) (string, bool)

	ParseListing(html string) []Series
	ParseSearchResults(html string) []Series
	// ParseDetail builds a fully initialized series. The URL is taken from
	// detailURL, never from the markup.
	ParseDetail(detailURL, html string) Series
	ParseChapters(html string) []Chapter
	ParsePageURLs(html string) []string
	// ParseImageURL returns ErrNotFound when the page has no image
	ParseImageURL(html string) (string, error)

	// Genres is the static genre catalog of the site
	Genres() []string
}

// Grabber is the base every source embeds. It carries the shared request
// headers.
type Grabber struct {
	UserAgent string
}

// Headers returns the default request headers
func (g *Grabber) Headers() http.Header {
	h := http.Header{}
	ua := g.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	h.Set("User-Agent", ua)
	return h
}

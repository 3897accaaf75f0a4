package grabber

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// BatotoID is the registry key of the Batoto source
	BatotoID SourceID = 1

	batotoName       = "Batoto (EN)"
	batotoListingURL = "http://bato.to/search_ajax?order_cond=views&order=desc&p="
	batotoSearchURL  = "http://bato.to/search_ajax?"
	batotoDetailURL  = "http://bato.to/comic_pop?id="
)

// batotoGenres is the fixed genre catalog of the site, in display order
var batotoGenres = []string{
	"4-Koma",
	"Action",
	"Adventure",
	"Award Winning",
	"Comedy",
	"Cooking",
	"Doujinshi",
	"Drama",
	"Ecchi",
	"Fantasy",
	"Gender Bender",
	"Harem",
	"Historical",
	"Horror",
	"Josei",
	"Martial Arts",
	"Mecha",
	"Medical",
	"Music",
	"Mystery",
	"One Shot",
	"Psychological",
	"Romance",
	"School Life",
	"Sci-fi",
	"Seinen",
	"Shoujo",
	"Shoujo Ai",
	"Shounen",
	"Shounen Ai",
	"Slice of Life",
	"Smut",
	"Sports",
	"Supernatural",
	"Tragedy",
	"Webtoon",
	"Yaoi",
	"Yuri",
}

// Batoto is the source for bato.to
type Batoto struct {
	*Grabber
	// Location is the zone dates on the site are printed in
	Location *time.Location
	// Now stamps Chapter.DateFetch
	Now func() time.Time
}

func NewBatoto(g *Grabber) *Batoto {
	if g == nil {
		g = &Grabber{}
	}
	return &Batoto{Grabber: g, Location: time.UTC, Now: time.Now}
}

func (b *Batoto) Name() string {
	return batotoName
}

func (b *Batoto) ID() SourceID {
	return BatotoID
}

// Headers adds the cookie selecting English listings to the defaults
func (b *Batoto) Headers() http.Header {
	h := b.Grabber.Headers()
	h.Add("Cookie", "lang_option=English")
	return h
}

func (b *Batoto) ListingURL(page int) string {
	return batotoListingURL + strconv.Itoa(page)
}

func (b *Batoto) SearchURL(query string, page int) string {
	return batotoSearchURL + "name=" + query + "&p=" + strconv.Itoa(page)
}

// DetailURL turns ".../comics/some-title-r1234" into the comic_pop page of
// id 1234.
func (b *Batoto) DetailURL(listingURL string) (string, bool) {
	id := listingURL[strings.LastIndex(listingURL, "r")+1:]
	return batotoDetailURL + id, isDigits(id)
}

// Genres returns a copy of the genre catalog
func (b *Batoto) Genres() []string {
	genres := make([]string, len(batotoGenres))
	copy(genres, batotoGenres)
	return genres
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

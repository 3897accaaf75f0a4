package cli

import (
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.sammcclenaghan.com/mangafeed/colors"
	"github.sammcclenaghan.com/mangafeed/grabber"
)

const dateFormat = "2006-01-02 15:04"

// formatDate prints a timestamp in the configured zone. Missing and
// unreadable dates are told apart.
func (app *App) formatDate(ts grabber.Timestamp) string {
	switch ts.State {
	case grabber.DateParsed:
		loc, err := app.Config.Location()
		if err != nil {
			loc = time.UTC
		}
		return time.UnixMilli(ts.Millis).In(loc).Format(dateFormat)
	case grabber.DateMalformed:
		return colors.Dim("unknown date")
	default:
		return colors.Dim("-")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// titleFromURL guesses a series title from the last path segment of a
// listing URL: ".../comics/one-piece-r123" gives "One Piece"
func titleFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}

	slug := path.Base(p)
	if i := strings.LastIndex(slug, "-r"); i >= 0 && isDigits(slug[i+2:]) {
		slug = slug[:i]
	}

	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(words) == 0 || slug == "." || slug == "/" {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// readerID returns the numeric segment of a chapter URL, "1000" for
// ".../read/_/1000/one-piece_by_group"
func readerID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	for _, segment := range strings.Split(u.Path, "/") {
		if isDigits(segment) {
			return segment
		}
	}
	return ""
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

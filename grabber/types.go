package grabber

import (
	"regexp"
	"strconv"
)

// SourceID is the key a source is registered under
type SourceID int64

// Status is the publication status of a series
type Status int

const (
	StatusUnknown Status = iota
	StatusOngoing
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ongoing"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DateState tells how a Timestamp was obtained
type DateState int

const (
	// DateAbsent means there was no date text to parse
	DateAbsent DateState = iota
	// DateMalformed means the text was present but did not parse
	DateMalformed
	// DateParsed means Millis holds a real timestamp
	DateParsed
)

// Timestamp is an epoch milliseconds value that remembers whether it was
// actually parsed. Millis is 0 unless State is DateParsed.
type Timestamp struct {
	Millis int64
	State  DateState
}

// Valid reports whether the timestamp was parsed from markup
func (t Timestamp) Valid() bool {
	return t.State == DateParsed
}

// Series represents a manga series, either a listing stub or a full record
type Series struct {
	Source       SourceID
	URL          string
	Title        string
	Author       string
	Artist       string
	Description  string
	Genre        string
	ThumbnailURL string
	Status       Status
	LastUpdate   Timestamp
	// Initialized is set once the series was built from its detail page
	Initialized bool
}

// Update enriches a listing stub with the record built from its detail
// page. Detail pages carry no title or update date, so the stub keeps its
// own unless the detail has them.
func (s *Series) Update(detail Series) {
	if detail.Source != 0 {
		s.Source = detail.Source
	}
	if detail.URL != "" {
		s.URL = detail.URL
	}
	if detail.Title != "" {
		s.Title = detail.Title
	}
	if detail.LastUpdate.State != DateAbsent {
		s.LastUpdate = detail.LastUpdate
	}

	s.Author = detail.Author
	s.Artist = detail.Artist
	s.Description = detail.Description
	s.Genre = detail.Genre
	s.ThumbnailURL = detail.ThumbnailURL
	s.Status = detail.Status
	s.Initialized = detail.Initialized
}

// Chapter represents a single chapter of a series
type Chapter struct {
	URL        string
	Name       string
	DateUpload Timestamp
	// DateFetch is the wall-clock time of extraction in epoch milliseconds
	DateFetch int64
}

// Page represents a single resolved chapter page
type Page struct {
	Number int64
	URL    string
}

// Filterable interface for objects that can be filtered by number
type Filterable interface {
	GetNumber() float64
	GetTitle() string
}

var chapterNumberRe = regexp.MustCompile(`(?i)\bch(?:apter)?\.?\s*(\d+(?:\.\d+)?)`)

// GetNumber implements Filterable for Chapter. It reads the number out of
// names like "Vol.01 Ch.003: Title" and returns -1 when there is none.
func (c Chapter) GetNumber() float64 {
	m := chapterNumberRe.FindStringSubmatch(c.Name)
	if m == nil {
		return -1
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return -1
	}
	return n
}

// GetTitle implements Filterable for Chapter
func (c Chapter) GetTitle() string {
	return c.Name
}

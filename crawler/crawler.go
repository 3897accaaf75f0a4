// Package crawler walks the paginated listing and search pages of a source.
//
// Pages are requested one at a time and the walk ends on the first empty
// page, which is also what a source returns for its "no more results" page.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.sammcclenaghan.com/mangafeed/grabber"
	"github.sammcclenaghan.com/mangafeed/http"
)

// ErrStop can be returned by a PageFunc to end the walk without error
var ErrStop = errors.New("crawler: stop")

// PageFunc receives the series found on one page
type PageFunc func(page int, series []grabber.Series) error

// Options controls a walk
type Options struct {
	// Query switches from the popular listing to search results
	Query string
	// StartPage defaults to 1
	StartPage int
	// MaxPages bounds the number of pages requested, 0 means no bound
	MaxPages int
	// SkipDegenerate drops entries that have no URL
	SkipDegenerate bool
}

// Crawler drives pagination for one source
type Crawler struct {
	Fetcher http.Fetcher
	Source  grabber.Source
	Logger  *slog.Logger
}

func New(f http.Fetcher, src grabber.Source, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Crawler{Fetcher: f, Source: src, Logger: logger}
}

// Walk fetches pages sequentially, calling fn for every non-empty page. It
// returns the number of pages handed to fn.
func (c *Crawler) Walk(ctx context.Context, opts Options, fn PageFunc) (int, error) {
	page := opts.StartPage
	if page < 1 {
		page = 1
	}

	visited := 0
	for opts.MaxPages == 0 || visited < opts.MaxPages {
		if err := ctx.Err(); err != nil {
			return visited, err
		}

		url := c.pageURL(opts.Query, page)
		body, err := c.Fetcher.Fetch(ctx, url, c.Source.Headers())
		if err != nil {
			return visited, fmt.Errorf("fetch page %d: %w", page, err)
		}

		series := c.parse(opts.Query, body)
		if len(series) == 0 {
			c.Logger.Debug("no more results", "source", c.Source.Name(), "page", page)
			return visited, nil
		}
		if opts.SkipDegenerate {
			series = withURL(series)
		}

		c.Logger.Debug("fetched page", "source", c.Source.Name(), "page", page, "series", len(series))

		visited++
		if err := fn(page, series); err != nil {
			if errors.Is(err, ErrStop) {
				return visited, nil
			}
			return visited, err
		}
		page++
	}

	return visited, nil
}

// Collect walks the pages and returns every series found
func (c *Crawler) Collect(ctx context.Context, opts Options) ([]grabber.Series, error) {
	var all []grabber.Series
	_, err := c.Walk(ctx, opts, func(_ int, series []grabber.Series) error {
		all = append(all, series...)
		return nil
	})
	return all, err
}

func (c *Crawler) pageURL(query string, page int) string {
	if query != "" {
		return c.Source.SearchURL(query, page)
	}
	return c.Source.ListingURL(page)
}

func (c *Crawler) parse(query, body string) []grabber.Series {
	if query != "" {
		return c.Source.ParseSearchResults(body)
	}
	return c.Source.ParseListing(body)
}

func withURL(series []grabber.Series) []grabber.Series {
	out := series[:0:0]
	for _, s := range series {
		if s.URL != "" {
			out = append(out, s)
		}
	}
	return out
}

package downloader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.sammcclenaghan.com/mangafeed/grabber"
	"github.sammcclenaghan.com/mangafeed/http"
)

// DefaultConcurrency is used when a non-positive limit is given
const DefaultConcurrency = 5

// File represents a downloaded file
type File struct {
	Data []byte
	Page uint
	// Ext is the extension of the image, including the dot
	Ext string
}

// Getter opens remote files
type Getter interface {
	Get(ctx context.Context, params http.RequestParams) (io.ReadCloser, error)
}

// ProgressCallback is a function type for progress updates with optional error.
// It is called from several goroutines at once.
type ProgressCallback func(page, progress int, err error)

// ResolvePages fetches every reader page of a chapter and extracts its image
// URL. Pages keep the order of pageURLs and are numbered from 1.
func ResolvePages(ctx context.Context, f http.Fetcher, src grabber.Source, pageURLs []string, concurrency int, onprogress ProgressCallback) ([]grabber.Page, error) {
	pages := make([]grabber.Page, len(pageURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(concurrency))

	for i, pageURL := range pageURLs {
		i, pageURL := i, pageURL
		g.Go(func() error {
			body, err := f.Fetch(ctx, pageURL, src.Headers())
			if err == nil {
				pages[i].URL, err = src.ParseImageURL(body)
			}
			report(onprogress, i+1, err)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i].Number = int64(i + 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// FetchChapter downloads all the pages of a chapter. The first failure
// cancels the remaining downloads.
func FetchChapter(ctx context.Context, getter Getter, src grabber.Source, pages []grabber.Page, concurrency int, onprogress ProgressCallback) ([]*File, error) {
	if len(pages) == 0 {
		return []*File{}, nil
	}

	files := make([]*File, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(concurrency))

	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			file, err := FetchFile(ctx, getter, http.RequestParams{
				URL:     page.URL,
				Headers: src.Headers(),
			}, uint(page.Number))
			report(onprogress, int(page.Number), err)
			if err != nil {
				return fmt.Errorf("page %d: %w", page.Number, err)
			}
			files[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// FetchFile gets an online file returning a new *File with its contents
func FetchFile(ctx context.Context, getter Getter, params http.RequestParams, page uint) (*File, error) {
	body, err := getter.Get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	return &File{
		Data: data,
		Page: page,
		Ext:  imageExt(params.URL),
	}, nil
}

// imageExt returns the extension of the URL path, ".jpg" when there is none
func imageExt(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}

func limit(n int) int {
	if n <= 0 {
		return DefaultConcurrency
	}
	return n
}

func report(onprogress ProgressCallback, page int, err error) {
	if onprogress != nil {
		onprogress(page, 1, err)
	}
}

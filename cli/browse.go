package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.sammcclenaghan.com/mangafeed/colors"
	"github.sammcclenaghan.com/mangafeed/crawler"
	"github.sammcclenaghan.com/mangafeed/grabber"
)

func newPopularCmd(app *App) *cobra.Command {
	var pages, start int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most viewed series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("pages") {
				pages = app.Config.MaxPages
			}
			return app.crawl(cmd, crawler.Options{StartPage: start, MaxPages: pages})
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of listing pages to read, 0 for all")
	cmd.Flags().IntVar(&start, "start", 1, "first listing page")

	return cmd
}

func newSearchCmd(app *App) *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search series by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pages") {
				pages = app.Config.MaxPages
			}
			query := url.QueryEscape(strings.Join(args, " "))
			return app.crawl(cmd, crawler.Options{Query: query, MaxPages: pages})
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of result pages to read, 0 for all")

	return cmd
}

func (app *App) crawl(cmd *cobra.Command, opts crawler.Options) error {
	src, err := app.source()
	if err != nil {
		return err
	}

	total := opts.MaxPages
	if total == 0 {
		total = -1
	}
	bar := newBar(cmd.ErrOrStderr(), total, "reading pages")

	out := cmd.OutOrStdout()
	opts.SkipDegenerate = true
	found := 0

	c := crawler.New(app.Fetcher, src, app.Logger)
	_, err = c.Walk(cmd.Context(), opts, func(_ int, series []grabber.Series) error {
		bar.Add(1)
		for _, s := range series {
			fmt.Fprintf(out, "%s  %s  %s\n", colors.Bold(s.Title), colors.Link(s.URL), app.formatDate(s.LastUpdate))
		}
		found += len(series)
		return nil
	})
	bar.Finish()
	if err != nil {
		return err
	}

	if found == 0 {
		fmt.Fprintln(out, colors.Warning("No series found"))
	}
	return nil
}

func newInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <listing-url>",
		Short: "Show the details of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.source()
			if err != nil {
				return err
			}

			series, _, err := app.fetchDetail(cmd, src, args[0])
			if err != nil {
				return err
			}

			printSeries(cmd.OutOrStdout(), series)
			return nil
		},
	}
}

// fetchDetail resolves a listing URL to its detail page and enriches a stub
// of the series with it. The stub title comes from the URL slug since detail
// pages have none. The raw page is returned too since the chapter list
// lives on it.
func (app *App) fetchDetail(cmd *cobra.Command, src grabber.Source, listingURL string) (grabber.Series, string, error) {
	detailURL, ok := src.DetailURL(listingURL)
	if !ok {
		app.Logger.Warn("unexpected listing url, detail page may be wrong", "url", listingURL, "detail", detailURL)
	}

	body, err := app.Fetcher.Fetch(cmd.Context(), detailURL, src.Headers())
	if err != nil {
		return grabber.Series{}, "", fmt.Errorf("fetch detail page: %w", err)
	}

	series := grabber.Series{Source: src.ID(), URL: listingURL, Title: titleFromURL(listingURL)}
	series.Update(src.ParseDetail(detailURL, body))
	return series, body, nil
}

func printSeries(w io.Writer, s grabber.Series) {
	fmt.Fprintf(w, "%s\n", colors.Bold(orDash(s.Title)))
	fmt.Fprintf(w, "URL:         %s\n", colors.Link(s.URL))
	fmt.Fprintf(w, "Author:      %s\n", orDash(s.Author))
	fmt.Fprintf(w, "Artist:      %s\n", orDash(s.Artist))
	fmt.Fprintf(w, "Status:      %s\n", colors.Status(s.Status))
	fmt.Fprintf(w, "Genres:      %s\n", orDash(s.Genre))
	fmt.Fprintf(w, "Thumbnail:   %s\n", orDash(s.ThumbnailURL))
	if s.Description != "" {
		fmt.Fprintf(w, "\n%s\n", s.Description)
	}
}

func newGenresCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres of the source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := app.source()
			if err != nil {
				return err
			}
			for _, g := range src.Genres() {
				fmt.Fprintln(cmd.OutOrStdout(), g)
			}
			return nil
		},
	}
}

func newSourcesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the available sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, src := range app.Registry.Sources() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", src.ID(), src.Name())
			}
			return nil
		},
	}
}

func newBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

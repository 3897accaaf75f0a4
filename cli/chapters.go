package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.sammcclenaghan.com/mangafeed/colors"
	"github.sammcclenaghan.com/mangafeed/downloader"
	"github.sammcclenaghan.com/mangafeed/grabber"
	"github.sammcclenaghan.com/mangafeed/packer"
	"github.sammcclenaghan.com/mangafeed/ranges"
)

func newChaptersCmd(app *App) *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "chapters <listing-url>",
		Short: "List the chapters of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.source()
			if err != nil {
				return err
			}

			_, chapters, err := app.fetchChapters(cmd, src, args[0], selection)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(chapters) == 0 {
				fmt.Fprintln(out, colors.Warning("No chapters found"))
				return nil
			}
			for _, c := range chapters {
				fmt.Fprintf(out, "%s  %s  %s\n", colors.Bold(c.Name), colors.Link(c.URL), app.formatDate(c.DateUpload))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&selection, "chapters", "c", "", "chapter numbers to keep, e.g. 1,3-5")

	return cmd
}

// fetchChapters reads the detail page of a series and returns its chapters,
// restricted to selection when it is not empty
func (app *App) fetchChapters(cmd *cobra.Command, src grabber.Source, listingURL, selection string) (grabber.Series, []grabber.Chapter, error) {
	rngs, err := ranges.Parse(selection)
	if err != nil {
		return grabber.Series{}, nil, err
	}

	series, body, err := app.fetchDetail(cmd, src, listingURL)
	if err != nil {
		return grabber.Series{}, nil, err
	}

	chapters := ranges.Filter(src.ParseChapters(body), rngs)
	app.Logger.Debug("parsed chapters", "url", series.URL, "chapters", len(chapters))

	return series, chapters, nil
}

func newPagesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pages <chapter-url>",
		Short: "List the image URLs of a chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.source()
			if err != nil {
				return err
			}

			pages, err := app.resolvePages(cmd, src, args[0])
			if err != nil {
				return err
			}

			for _, p := range pages {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", p.Number, p.URL)
			}
			return nil
		},
	}
}

// resolvePages reads the page selector of a chapter and then every reader
// page for its image
func (app *App) resolvePages(cmd *cobra.Command, src grabber.Source, chapterURL string) ([]grabber.Page, error) {
	body, err := app.Fetcher.Fetch(cmd.Context(), chapterURL, src.Headers())
	if err != nil {
		return nil, fmt.Errorf("fetch chapter: %w", err)
	}

	pageURLs := src.ParsePageURLs(body)
	if len(pageURLs) == 0 {
		return nil, fmt.Errorf("no pages in %s: %w", chapterURL, grabber.ErrNotFound)
	}

	bar := newBar(cmd.ErrOrStderr(), len(pageURLs), "resolving pages")
	defer bar.Finish()

	return downloader.ResolvePages(cmd.Context(), app.Fetcher, src, pageURLs, app.Config.Concurrency, func(page, progress int, err error) {
		if err != nil {
			app.Logger.Debug("page failed", "page", page, "error", err)
			return
		}
		bar.Add(progress)
	})
}

func newDownloadCmd(app *App) *cobra.Command {
	var selection, output, title string
	var noInfo bool

	cmd := &cobra.Command{
		Use:   "download <listing-url>",
		Short: "Download chapters of a series as CBZ files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.source()
			if err != nil {
				return err
			}
			if output == "" {
				output = app.Config.OutputDir
			}

			series, chapters, err := app.fetchChapters(cmd, src, args[0], selection)
			if err != nil {
				return err
			}
			if title != "" {
				series.Title = title
			}
			if len(chapters) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), colors.Warning("No chapters to download"))
				return nil
			}

			names := archiveNames(series.Title, chapters)

			var errs []error
			for i, chapter := range chapters {
				filename := filepath.Join(output, names[i])
				err := app.downloadChapter(cmd, src, series, chapter, filename, !noInfo)
				if err != nil {
					app.Logger.Error("chapter failed", "chapter", chapter.Name, "url", chapter.URL, "error", err)
					errs = append(errs, fmt.Errorf("%s: %w", chapter.Name, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", colors.Success("Saved"), filename)
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVarP(&selection, "chapters", "c", "", "chapter numbers to download, e.g. 1,3-5")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory to write the CBZ files to")
	cmd.Flags().StringVarP(&title, "title", "t", "", "series title used to name the archives")
	cmd.Flags().BoolVar(&noInfo, "no-info", false, "do not add ComicInfo.xml to the archives")

	return cmd
}

// archiveNames returns the CBZ file name of every chapter. Chapters sharing
// a name, like the same chapter from two groups, get their reader id
// appended.
func archiveNames(seriesTitle string, chapters []grabber.Chapter) []string {
	seen := make(map[string]int, len(chapters))
	for _, c := range chapters {
		seen[packer.GetCBZFilename(seriesTitle, c.Name)]++
	}

	names := make([]string, len(chapters))
	for i, c := range chapters {
		name := packer.GetCBZFilename(seriesTitle, c.Name)
		if seen[name] > 1 {
			id := readerID(c.URL)
			if id == "" {
				id = strconv.Itoa(i + 1)
			}
			name = packer.GetCBZFilename(seriesTitle, c.Name+" ("+id+")")
		}
		names[i] = name
	}
	return names
}

func (app *App) downloadChapter(cmd *cobra.Command, src grabber.Source, series grabber.Series, chapter grabber.Chapter, filename string, withInfo bool) error {
	pages, err := app.resolvePages(cmd, src, chapter.URL)
	if err != nil {
		return err
	}

	bar := newBar(cmd.ErrOrStderr(), len(pages), "downloading "+chapter.Name)
	files, err := downloader.FetchChapter(cmd.Context(), app.Getter, src, pages, app.Config.Concurrency, func(page, progress int, err error) {
		if err != nil {
			app.Logger.Debug("download failed", "page", page, "error", err)
			return
		}
		bar.Add(progress)
	})
	bar.Finish()
	if err != nil {
		return err
	}

	var info *packer.ComicInfo
	if withInfo {
		info = packer.NewComicInfo(series, chapter, len(files))
	}

	return packer.ArchiveCBZ(filename, files, info, nil)
}

// Package cli wires the sources, the crawler and the downloader into the
// mangafeed command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.sammcclenaghan.com/mangafeed/colors"
	"github.sammcclenaghan.com/mangafeed/config"
	"github.sammcclenaghan.com/mangafeed/downloader"
	"github.sammcclenaghan.com/mangafeed/grabber"
	"github.sammcclenaghan.com/mangafeed/http"
)

// App holds what the commands share. Nil fields are built from the
// configuration before a command runs.
type App struct {
	Config   *config.Config
	Registry *grabber.Registry
	Fetcher  http.Fetcher
	Getter   downloader.Getter
	Logger   *slog.Logger

	configPath string
	verbose    bool
	noColor    bool
	sourceID   int64
}

// Execute runs the command line until it finishes or the process is
// interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return NewRootCmd(&App{}).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree around app
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "mangafeed",
		Short:        "Browse and download manga from scraped sites",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "path to a YAML config file")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "log debug messages")
	flags.BoolVar(&app.noColor, "no-color", false, "disable colored output")
	flags.Int64Var(&app.sourceID, "source", int64(grabber.BatotoID), "id of the source to use")

	root.AddCommand(
		newPopularCmd(app),
		newSearchCmd(app),
		newInfoCmd(app),
		newChaptersCmd(app),
		newPagesCmd(app),
		newDownloadCmd(app),
		newGenresCmd(app),
		newSourcesCmd(app),
	)

	return root
}

func (app *App) setup(cmd *cobra.Command) error {
	if app.noColor {
		colors.SetColorsEnabled(false)
	}

	if app.Config == nil {
		cfg, err := config.Load(app.configPath)
		if err != nil {
			return err
		}
		app.Config = cfg
	}

	level, err := app.Config.Level()
	if err != nil {
		return err
	}
	if app.verbose {
		level = slog.LevelDebug
	}
	if app.Logger == nil {
		app.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}

	if app.Registry == nil {
		loc, err := app.Config.Location()
		if err != nil {
			return err
		}
		app.Registry = grabber.DefaultRegistry(&grabber.Grabber{UserAgent: app.Config.UserAgent}, loc)
	}

	if app.Fetcher == nil || app.Getter == nil {
		client := http.NewClient(http.Options{
			UserAgent:  app.Config.UserAgent,
			Timeout:    app.Config.Timeout,
			MaxRetries: app.Config.MaxRetries,
			RetryDelay: app.Config.RetryDelay,
			RateLimit:  app.Config.RateLimit,
			Logger:     app.Logger,
		})
		if app.Fetcher == nil {
			app.Fetcher = client
		}
		if app.Getter == nil {
			app.Getter = client
		}
	}

	return nil
}

// source returns the source picked with --source
func (app *App) source() (grabber.Source, error) {
	src, ok := app.Registry.Get(grabber.SourceID(app.sourceID))
	if !ok {
		return nil, fmt.Errorf("unknown source %d", app.sourceID)
	}
	return src, nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lysyi3m/rssget/app/cfg"
	"github.com/lysyi3m/rssget/app/feed"
	"github.com/lysyi3m/rssget/app/render"
	"github.com/lysyi3m/rssget/app/tasks"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	appCfg, err := cfg.Load(args, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "rssget: %v\n", err)
		return 1
	}
	if appCfg == nil {
		// Help or version was shown
		return 0
	}

	setupLogger(stderr, appCfg.Debug)
	if appCfg.LocationErr != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", appCfg.Timezone, "error", appCfg.LocationErr)
	}
	slog.Debug("Configuration loaded",
		"config", appCfg.ConfigPath,
		"channels", len(appCfg.Channels),
		"display_by", appCfg.DisplayBy,
		"version", appCfg.Version)

	httpClient := &http.Client{}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent, appCfg.Timeout)

	var progress tasks.Progress
	if !appCfg.NoProgress && isTerminal(stderr) && len(appCfg.Channels) > 0 {
		bar := newProgressBar(stderr, len(appCfg.Channels))
		defer bar.Finish()
		progress = bar
	}

	runner := tasks.NewRunner(fetcher, feed.NewParser(), feed.NewFilterer(), appCfg.WorkerCount, progress)
	results := runner.Run(ctx, appCfg.Channels)

	renderer := render.NewRenderer(stdout, render.Options{
		Width:    appCfg.Width,
		Location: appCfg.Location,
		Color:    !appCfg.NoColor && isTerminal(stdout),
	})

	if failures := tasks.Failures(results); len(failures) > 0 {
		errs := make([]error, 0, len(failures))
		for _, failure := range failures {
			errs = append(errs, failure.Err)
		}
		renderer.ReportFailures(stderr, errs)
	}

	list := feed.NewOrderer().Run(tasks.Channels(results), appCfg.DisplayBy)
	if len(list) == 0 {
		fmt.Fprintln(stderr, "No RSS items found.")
		return 0
	}

	if err := renderer.Run(list, appCfg.DisplayBy); err != nil {
		fmt.Fprintf(stderr, "rssget: %v\n", err)
		return 1
	}

	return 0
}

func setupLogger(out io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
}

func newProgressBar(out io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Fetching RSS…"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: "~",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

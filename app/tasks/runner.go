package tasks

import (
	"cmp"
	"context"
	"log/slog"

	"github.com/lysyi3m/rssget/app/feed"
	"golang.org/x/sync/errgroup"
)

const progressLabelLength = 20

// Result is the outcome of one source. Exactly one of Channel and Err is set.
type Result struct {
	Source  feed.Source
	Channel *feed.Channel
	Err     error
}

type Runner struct {
	fetcher     *feed.Fetcher
	parser      *feed.Parser
	filterer    *feed.Filterer
	workerCount int
	progress    Progress
}

func NewRunner(fetcher *feed.Fetcher, parser *feed.Parser, filterer *feed.Filterer, workerCount int, progress Progress) *Runner {
	if progress == nil {
		progress = noProgress{}
	}
	if workerCount <= 0 {
		workerCount = 1
	}

	return &Runner{
		fetcher:     fetcher,
		parser:      parser,
		filterer:    filterer,
		workerCount: workerCount,
		progress:    progress,
	}
}

// Run fetches every source and returns one Result per source, in source
// order. A failing source never stops the others.
func (r *Runner) Run(ctx context.Context, sources []feed.Source) []Result {
	results := make([]Result, len(sources))

	var g errgroup.Group
	g.SetLimit(r.workerCount)

	for i, source := range sources {
		task := NewFetchFeedTask(i, source, r.fetcher, r.parser, r.filterer)

		g.Go(func() error {
			r.progress.Describe(progressLabel(source))
			task.Start()

			channel, err := task.Execute(ctx)
			if err != nil {
				slog.Debug("Task failed", "type", task.GetType(), "id", task.GetID(), "feed", task.GetFeedURL(), "duration", task.GetDuration(), "error", err)
			}

			// Each goroutine owns results[i]
			results[i] = Result{Source: source, Channel: channel, Err: err}

			if err := r.progress.Add(1); err != nil {
				slog.Debug("Failed to update progress", "error", err)
			}
			return nil
		})
	}

	_ = g.Wait()

	return results
}

// Channels returns the channels of successful results, in source order.
func Channels(results []Result) []*feed.Channel {
	channels := make([]*feed.Channel, 0, len(results))
	for _, result := range results {
		if result.Err == nil && result.Channel != nil {
			channels = append(channels, result.Channel)
		}
	}
	return channels
}

// Failures returns the results that carry an error, in source order.
func Failures(results []Result) []Result {
	var failures []Result
	for _, result := range results {
		if result.Err != nil {
			failures = append(failures, result)
		}
	}
	return failures
}

func progressLabel(source feed.Source) string {
	label := source.URL
	if runes := []rune(label); len(runes) > progressLabelLength {
		label = string(runes[:progressLabelLength])
	}
	return cmp.Or(source.Alias, label)
}

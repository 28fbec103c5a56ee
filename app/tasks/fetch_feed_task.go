package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/rssget/app/feed"
)

var _ TaskInterface = (*FetchFeedTask)(nil)

type FetchFeedTask struct {
	Task
	Source   feed.Source
	fetcher  *feed.Fetcher
	parser   *feed.Parser
	filterer *feed.Filterer
}

func NewFetchFeedTask(index int, source feed.Source, fetcher *feed.Fetcher, parser *feed.Parser, filterer *feed.Filterer) *FetchFeedTask {
	return &FetchFeedTask{
		Task:     NewTask(TaskTypeFetchFeed, source.URL, index),
		Source:   source,
		fetcher:  fetcher,
		parser:   parser,
		filterer: filterer,
	}
}

// Execute fetches and parses the source. Errors are *feed.FetchError or
// *feed.ParseError.
func (t *FetchFeedTask) Execute(ctx context.Context) (*feed.Channel, error) {
	data, err := t.fetcher.Run(ctx, t.Source.URL)
	if err != nil {
		return nil, err
	}

	channel, err := t.parser.Run(t.Source.URL, data)
	if err != nil {
		return nil, err
	}

	total := len(channel.Items)
	channel.Source = t.Source
	channel.Items = t.filterer.Run(channel.Items, t.Source.Filters)
	filtered := total - len(channel.Items)
	channel.Truncate(t.Source.MaxItems)

	slog.Debug("Task completed",
		"type", t.GetType(),
		"feed", t.FeedURL,
		"duration", t.GetDuration(),
		"total", total,
		"filtered", filtered,
		"kept", len(channel.Items))

	return channel, nil
}

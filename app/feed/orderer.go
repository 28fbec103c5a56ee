package feed

import (
	"slices"
	"sort"
)

type Orderer struct{}

func NewOrderer() *Orderer {
	return &Orderer{}
}

// Run flattens channels into a DisplayList.
//
// OrderByDate sorts newest first. Items sharing a timestamp keep their
// encounter order (channel order, then feed order) and undated items follow
// every dated item, also in encounter order. OrderByChannel keeps channels in
// input order and items in feed order.
func (o *Orderer) Run(channels []*Channel, order Order) DisplayList {
	list := make(DisplayList, 0, countItems(channels))
	for _, channel := range channels {
		if channel == nil {
			continue
		}
		for i := range channel.Items {
			list = append(list, DisplayEntry{Channel: channel, Item: &channel.Items[i]})
		}
	}

	if order == OrderByDate {
		sort.SliceStable(list, func(i, j int) bool {
			return newerFirst(list[i].Item, list[j].Item)
		})
	}

	return list
}

// Truncate keeps the limit most recent items of the channel without changing
// their feed order. Zero or a negative limit keeps everything.
func (c *Channel) Truncate(limit int) {
	if limit <= 0 || len(c.Items) <= limit {
		return
	}

	indexes := make([]int, len(c.Items))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(i, j int) bool {
		return newerFirst(&c.Items[indexes[i]], &c.Items[indexes[j]])
	})

	kept := indexes[:limit]
	slices.Sort(kept)

	items := make([]Item, 0, limit)
	for _, idx := range kept {
		items = append(items, c.Items[idx])
	}
	c.Items = items
}

func newerFirst(a, b *Item) bool {
	switch {
	case a.PublishedAt == nil:
		return false
	case b.PublishedAt == nil:
		return true
	default:
		return a.PublishedAt.After(*b.PublishedAt)
	}
}

func countItems(channels []*Channel) int {
	total := 0
	for _, channel := range channels {
		if channel != nil {
			total += len(channel.Items)
		}
	}
	return total
}

package feed

import (
	"strings"
)

var filterFields = map[string]bool{
	"title":       true,
	"description": true,
	"author":      true,
	"link":        true,
	"categories":  true,
}

// IsFilterField reports whether field can be used in a SourceFilter.
func IsFilterField(field string) bool {
	return filterFields[field]
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the items that pass every filter, in their original order.
func (f *Filterer) Run(items []Item, filters []SourceFilter) []Item {
	if len(filters) == 0 {
		return items
	}

	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if f.passes(item, filters) {
			kept = append(kept, item)
		}
	}

	return kept
}

func (f *Filterer) passes(item Item, filters []SourceFilter) bool {
	for _, filter := range filters {
		value := f.getFieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return false
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}

	return true
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(item Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "description":
		return item.Description
	case "author":
		return item.Author
	case "link":
		return item.Link
	case "categories":
		return strings.Join(item.Categories, " ")
	default:
		return ""
	}
}

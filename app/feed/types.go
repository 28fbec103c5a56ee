package feed

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Feed processing types

type Channel struct {
	Title       string
	Link        string
	Description string
	Source      Source // Configuration the channel was fetched from
	Items       []Item
}

type Item struct {
	Title        string
	Link         string
	Description  string
	Author       string
	Categories   []string
	EnclosureURL string
	PublishedAt  *time.Time // nil when the feed carries no usable date
}

type DisplayEntry struct {
	Channel *Channel
	Item    *Item
}

type DisplayList []DisplayEntry

// Display ordering

type Order string

const (
	OrderByDate    Order = "date"
	OrderByChannel Order = "channel"
)

func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case OrderByDate, OrderByChannel:
		return Order(s), nil
	default:
		return "", fmt.Errorf("unrecognized order %q [date | channel]", s)
	}
}

func (o *Order) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ParseOrder(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*o = parsed
	return nil
}

// Configuration types

type Source struct {
	URL      string         `yaml:"url"`
	Alias    string         `yaml:"alias"`
	MaxItems int            `yaml:"max_items"`
	Display  DisplayOptions `yaml:"item_config"`
	Filters  []SourceFilter `yaml:"filters"`
}

// UnmarshalYAML accepts either a bare URL string or a mapping.
func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&s.URL)
	}

	type plain Source
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*s = Source(decoded)
	return nil
}

type DisplayOptions struct {
	HideTitle       bool `yaml:"hide_title"`
	HideLink        bool `yaml:"hide_link"`
	HideDescription bool `yaml:"hide_description"`
	HideAuthor      bool `yaml:"hide_author"`
	HidePubDate     bool `yaml:"hide_pub_date"`
	ShowEnclosure   bool `yaml:"show_enclosure"`
}

type SourceFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// Per-feed errors

type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

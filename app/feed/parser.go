package feed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run decodes an RSS, Atom or JSON feed. url is only used for error context.
func (p *Parser) Run(url string, data []byte) (*Channel, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{URL: url, Err: fmt.Errorf("failed to parse feed: %w", err)}
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		return nil, &ParseError{URL: url, Err: errors.New("feed has no title")}
	}

	channel := &Channel{
		Title:       title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Items:       make([]Item, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		channel.Items = append(channel.Items, p.normalizeItem(item))
	}

	return channel, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		Author:      p.extractAuthor(item),
	}

	// Atom entries frequently carry only <updated>
	switch {
	case item.PublishedParsed != nil:
		published := *item.PublishedParsed
		normalized.PublishedAt = &published
	case item.UpdatedParsed != nil:
		updated := *item.UpdatedParsed
		normalized.PublishedAt = &updated
	}

	if item.Categories != nil {
		normalized.Categories = item.Categories
	}

	// RSS 2.0 allows only one enclosure per item
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		normalized.EnclosureURL = item.Enclosures[0].URL
	}

	return normalized
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				if authorStr := p.formatAuthor(author.Name, author.Email); authorStr != "" {
					authors = append(authors, authorStr)
				}
			}
		}
	} else if item.Author != nil {
		if authorStr := p.formatAuthor(item.Author.Name, item.Author.Email); authorStr != "" {
			authors = append(authors, authorStr)
		}
	}

	return strings.Join(authors, ", ")
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return fmt.Sprintf("%s (%s)", email, name)
	} else if name != "" {
		return name
	} else if email != "" {
		return email
	}

	return ""
}

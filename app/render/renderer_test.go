package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/rssget/app/feed"
)

func published(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
	return &t
}

func sampleList(order feed.Order) feed.DisplayList {
	feedA := &feed.Channel{
		Title: "Feed A",
		Items: []feed.Item{
			{Title: "First post", Link: "https://a.example.com/1", Author: "alice", Description: "<p>Hello &amp; <b>welcome</b></p>", PublishedAt: published(2024, 1, 2)},
			{Title: "Undated post", Link: "https://a.example.com/2"},
		},
	}
	feedB := &feed.Channel{
		Title:  "Feed B",
		Source: feed.Source{Alias: "Bee"},
		Items: []feed.Item{
			{Title: "Podcast", Link: "https://b.example.com/ep", EnclosureURL: "https://b.example.com/ep.mp3", PublishedAt: published(2024, 1, 3)},
		},
	}

	return feed.NewOrderer().Run([]*feed.Channel{feedA, feedB}, order)
}

func newTestRenderer(out *bytes.Buffer) *Renderer {
	return NewRenderer(out, Options{Width: 80, Location: time.UTC})
}

func TestRenderer_ByDate(t *testing.T) {
	var out bytes.Buffer
	if err := newTestRenderer(&out).Run(sampleList(feed.OrderByDate), feed.OrderByDate); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := strings.Join([]string{
		"[2024-01-03 10:30:00] - Bee",
		"     Podcast",
		"[https://b.example.com/ep]",
		"",
		"[2024-01-02 10:30:00] - Feed A",
		"     First post",
		" - alice",
		"     Hello & welcome",
		"[https://a.example.com/1]",
		"",
		"Feed A",
		"     Undated post",
		"[https://a.example.com/2]",
		"",
		"",
	}, "\n")

	if out.String() != expected {
		t.Errorf("Unexpected output.\nExpected:\n%s\nGot:\n%s", expected, out.String())
	}
}

func TestRenderer_ByChannel(t *testing.T) {
	var out bytes.Buffer
	if err := newTestRenderer(&out).Run(sampleList(feed.OrderByChannel), feed.OrderByChannel); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	output := out.String()
	headerA := strings.Index(output, "Feed A\n")
	headerB := strings.Index(output, "Bee\n")
	if headerA != 0 {
		t.Errorf("Expected output to start with the Feed A header, got:\n%s", output)
	}
	if headerB < headerA {
		t.Errorf("Expected Bee header after Feed A header, got:\n%s", output)
	}

	undated := strings.Index(output, "Undated post")
	if undated < 0 || undated > headerB {
		t.Errorf("Expected Feed A items before Bee header, got:\n%s", output)
	}
	if strings.Count(output, "Feed A") != 1 {
		t.Errorf("Expected the channel title once per channel, got:\n%s", output)
	}
}

func TestRenderer_DisplayOptions(t *testing.T) {
	channel := &feed.Channel{
		Title: "Quiet",
		Source: feed.Source{Display: feed.DisplayOptions{
			HideLink:        true,
			HideDescription: true,
			HideAuthor:      true,
			HidePubDate:     true,
			ShowEnclosure:   true,
		}},
		Items: []feed.Item{{
			Title:        "Only title",
			Link:         "https://example.com/hidden",
			Author:       "hidden author",
			Description:  "hidden description",
			EnclosureURL: "https://example.com/file.mp3",
			PublishedAt:  published(2024, 5, 1),
		}},
	}

	var out bytes.Buffer
	list := feed.NewOrderer().Run([]*feed.Channel{channel}, feed.OrderByDate)
	if err := newTestRenderer(&out).Run(list, feed.OrderByDate); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "Quiet\n     Only title\n[https://example.com/file.mp3]\n\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestRenderer_TitleKeepsAngleBrackets(t *testing.T) {
	channel := &feed.Channel{
		Title: "Rust",
		Items: []feed.Item{{
			Title:       "Using  Vec<T> and a <b> tag",
			Description: "<p>Generic <code>Vec&lt;T&gt;</code></p>",
		}},
	}

	var out bytes.Buffer
	list := feed.NewOrderer().Run([]*feed.Channel{channel}, feed.OrderByDate)
	if err := newTestRenderer(&out).Run(list, feed.OrderByDate); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "Rust\n     Using Vec<T> and a <b> tag\n     Generic Vec<T>\n\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestRenderer_WrapsLongTitles(t *testing.T) {
	channel := &feed.Channel{
		Title: "Wordy",
		Items: []feed.Item{{Title: strings.Repeat("word ", 40)}},
	}

	var out bytes.Buffer
	list := feed.NewOrderer().Run([]*feed.Channel{channel}, feed.OrderByDate)
	if err := NewRenderer(&out, Options{Width: 40, Location: time.UTC}).Run(list, feed.OrderByDate); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, line := range strings.Split(out.String(), "\n") {
		if len(line) > 40 {
			t.Errorf("Line exceeds width 40: %q", line)
		}
		if strings.Contains(line, "word") && !strings.HasPrefix(line, itemIndent) {
			t.Errorf("Expected wrapped line to be indented: %q", line)
		}
	}
}

func TestRenderer_Colors(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out, Options{Location: time.UTC, Color: true})
	if err := renderer.Run(sampleList(feed.OrderByDate), feed.OrderByDate); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(out.String(), "\x1b[") {
		t.Error("Expected ANSI escape sequences when colors are enabled")
	}
}

func TestRenderer_EmptyList(t *testing.T) {
	var out bytes.Buffer
	if err := newTestRenderer(&out).Run(nil, feed.OrderByDate); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRenderer_WriteFailure(t *testing.T) {
	renderer := NewRenderer(failingWriter{}, Options{Location: time.UTC})
	err := renderer.Run(sampleList(feed.OrderByDate), feed.OrderByDate)

	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected *RenderError, got: %v", err)
	}
}

func TestRenderer_ReportFailures(t *testing.T) {
	var out bytes.Buffer
	renderer := newTestRenderer(&out)

	renderer.ReportFailures(&out, []error{
		&feed.FetchError{URL: "https://down.example.com", Err: errors.New("HTTP error: 503 Service Unavailable")},
		fmt.Errorf("wrapped: %w", &feed.ParseError{URL: "https://bad.example.com", Err: errors.New("feed has no title")}),
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), out.String())
	}
	if lines[0] != "Could not reach feed https://down.example.com: HTTP error: 503 Service Unavailable" {
		t.Errorf("Unexpected fetch failure line: %q", lines[0])
	}
	if lines[1] != "Could not parse feed https://bad.example.com: feed has no title" {
		t.Errorf("Unexpected parse failure line: %q", lines[1])
	}
}

func TestTextCleaner_Run(t *testing.T) {
	cleaner := NewTextCleaner()

	tests := map[string]string{
		"":                                 "",
		"plain text":                       "plain text",
		"<p>Hello</p><p>World</p>":         "Hello World",
		"Fish &amp; chips":                 "Fish & chips",
		"  spaced \n\t out  ":              "spaced out",
		"<script>alert(1)</script>Visible": "Visible",
		"Cafe\u0301":                       "Caf\u00e9",
	}

	for input, expected := range tests {
		if got := cleaner.Run(input); got != expected {
			t.Errorf("Run(%q) = %q, want %q", input, got, expected)
		}
	}
}

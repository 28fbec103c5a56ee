package render

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/lysyi3m/rssget/app/feed"
)

const (
	DefaultWidth = 80
	itemIndent   = "     "
	minWrapWidth = 20
	dateLayout   = "2006-01-02 15:04:05"
)

type Options struct {
	Width    int
	Location *time.Location
	Color    bool
}

type Renderer struct {
	out      io.Writer
	width    int
	location *time.Location
	cleaner  *TextCleaner

	date    *color.Color
	channel *color.Color
	link    *color.Color
	failure *color.Color
}

func NewRenderer(out io.Writer, opts Options) *Renderer {
	r := &Renderer{
		out:      out,
		width:    cmp.Or(opts.Width, DefaultWidth),
		location: opts.Location,
		cleaner:  NewTextCleaner(),
		date:     color.New(color.Bold),
		channel:  color.New(color.FgHiGreen, color.Underline),
		link:     color.New(color.FgHiBlue),
		failure:  color.New(color.FgRed),
	}
	if r.location == nil {
		r.location = time.Local
	}

	for _, c := range []*color.Color{r.date, r.channel, r.link, r.failure} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return r
}

// RenderError means the output stream failed; the run cannot continue.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to write output: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Run writes one block per entry. With OrderByChannel a header line precedes
// the items of each channel.
func (r *Renderer) Run(list feed.DisplayList, order feed.Order) error {
	w := &errWriter{w: r.out}

	var current *feed.Channel
	for _, entry := range list {
		if order == feed.OrderByChannel && entry.Channel != current {
			current = entry.Channel
			w.println(r.channel.Sprint(channelName(entry.Channel)))
			w.println()
		}
		r.writeItem(w, entry, order)
		if w.err != nil {
			break
		}
	}

	if w.err != nil {
		return &RenderError{Err: w.err}
	}
	return nil
}

func (r *Renderer) writeItem(w *errWriter, entry feed.DisplayEntry, order feed.Order) {
	item := entry.Item
	display := entry.Channel.Source.Display

	var dateText string
	if item.PublishedAt != nil && !display.HidePubDate {
		dateText = r.date.Sprintf("[%s]", item.PublishedAt.In(r.location).Format(dateLayout))
	}

	switch {
	case order == feed.OrderByChannel:
		if dateText != "" {
			w.println(dateText)
		}
	case dateText != "":
		w.println(dateText + " - " + r.channel.Sprint(channelName(entry.Channel)))
	default:
		w.println(r.channel.Sprint(channelName(entry.Channel)))
	}

	if title := normalizeText(item.Title); title != "" && !display.HideTitle {
		w.println(wrap(title, itemIndent, r.width))
	}

	if item.Author != "" && !display.HideAuthor {
		w.println(" - " + item.Author)
	}

	if description := r.cleaner.Run(item.Description); description != "" && !display.HideDescription {
		w.println(wrap(description, itemIndent, r.width))
	}

	if item.EnclosureURL != "" && display.ShowEnclosure {
		w.println("[" + item.EnclosureURL + "]")
	}

	if item.Link != "" && !display.HideLink {
		w.println("[" + r.link.Sprint(item.Link) + "]")
	}

	w.println()
}

// ReportFailures writes one line per failed feed. Write errors are ignored:
// the report goes to the diagnostic stream.
func (r *Renderer) ReportFailures(out io.Writer, errs []error) {
	for _, err := range errs {
		var fetchErr *feed.FetchError
		var parseErr *feed.ParseError

		var line string
		switch {
		case errors.As(err, &fetchErr):
			line = fmt.Sprintf("Could not reach feed %s: %v", fetchErr.URL, fetchErr.Err)
		case errors.As(err, &parseErr):
			line = fmt.Sprintf("Could not parse feed %s: %v", parseErr.URL, parseErr.Err)
		default:
			line = err.Error()
		}

		fmt.Fprintln(out, r.failure.Sprint(line))
	}
}

func channelName(channel *feed.Channel) string {
	return cmp.Or(channel.Source.Alias, channel.Title)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) println(a ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, a...)
}

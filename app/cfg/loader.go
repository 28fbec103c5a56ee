package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/lysyi3m/rssget/app/feed"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed selection
	DisplayBy  string `long:"display-by" choice:"date" choice:"channel" description:"Display ordering for RSS items"`
	ConfigPath string `short:"c" long:"config" env:"RSSGET_CONFIG" description:"Path to the YAML config file (default: <user config dir>/rssget/config.yaml)"`

	// Fetching
	Timeout     time.Duration `long:"timeout" env:"RSSGET_TIMEOUT" default:"30s" description:"Timeout for each feed request"`
	WorkerCount int           `short:"w" long:"workers" env:"RSSGET_WORKERS" default:"5" description:"Number of feeds fetched in parallel"`
	UserAgent   string        `long:"user-agent" env:"RSSGET_USER_AGENT" default:"rssget/1.0" description:"User agent string for HTTP requests"`

	// Output
	Width      int    `long:"width" env:"RSSGET_WIDTH" default:"80" description:"Column at which item text is wrapped"`
	Timezone   string `long:"timezone" env:"TZ" description:"Timezone for item dates (e.g., UTC, America/New_York)"`
	NoColor    bool   `long:"no-color" env:"NO_COLOR" description:"Disable colored output"`
	NoProgress bool   `long:"no-progress" description:"Hide the fetch progress bar"`
	Debug      bool   `long:"debug" env:"RSSGET_DEBUG" description:"Enable debug logging"`
	Version    bool   `long:"version" description:"Print version and exit"`

	Args struct {
		Channels []string `positional-arg-name:"channels" description:"RSS feed URLs, appended to the configured ones"`
	} `positional-args:"yes"`
}

// Load parses args, reads the config file and merges both. It returns a nil
// Cfg without error when help or version output was written to stdout.
func Load(args []string, stdout io.Writer) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "rssget"
	parser.Usage = "[OPTIONS] [channels...]"

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return nil, nil
		}
		return nil, &ConfigError{Err: fmt.Errorf("failed to parse arguments: %w", err)}
	}

	if raw.Version {
		fmt.Fprintf(stdout, "rssget %s\n", GetVersion())
		return nil, nil
	}

	if raw.WorkerCount <= 0 {
		return nil, &ConfigError{Err: errors.New("workers must be positive")}
	}
	if raw.Width <= 0 {
		return nil, &ConfigError{Err: errors.New("width must be positive")}
	}

	configPath := cmp.Or(raw.ConfigPath, DefaultConfigPath())
	file, err := loadFile(configPath)
	if err != nil {
		return nil, err
	}

	displayBy, err := mergeOrder(raw.DisplayBy, file.DisplayBy)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	location, locationErr := loadLocation(raw.Timezone)

	cfg := &Cfg{
		Channels:    mergeChannels(file.Channels, raw.Args.Channels),
		DisplayBy:   displayBy,
		ConfigPath:  configPath,
		Timeout:     raw.Timeout,
		WorkerCount: raw.WorkerCount,
		UserAgent:   raw.UserAgent,
		Width:       raw.Width,
		Location:    location,
		Timezone:    raw.Timezone,
		LocationErr: locationErr,
		NoColor:     raw.NoColor,
		NoProgress:  raw.NoProgress,
		Debug:       raw.Debug,
		Version:     GetVersion(),
	}

	return cfg, nil
}

// mergeChannels appends CLI channels to the configured ones. Duplicates are kept.
func mergeChannels(configured []feed.Source, cli []string) []feed.Source {
	channels := make([]feed.Source, 0, len(configured)+len(cli))
	channels = append(channels, configured...)
	for _, url := range cli {
		channels = append(channels, feed.Source{URL: url})
	}
	return channels
}

// mergeOrder prefers the CLI value, then the file value, then date ordering.
func mergeOrder(cli string, configured feed.Order) (feed.Order, error) {
	if cli != "" {
		return feed.ParseOrder(cli)
	}
	return cmp.Or(configured, feed.OrderByDate), nil
}

// loadLocation falls back to time.Local. The error is returned for the
// caller to log once its logger is set up.
func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

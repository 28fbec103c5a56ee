package cfg

import (
	"fmt"
	"time"

	"github.com/lysyi3m/rssget/app/feed"
)

type Cfg struct {
	// Feed selection
	Channels   []feed.Source
	DisplayBy  feed.Order
	ConfigPath string

	// Fetching
	Timeout     time.Duration
	WorkerCount int
	UserAgent   string

	// Output
	Width       int
	Location    *time.Location
	Timezone    string
	LocationErr error // set when Timezone could not be loaded
	NoColor     bool
	NoProgress  bool
	Debug       bool
	Version     string
}

// fileCfg mirrors config.yaml
type fileCfg struct {
	DisplayBy feed.Order    `yaml:"display_by"`
	Channels  []feed.Source `yaml:"channels"`
}

// ConfigError is fatal: the run stops before any feed is fetched.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

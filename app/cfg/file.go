package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lysyi3m/rssget/app/feed"
	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "rssget"
	configFileName = "config.yaml"
)

// DefaultConfigPath returns <user config dir>/rssget/config.yaml, or an empty
// string when the platform has no config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName, configFileName)
}

// loadFile reads the config file at path. A missing file yields an empty
// configuration.
func loadFile(path string) (*fileCfg, error) {
	if path == "" {
		return &fileCfg{}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &fileCfg{}, nil
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	var config fileCfg
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to parse YAML: %w", err)}
	}

	if err := validateFile(&config); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return &config, nil
}

func validateFile(config *fileCfg) error {
	for i := range config.Channels {
		source := &config.Channels[i]
		source.URL = strings.TrimSpace(source.URL)

		if source.URL == "" {
			return fmt.Errorf("channel at index %d: feed URL is required", i)
		}
		if source.MaxItems < 0 {
			return fmt.Errorf("channel at index %d: max items must be non-negative", i)
		}

		for j, filter := range source.Filters {
			if !feed.IsFilterField(filter.Field) {
				return fmt.Errorf("channel at index %d: invalid filter field at index %d: %s", i, j, filter.Field)
			}
			if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
				return fmt.Errorf("channel at index %d: filter at index %d must have at least one include or exclude rule", i, j)
			}
		}
	}

	return nil
}

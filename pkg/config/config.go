package config

import (
	"math"

	"github.com/sdejongh/mediaflow/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Sort    SortConfig    `yaml:"sort" toml:"sort"`
	Clean   CleanConfig   `yaml:"clean" toml:"clean"`
	Probe   ProbeConfig   `yaml:"probe" toml:"probe"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// SortConfig holds defaults for the sort workflow
type SortConfig struct {
	Mode       models.SortMode        `yaml:"mode" toml:"mode"`
	Output     string                 `yaml:"output" toml:"output"` // folder under the source, empty = source itself
	Recursive  bool                   `yaml:"recursive" toml:"recursive"`
	Lowercase  bool                   `yaml:"lowercase" toml:"lowercase"`
	DryRun     bool                   `yaml:"dry_run" toml:"dry_run"`
	Duplicates models.DuplicatePolicy `yaml:"duplicates" toml:"duplicates"`
}

// CleanConfig holds defaults for the retention workflow
type CleanConfig struct {
	Recursive        bool              `yaml:"recursive" toml:"recursive"`
	ThresholdSeconds float64           `yaml:"threshold_seconds" toml:"threshold_seconds"`
	Extensions       string            `yaml:"extensions" toml:"extensions"`
	Action           models.ActionMode `yaml:"action" toml:"action"`
}

// ProbeConfig selects the metadata capabilities
type ProbeConfig struct {
	Decoder          string `yaml:"decoder" toml:"decoder"` // "builtin", "ffprobe" or "none"
	EXIFOrientation  bool   `yaml:"exif_orientation" toml:"exif_orientation"`
	DurationProvider string `yaml:"duration_provider" toml:"duration_provider"` // "auto", "shell", "ffprobe", "container" or "none"
	FFProbePath      string `yaml:"ffprobe_path" toml:"ffprobe_path"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" toml:"format"`     // "human" or "json"
	Progress bool   `yaml:"progress" toml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet" toml:"quiet"`       // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string `yaml:"format" toml:"format"` // "json" or "text"
	Level      string `yaml:"level" toml:"level"`   // "debug", "info", "warn", "error"
	File       string `yaml:"file" toml:"file"`     // Log file path (empty = no log)
	MaxSize    int64  `yaml:"max_size" toml:"max_size"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sort: SortConfig{
			Mode:       models.ModeOrientation,
			Output:     "",
			Duplicates: models.DuplicateAutoRename,
		},
		Clean: CleanConfig{
			Recursive:        true,
			ThresholdSeconds: 3.0,
			Extensions:       models.DefaultVideoExtensions,
			Action:           models.ActionAnalyze,
		},
		Probe: ProbeConfig{
			Decoder:          "builtin",
			EXIFOrientation:  true,
			DurationProvider: "auto",
			FFProbePath:      "ffprobe",
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Sort.Mode.Valid() {
		return &models.ValidationError{
			Field:   "sort.mode",
			Message: "must be 'orientation' or 'type'",
		}
	}

	if !c.Sort.Duplicates.Valid() {
		return &models.ValidationError{
			Field:   "sort.duplicates",
			Message: "must be 'auto-rename', 'skip' or 'overwrite'",
		}
	}

	t := c.Clean.ThresholdSeconds
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return &models.ValidationError{
			Field:   "clean.threshold_seconds",
			Message: "must be a number >= 0",
		}
	}

	if _, err := models.ParseExtensions(c.Clean.Extensions); err != nil {
		return &models.ValidationError{
			Field:   "clean.extensions",
			Message: "must list at least one extension",
		}
	}

	if !c.Clean.Action.Valid() {
		return &models.ValidationError{
			Field:   "clean.action",
			Message: "must be 'analyze', 'trash' or 'delete'",
		}
	}

	validDecoders := map[string]bool{"builtin": true, "ffprobe": true, "none": true}
	if !validDecoders[c.Probe.Decoder] {
		return &models.ValidationError{
			Field:   "probe.decoder",
			Message: "must be 'builtin', 'ffprobe' or 'none'",
		}
	}

	validProviders := map[string]bool{"auto": true, "shell": true, "ffprobe": true, "container": true, "none": true}
	if !validProviders[c.Probe.DurationProvider] {
		return &models.ValidationError{
			Field:   "probe.duration_provider",
			Message: "must be 'auto', 'shell', 'ffprobe', 'container' or 'none'",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size",
			Message: "rotation limits must not be negative",
		}
	}

	return nil
}

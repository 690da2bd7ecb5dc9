package cli

import (
	"io"
	"os"

	"github.com/sdejongh/mediaflow/pkg/config"
	"github.com/sdejongh/mediaflow/pkg/duration"
	"github.com/sdejongh/mediaflow/pkg/logging"
	"github.com/sdejongh/mediaflow/pkg/media"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/output"
	"github.com/sdejongh/mediaflow/pkg/trash"
)

// createLogger creates a logger based on configuration
func createLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	// Without a log file, only verbose mode logs, to stderr
	if cfg.File == "" {
		if !globalFlags.Verbose {
			return logging.NewNullLogger(), nil
		}
		return logging.NewStreamLogger(logging.StreamConfig{
			Writer: os.Stderr,
			Format: logging.Format(cfg.Format),
			Level:  logging.DebugLevel,
		})
	}

	// Parse log format
	var format logging.Format
	switch cfg.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewStreamLogger(logging.StreamConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Level),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
	})
}

// createDecoder builds the dimension decoder selected by the probe settings.
// "builtin" reads images and MP4-family containers natively and falls back
// to ffprobe for other videos when it is installed.
func createDecoder(cfg config.ProbeConfig, files media.Opener) (media.Decoder, error) {
	switch cfg.Decoder {
	case "none":
		return nil, nil
	case "ffprobe":
		p, err := media.LookFFProbe(cfg.FFProbePath)
		if err != nil {
			return nil, &models.CapabilityError{Capability: "ffprobe", Reason: err.Error()}
		}
		return p, nil
	}

	chain := media.Chain{
		media.NewImageDecoder(files, cfg.EXIFOrientation),
		media.NewMP4Decoder(files),
	}
	if p, err := media.LookFFProbe(cfg.FFProbePath); err == nil {
		chain = append(chain, p)
	}
	return chain, nil
}

// createDurationProvider builds the duration provider selected by the probe settings
func createDurationProvider(cfg config.ProbeConfig, files media.Opener) (duration.Provider, error) {
	return duration.New(cfg.DurationProvider, duration.Options{
		Files:       files,
		FFProbePath: cfg.FFProbePath,
	})
}

// createTrasher returns the platform trash when the action needs it
func createTrasher(action models.ActionMode) (trash.Trasher, error) {
	if action != models.ActionTrash {
		return nil, nil
	}
	return trash.Default()
}

// createFormatter picks the output formatter and its writer
func createFormatter(cfg config.OutputConfig) (output.Formatter, io.Writer) {
	var w io.Writer = os.Stdout
	if cfg.Quiet {
		w = io.Discard
	}
	return output.New(cfg.Format, cfg.Progress, w), w
}

func trashAvailable() bool {
	_, err := trash.Default()
	return err == nil
}

func ffprobeAvailable(bin string) bool {
	_, err := media.LookFFProbe(bin)
	return err == nil
}

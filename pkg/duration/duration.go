// Package duration measures video length through pluggable metadata providers.
package duration

import (
	"context"
	"fmt"

	"github.com/sdejongh/mediaflow/pkg/media"
	"github.com/sdejongh/mediaflow/pkg/models"
)

// Provider opens per-run metadata sessions
type Provider interface {
	Name() string
	// Open starts a session. It fails with models.ErrPlatformUnsupported
	// when the provider cannot work on this host.
	Open(ctx context.Context) (Session, error)
}

// Session answers duration queries for one run. Handles cached by the
// session are released by Close; a session is never reused across runs.
// It must be used from the goroutine that opened it.
type Session interface {
	// Duration returns the length in seconds; ok is false when unknown
	Duration(ctx context.Context, path string) (seconds float64, ok bool)
	Close() error
}

// Provider names accepted by New
const (
	KindAuto      = "auto"
	KindShell     = "shell"
	KindFFProbe   = "ffprobe"
	KindContainer = "container"
	KindNone      = "none"
)

// Options carries what the concrete providers need
type Options struct {
	// Files opens files for the container provider
	Files media.Opener
	// FFProbePath is the ffprobe executable name or path
	FFProbePath string
}

// New returns the provider named kind. "none" yields a nil provider.
// "auto" prefers the platform shell, then ffprobe on PATH, then the
// MP4 container reader.
func New(kind string, opts Options) (Provider, error) {
	switch kind {
	case KindNone:
		return nil, nil
	case KindShell:
		return NewShellProvider(), nil
	case KindFFProbe:
		p, err := media.LookFFProbe(opts.FFProbePath)
		if err != nil {
			return nil, &models.CapabilityError{Capability: "ffprobe", Reason: err.Error()}
		}
		return NewFFProbeProvider(p), nil
	case KindContainer:
		return NewContainerProvider(opts.Files), nil
	case KindAuto, "":
		if shellSupported {
			return NewShellProvider(), nil
		}
		if p, err := media.LookFFProbe(opts.FFProbePath); err == nil {
			return NewFFProbeProvider(p), nil
		}
		return NewContainerProvider(opts.Files), nil
	}
	return nil, &models.ValidationError{Field: "duration_provider", Message: fmt.Sprintf("unknown provider '%s'", kind)}
}

func known(seconds float64, err error) (float64, bool) {
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}

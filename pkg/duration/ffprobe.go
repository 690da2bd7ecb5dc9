package duration

import (
	"context"

	"github.com/sdejongh/mediaflow/pkg/media"
)

// FFProbeProvider asks ffprobe for the container duration
type FFProbeProvider struct {
	probe *media.FFProbe
}

// NewFFProbeProvider wraps an ffprobe runner
func NewFFProbeProvider(probe *media.FFProbe) *FFProbeProvider {
	return &FFProbeProvider{probe: probe}
}

func (p *FFProbeProvider) Name() string { return KindFFProbe }

func (p *FFProbeProvider) Open(ctx context.Context) (Session, error) {
	return ffprobeSession{probe: p.probe}, nil
}

type ffprobeSession struct {
	probe *media.FFProbe
}

func (s ffprobeSession) Duration(ctx context.Context, path string) (float64, bool) {
	return known(s.probe.Duration(ctx, path))
}

func (s ffprobeSession) Close() error { return nil }

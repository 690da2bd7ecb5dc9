package duration

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sdejongh/mediaflow/pkg/media"
)

// ContainerProvider reads the movie header of MP4, MOV and M4V files.
// Other containers report an unknown duration.
type ContainerProvider struct {
	files media.Opener
}

// NewContainerProvider creates a provider reading through files
func NewContainerProvider(files media.Opener) *ContainerProvider {
	return &ContainerProvider{files: files}
}

func (p *ContainerProvider) Name() string { return KindContainer }

func (p *ContainerProvider) Open(ctx context.Context) (Session, error) {
	return containerSession{files: p.files}, nil
}

type containerSession struct {
	files media.Opener
}

func (s containerSession) Duration(ctx context.Context, path string) (float64, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".m4v":
	default:
		return 0, false
	}
	f, err := s.files.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()
	return known(media.MP4Duration(f))
}

func (s containerSession) Close() error { return nil }

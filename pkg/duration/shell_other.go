//go:build !windows

package duration

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sdejongh/mediaflow/pkg/models"
)

const shellSupported = false

// ShellProvider is only implemented on Windows
type ShellProvider struct{}

// NewShellProvider returns a provider whose Open always fails here
func NewShellProvider() *ShellProvider {
	return &ShellProvider{}
}

func (p *ShellProvider) Name() string { return KindShell }

func (p *ShellProvider) Open(ctx context.Context) (Session, error) {
	return nil, fmt.Errorf("%w: shell metadata is not available on %s", models.ErrPlatformUnsupported, runtime.GOOS)
}

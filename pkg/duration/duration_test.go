package duration

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/mediaflow/internal/mediatest"
	"github.com/sdejongh/mediaflow/pkg/media"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/storage"
)

func TestContainerProvider(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/v/a.mp4", mediatest.MP4(640, 480, mediatest.Identity, 1000, 2500), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/v/zero.mov", mediatest.MP4(640, 480, mediatest.Identity, 600, 0), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/v/b.mkv", []byte("matroska"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/v/junk.m4v", []byte("junk"), 0644))

	p := NewContainerProvider(storage.NewLocal(fsys))
	assert.Equal(t, "container", p.Name())

	sess, err := p.Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	ctx := context.Background()
	d, ok := sess.Duration(ctx, "/v/a.mp4")
	assert.True(t, ok)
	assert.InDelta(t, 2.5, d, 1e-9)

	_, ok = sess.Duration(ctx, "/v/zero.mov")
	assert.False(t, ok, "zero duration is unknown")

	_, ok = sess.Duration(ctx, "/v/b.mkv")
	assert.False(t, ok, "unsupported container is unknown")

	_, ok = sess.Duration(ctx, "/v/junk.m4v")
	assert.False(t, ok)

	_, ok = sess.Duration(ctx, "/v/missing.mp4")
	assert.False(t, ok)
}

func TestFFProbeProvider(t *testing.T) {
	probe := media.NewFFProbe("ffprobe").WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		switch args[len(args)-1] {
		case "/v/a.mkv":
			return []byte(`{"format":{"duration":"1.200000"}}`), nil
		case "/v/na.mkv":
			return []byte(`{"format":{"duration":"N/A"}}`), nil
		}
		return nil, errors.New("exit status 1")
	})

	sess, err := NewFFProbeProvider(probe).Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	d, ok := sess.Duration(context.Background(), "/v/a.mkv")
	assert.True(t, ok)
	assert.InDelta(t, 1.2, d, 1e-9)

	_, ok = sess.Duration(context.Background(), "/v/na.mkv")
	assert.False(t, ok)

	_, ok = sess.Duration(context.Background(), "/v/broken.mkv")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	opts := Options{Files: storage.NewLocal(afero.NewMemMapFs()), FFProbePath: "definitely-not-ffprobe-on-path"}

	t.Run("None", func(t *testing.T) {
		p, err := New(KindNone, opts)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("Container", func(t *testing.T) {
		p, err := New(KindContainer, opts)
		require.NoError(t, err)
		assert.Equal(t, KindContainer, p.Name())
	})

	t.Run("FFProbeMissing", func(t *testing.T) {
		_, err := New(KindFFProbe, opts)
		assert.ErrorIs(t, err, models.ErrMissingCapability)
	})

	t.Run("AutoFallsBack", func(t *testing.T) {
		p, err := New(KindAuto, opts)
		require.NoError(t, err)
		if runtime.GOOS == "windows" {
			assert.Equal(t, KindShell, p.Name())
		} else {
			assert.Equal(t, KindContainer, p.Name())
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := New("mediainfo", opts)
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

package retention

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/mediaflow/pkg/duration"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/storage"
	"github.com/sdejongh/mediaflow/pkg/trash"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// fakeProvider answers from a name -> seconds table; missing names are unknown
type fakeProvider struct {
	durations map[string]float64
	openErr   error
	closed    bool
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Open(ctx context.Context) (duration.Session, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	return p, nil
}

func (p *fakeProvider) Duration(ctx context.Context, path string) (float64, bool) {
	d, ok := p.durations[filepath.Base(path)]
	return d, ok
}

func (p *fakeProvider) Close() error {
	p.closed = true
	return nil
}

type collector struct {
	rows     []models.RowEvent
	statuses []string
	last     models.RunStats
}

func (c *collector) Emit(e worker.Event) {
	switch e.Type {
	case worker.EventRow:
		c.rows = append(c.rows, *e.Row)
	case worker.EventStatus:
		c.statuses = append(c.statuses, e.Message)
	case worker.EventStats:
		c.last = e.Stats
	}
}

func (c *collector) byName() map[string]models.RowStatus {
	out := make(map[string]models.RowStatus)
	for _, r := range c.rows {
		out[r.Filename] = r.Status
	}
	return out
}

func setup(t *testing.T, files ...string) (afero.Fs, *storage.Local) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/videos", 0755))
	for _, f := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(f), 0755))
		require.NoError(t, afero.WriteFile(fsys, f, []byte("x"), 0644))
	}
	return fsys, storage.NewLocal(fsys)
}

func settings(action models.ActionMode) models.CleanerSettings {
	exts, _ := models.ParseExtensions(models.DefaultVideoExtensions)
	return models.CleanerSettings{
		Directory:        "/videos",
		Recursive:        true,
		ThresholdSeconds: 3.0,
		Extensions:       exts,
		Action:           action,
	}
}

func scenarioProvider() *fakeProvider {
	return &fakeProvider{durations: map[string]float64{
		"a.mp4": 1.2,
		"b.mp4": 3.0,
		"c.mov": 5.5,
	}}
}

func TestScanClassifies(t *testing.T) {
	fsys, fs := setup(t, "/videos/a.mp4", "/videos/b.mp4", "/videos/c.mov", "/videos/d.mkv", "/videos/note.txt")
	provider := scenarioProvider()

	c := &collector{}
	res, err := New(fs, provider, nil, nil).Scan(context.Background(), settings(models.ActionAnalyze), c)
	require.NoError(t, err)

	assert.Equal(t, map[string]models.RowStatus{
		"a.mp4": models.RowShort,
		"b.mp4": models.RowKeep,
		"c.mov": models.RowKeep,
		"d.mkv": models.RowUnknown,
	}, c.byName())
	assert.Equal(t, 4, res.Stats.Scanned)
	assert.Equal(t, 1, res.Stats.Short)
	assert.Equal(t, 2, res.Stats.Kept)
	assert.Equal(t, 1, res.Stats.Unknown)
	assert.Equal(t, 0, res.Stats.Deleted)
	assert.Equal(t, res.Stats, c.last)
	assert.Equal(t, []string{"Found 4 files", "Completed"}, c.statuses)
	assert.True(t, provider.closed)

	for _, r := range c.rows {
		if r.Status == models.RowUnknown {
			assert.Nil(t, r.Duration)
			assert.Equal(t, "", r.DurationString())
		}
	}

	exists, err := afero.Exists(fsys, "/videos/a.mp4")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestScanPermanentDelete(t *testing.T) {
	fsys, fs := setup(t, "/videos/a.mp4", "/videos/b.mp4", "/videos/c.mov", "/videos/d.mkv")

	c := &collector{}
	res, err := New(fs, scenarioProvider(), nil, nil).Scan(context.Background(), settings(models.ActionDelete), c)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.Deleted)
	assert.Equal(t, models.RowDeleted, c.byName()["a.mp4"])
	assert.Equal(t, models.RowUnknown, c.byName()["d.mkv"])

	for name, want := range map[string]bool{"a.mp4": false, "b.mp4": true, "c.mov": true, "d.mkv": true} {
		exists, err := afero.Exists(fsys, "/videos/"+name)
		require.NoError(t, err)
		assert.Equal(t, want, exists, name)
	}
}

func TestScanThresholdIsStrict(t *testing.T) {
	_, fs := setup(t, "/videos/edge.mp4")
	provider := &fakeProvider{durations: map[string]float64{"edge.mp4": 2.5}}

	s := settings(models.ActionAnalyze)
	s.ThresholdSeconds = 2.5
	c := &collector{}
	_, err := New(fs, provider, nil, nil).Scan(context.Background(), s, c)
	require.NoError(t, err)
	assert.Equal(t, models.RowKeep, c.byName()["edge.mp4"])

	s.ThresholdSeconds = 2.5001
	c = &collector{}
	_, err = New(fs, provider, nil, nil).Scan(context.Background(), s, c)
	require.NoError(t, err)
	assert.Equal(t, models.RowShort, c.byName()["edge.mp4"])
}

func TestScanTrash(t *testing.T) {
	_, fs := setup(t, "/videos/a.mp4", "/videos/b.mp4")

	var trashed []string
	trasher := trash.Func(func(path string) error {
		trashed = append(trashed, path)
		return nil
	})

	res, err := New(fs, scenarioProvider(), trasher, nil).Scan(context.Background(), settings(models.ActionTrash), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/videos/a.mp4"}, trashed)
	assert.Equal(t, 1, res.Stats.Deleted)
}

func TestScanTrashFailureContinues(t *testing.T) {
	_, fs := setup(t, "/videos/a.mp4", "/videos/x.mp4")
	provider := &fakeProvider{durations: map[string]float64{"a.mp4": 1, "x.mp4": 1}}

	trasher := trash.Func(func(path string) error {
		if filepath.Base(path) == "a.mp4" {
			return errors.New("permission denied")
		}
		return nil
	})

	c := &collector{}
	res, err := New(fs, provider, trasher, nil).Scan(context.Background(), settings(models.ActionTrash), c)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Errors)
	assert.Equal(t, 1, res.Stats.Deleted)
	require.Len(t, c.rows, 2)
	assert.Equal(t, models.RowError, c.rows[0].Status)
	assert.Equal(t, "permission denied", c.rows[0].Detail)
	assert.Equal(t, models.RowDeleted, c.rows[1].Status)
}

func TestScanFailsFast(t *testing.T) {
	_, fs := setup(t, "/videos/a.mp4")

	t.Run("missing directory", func(t *testing.T) {
		s := settings(models.ActionAnalyze)
		s.Directory = "/missing"
		_, err := New(fs, scenarioProvider(), nil, nil).Scan(context.Background(), s, nil)
		assert.ErrorIs(t, err, models.ErrInvalidSource)
	})

	t.Run("no provider", func(t *testing.T) {
		_, err := New(fs, nil, nil, nil).Scan(context.Background(), settings(models.ActionAnalyze), nil)
		assert.ErrorIs(t, err, models.ErrPlatformUnsupported)
	})

	t.Run("provider cannot open", func(t *testing.T) {
		provider := &fakeProvider{openErr: models.ErrPlatformUnsupported}
		_, err := New(fs, provider, nil, nil).Scan(context.Background(), settings(models.ActionAnalyze), nil)
		assert.ErrorIs(t, err, models.ErrPlatformUnsupported)
	})

	t.Run("trash without trasher", func(t *testing.T) {
		_, err := New(fs, scenarioProvider(), nil, nil).Scan(context.Background(), settings(models.ActionTrash), nil)
		assert.ErrorIs(t, err, models.ErrMissingCapability)
	})

	t.Run("negative threshold", func(t *testing.T) {
		s := settings(models.ActionAnalyze)
		s.ThresholdSeconds = -1
		_, err := New(fs, scenarioProvider(), nil, nil).Scan(context.Background(), s, nil)
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestScanCancellation(t *testing.T) {
	_, fs := setup(t, "/videos/1.mp4", "/videos/2.mp4", "/videos/3.mp4", "/videos/4.mp4", "/videos/5.mp4")
	provider := &fakeProvider{durations: map[string]float64{}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rows int
	var statuses []string
	var last models.RunStats
	sink := worker.SinkFunc(func(e worker.Event) {
		switch e.Type {
		case worker.EventRow:
			rows++
			if rows == 3 {
				cancel()
			}
		case worker.EventStats:
			last = e.Stats
		case worker.EventStatus:
			statuses = append(statuses, e.Message)
		}
	})

	res, err := New(fs, provider, nil, nil).Scan(ctx, settings(models.ActionDelete), sink)
	require.NoError(t, err)
	assert.True(t, res.Canceled)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, res.Stats.Scanned)
	assert.Equal(t, 3, last.Scanned)
	assert.Equal(t, "Canceled", statuses[len(statuses)-1])
	assert.Equal(t, 0, res.Stats.Deleted)
}

func TestScanNonRecursive(t *testing.T) {
	_, fs := setup(t, "/videos/a.mp4", "/videos/sub/b.mp4")

	s := settings(models.ActionAnalyze)
	s.Recursive = false
	c := &collector{}
	res, err := New(fs, scenarioProvider(), nil, nil).Scan(context.Background(), s, c)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Found)
	assert.Len(t, c.rows, 1)
}

func TestScanSymlinkedDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "videos")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.mp4"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "sub", "c.mov"), []byte("c"), 0644))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	cfg := settings(models.ActionDelete)
	cfg.Directory = link

	sink := &collector{}
	result, err := New(storage.NewLocal(nil), scenarioProvider(), nil, nil).Scan(context.Background(), cfg, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.Scanned)
	assert.Equal(t, map[string]models.RowStatus{"a.mp4": models.RowDeleted, "c.mov": models.RowKeep}, sink.byName())

	_, err = os.Stat(filepath.Join(target, "a.mp4"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(target, "sub", "c.mov"))
	assert.NoError(t, err)
}

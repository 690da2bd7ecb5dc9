//go:build windows

package duration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/sdejongh/mediaflow/pkg/models"
)

const shellSupported = true

// ticksPerSecond converts System.Media.Duration (100ns units) to seconds
const ticksPerSecond = 1e7

// ShellProvider reads System.Media.Duration through Shell.Application
type ShellProvider struct{}

// NewShellProvider creates the Windows Shell metadata provider
func NewShellProvider() *ShellProvider {
	return &ShellProvider{}
}

func (p *ShellProvider) Name() string { return KindShell }

// Open initializes COM on a locked OS thread; Close undoes it
func (p *ShellProvider) Open(ctx context.Context) (Session, error) {
	runtime.LockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		// S_FALSE: COM already initialized on this thread
		if !errors.As(err, &oleErr) || oleErr.Code() != 1 {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("%w: %v", models.ErrPlatformUnsupported, err)
		}
	}

	unknown, err := oleutil.CreateObject("Shell.Application")
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: %v", models.ErrPlatformUnsupported, err)
	}
	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: %v", models.ErrPlatformUnsupported, err)
	}

	return &shellSession{shell: shell, folders: make(map[string]*ole.IDispatch)}, nil
}

type shellSession struct {
	shell *ole.IDispatch
	// folders caches Folder objects per directory for the run
	folders map[string]*ole.IDispatch
	closed  bool
}

func (s *shellSession) Duration(ctx context.Context, path string) (float64, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, false
	}
	folder := s.folder(filepath.Dir(abs))
	if folder == nil {
		return 0, false
	}

	itemVar, err := oleutil.CallMethod(folder, "ParseName", filepath.Base(abs))
	if err != nil || itemVar.VT == ole.VT_NULL || itemVar.VT == ole.VT_EMPTY {
		return 0, false
	}
	item := itemVar.ToIDispatch()
	if item == nil {
		return 0, false
	}
	defer item.Release()

	prop, err := oleutil.CallMethod(item, "ExtendedProperty", "System.Media.Duration")
	if err != nil {
		return 0, false
	}
	defer prop.Clear()

	var ticks float64
	switch v := prop.Value().(type) {
	case uint64:
		ticks = float64(v)
	case int64:
		ticks = float64(v)
	case uint32:
		ticks = float64(v)
	case int32:
		ticks = float64(v)
	case float64:
		ticks = v
	default:
		return 0, false
	}
	if ticks <= 0 {
		return 0, false
	}
	return ticks / ticksPerSecond, true
}

func (s *shellSession) folder(dir string) *ole.IDispatch {
	if f, ok := s.folders[dir]; ok {
		return f
	}
	var folder *ole.IDispatch
	v, err := oleutil.CallMethod(s.shell, "NameSpace", dir)
	if err == nil && v.VT != ole.VT_NULL && v.VT != ole.VT_EMPTY {
		folder = v.ToIDispatch()
	}
	s.folders[dir] = folder
	return folder
}

// Close releases cached folders, the shell object and COM
func (s *shellSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, f := range s.folders {
		if f != nil {
			f.Release()
		}
	}
	s.folders = nil
	s.shell.Release()
	ole.CoUninitialize()
	runtime.UnlockOSThread()
	return nil
}

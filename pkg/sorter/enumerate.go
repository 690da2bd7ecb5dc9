package sorter

import (
	"context"
	"path/filepath"

	"github.com/sdejongh/mediaflow/internal/platform"
	"github.com/sdejongh/mediaflow/pkg/storage"
)

// Enumerate lists regular files under root in lexical order. Without
// recursive only the immediate children are listed. Anything equal to or
// below one of the excluded paths is left out; symlinks are not followed.
func Enumerate(ctx context.Context, fs storage.Backend, root string, recursive bool, excluded []string) ([]string, error) {
	isExcluded := func(p string) bool {
		for _, ex := range excluded {
			if platform.IsUnder(p, ex) {
				return true
			}
		}
		return false
	}

	var files []string

	if !recursive {
		entries, err := fs.ReadDir(ctx, root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsRegular && !isExcluded(e.Path) {
				files = append(files, e.Path)
			}
		}
		return files, nil
	}

	err := fs.Walk(ctx, root, func(info storage.FileInfo) error {
		if info.IsDir {
			if info.Path != root && isExcluded(info.Path) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsRegular && !isExcluded(info.Path) {
			files = append(files, info.Path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

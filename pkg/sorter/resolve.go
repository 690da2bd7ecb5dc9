package sorter

import (
	"fmt"
	"path/filepath"

	"github.com/sdejongh/mediaflow/internal/platform"
	"github.com/sdejongh/mediaflow/pkg/models"
)

// ExistsFunc reports whether a path is taken on disk
type ExistsFunc func(path string) (bool, error)

// Resolver applies the duplicate policy to a candidate destination.
// Resolve only queries existence; destinations already handed out in the
// current operation are recorded with Claim and count as taken.
type Resolver struct {
	exists  ExistsFunc
	claimed map[string]struct{}
}

// NewResolver creates a resolver backed by exists
func NewResolver(exists ExistsFunc) *Resolver {
	return &Resolver{exists: exists, claimed: make(map[string]struct{})}
}

// Claim marks dest as used by the current operation
func (r *Resolver) Claim(dest string) {
	r.claimed[filepath.Clean(dest)] = struct{}{}
}

func (r *Resolver) isClaimed(p string) bool {
	_, ok := r.claimed[filepath.Clean(p)]
	return ok
}

func (r *Resolver) taken(p string) (bool, error) {
	if r.isClaimed(p) {
		return true, nil
	}
	return r.exists(p)
}

// Resolve returns the final destination and its status:
//   - a free candidate is OK
//   - skip yields SKIP (duplicate) and keeps the candidate for display
//   - overwrite keeps the candidate with OK (overwrite); a destination
//     claimed by this operation is never overwritten and is renamed instead
//   - auto-rename inserts " (N)" before the extension, first free N from 1
func (r *Resolver) Resolve(candidate string, policy models.DuplicatePolicy) (string, models.RecordStatus, error) {
	claimed := r.isClaimed(candidate)
	onDisk, err := r.exists(candidate)
	if err != nil {
		return "", "", err
	}
	if !claimed && !onDisk {
		return candidate, models.StatusOK, nil
	}

	switch policy {
	case models.DuplicateSkip:
		return candidate, models.StatusSkipDuplicate, nil
	case models.DuplicateOverwrite:
		if !claimed {
			return candidate, models.StatusOKOverwrite, nil
		}
	}

	dir, name := filepath.Split(candidate)
	stem, ext := platform.SplitExt(name)
	for i := 1; ; i++ {
		next := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		taken, err := r.taken(next)
		if err != nil {
			return "", "", err
		}
		if !taken {
			return next, models.StatusOK, nil
		}
	}
}

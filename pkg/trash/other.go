//go:build !linux && !freebsd && !openbsd && !netbsd && !dragonfly && !darwin && !windows

package trash

import "github.com/sdejongh/mediaflow/pkg/models"

func platformTrasher() (Trasher, error) {
	return nil, &models.CapabilityError{Capability: "trash", Reason: "no trash implementation for this platform"}
}

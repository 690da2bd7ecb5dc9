// Package trash moves files to the platform's restorable trash location.
package trash

// Trasher relocates a file to the trash instead of deleting it
type Trasher interface {
	Trash(path string) error
}

// Func adapts a plain function to the Trasher interface
type Func func(path string) error

// Trash calls f(path)
func (f Func) Trash(path string) error {
	return f(path)
}

// Default returns the trasher for the current platform. It fails with an
// error matching models.ErrMissingCapability when none is available.
func Default() (Trasher, error) {
	return platformTrasher()
}

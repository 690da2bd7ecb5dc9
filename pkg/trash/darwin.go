//go:build darwin

package trash

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Finder trashes files through AppleScript so they can be put back
type Finder struct{}

func platformTrasher() (Trasher, error) {
	return Finder{}, nil
}

// Trash asks Finder to delete path
func (Finder) Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(abs)
	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file "%s"`, quoted)
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("finder delete failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

//go:build !windows && !darwin

package ui

import "os/exec"

// openInFileManager opens the given path with the desktop's handler
func openInFileManager(path string) error {
	if _, err := exec.LookPath("xdg-open"); err != nil {
		// No desktop environment available
		return nil
	}
	return exec.Command("xdg-open", path).Start()
}

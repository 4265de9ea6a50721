// Package opener hands a file to the desktop's default application.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the command opening path on the given OS.
func Command(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		// the empty argument is the window title expected by start
		return exec.Command("cmd", "/c", "start", "", path), nil
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	}
	return nil, fmt.Errorf("opening files is not supported on %s", goos)
}

// Open starts the default application for path without waiting for it.
func Open(path string) error {
	cmd, err := Command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

//go:build windows

package cmd

import (
	"errors"

	"golang.org/x/sys/windows"
)

// heldByProcess matches the errors Windows returns when another process,
// typically Excel, keeps the file open.
func heldByProcess(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}

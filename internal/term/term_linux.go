//go:build linux

// Package term answers whether a file descriptor is an interactive terminal.
package term

import "golang.org/x/sys/unix"

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
    _, err := unix.IoctlGetTermios(fd, unix.TCGETS)
    return err == nil
}

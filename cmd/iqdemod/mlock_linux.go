//go:build linux

package main

import "golang.org/x/sys/unix"

// lockMemory pins current and future pages so the audio callback never
// takes a page fault.
func lockMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}

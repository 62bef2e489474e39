//go:build unix

package port_reader

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// lockPort takes a non-blocking exclusive flock on the device so a second
// reader fails fast instead of stealing bytes. Ports without a file
// descriptor are left alone.
func lockPort(port io.ReadWriteCloser) error {
	f, ok := port.(interface{ Fd() uintptr })
	if !ok {
		return nil
	}
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return ErrPortLocked
	}
	if err != nil {
		return fmt.Errorf("flock: %w", err)
	}
	return nil
}

// Package membuf manages anonymous memory-mapped scratch buffers.
//
// Mapped buffers live outside the Go heap, so the garbage collector never
// reclaims their backing pages; Release exists to hand them back to the OS
// eagerly instead of waiting for process exit.
//
// This is a boundary utility: the accounting engine never calls it, and a
// failed release must never propagate into the accounting path. Release
// therefore traps and logs instead of returning an error.
package membuf

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/mosvani/blocktally/internal/logger"
)

// Map allocates an anonymous read-write mapping of the given size.
// The returned buffer must be handed back with Unmap or Release.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid mapping size %d", size)
	}

	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return buf, nil
}

// Unmap releases the mapping's OS backing pages. The buffer must not be
// used afterwards.
func Unmap(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if err := unix.Munmap(buf); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

// Release unmaps buf, trapping and logging any failure. Callers on paths
// that must not fail (shutdown, accounting) use Release; callers that can
// act on the error use Unmap.
func Release(buf []byte) {
	if err := Unmap(buf); err != nil {
		logger.Warn("failed to release mapped buffer", "size", len(buf), "error", err)
	}
}

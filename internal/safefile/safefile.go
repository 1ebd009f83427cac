// Package safefile provides size-limited reads of regular files.
//
// Timeline sources and bundle files are user supplied paths. Reading them
// through this package rejects symlinks and special files (a FIFO would
// block forever) and bounds the amount of memory a single file can claim.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Sentinel errors.
var (
	// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets and
	// directories.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrEmpty is returned when ReadRegular finds a zero-length file.
	ErrEmpty = errors.New("file is empty")

	// ErrTooLarge is returned when a file exceeds the read limit.
	ErrTooLarge = errors.New("file too large")
)

// OpenRegular opens path after checking, without following symlinks, that
// it names a regular file. The descriptor is stat'ed again after opening to
// catch a swap between the two calls.
//
// The caller must close the returned file.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}

	return f, info, nil
}

// ReadRegular reads a whole regular file of at most maxSize bytes.
// Errors from the file system have the path stripped so they can be shown
// to users without leaking directory layout.
func ReadRegular(path string, maxSize int64) ([]byte, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, SanitizePathError(err)
	}
	defer f.Close()

	if info.Size() == 0 {
		return nil, ErrEmpty
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), maxSize)
	}

	// Read one extra byte to detect growth after Stat.
	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, SanitizePathError(err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxSize)
	}
	return data, nil
}

// SanitizePathError removes the path from an *os.PathError.
func SanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

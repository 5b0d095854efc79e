package errors

import "fmt"

// StorageCorruptError is returned when a store file exists but does not hold well-formed JSON
type StorageCorruptError struct {
	Path string
	Err  error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("storage %s is corrupt: %v", e.Path, e.Err)
}

func (e *StorageCorruptError) Unwrap() error { return e.Err }

// StorageWriteError is returned when a store file cannot be read or replaced.
// Callers must not assume any part of the write landed.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage %s write failed: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// StorageReadError is returned when a store file exists but cannot be read
type StorageReadError struct {
	Path string
	Err  error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("storage %s read failed: %v", e.Path, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

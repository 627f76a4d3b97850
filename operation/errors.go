package operation

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any file or network I/O when no
	// usable API token is available.
	ErrMissingCredential = errors.New("no upload token found")
	// ErrNoFiles is returned when Upload is called without any path.
	ErrNoFiles = errors.New("no files to upload")
)

// FileReadError reports a path that could not be staged.
type FileReadError struct {
	Name string // argument as given
	Path string // resolved absolute path
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Name, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// ServiceError wraps any failure of the upload service call as a whole.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("upload service: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ProtocolMismatchError is returned when the service does not answer with
// exactly one result per submitted file.
type ProtocolMismatchError struct {
	Sent     int
	Received int
}

func (e *ProtocolMismatchError) Error() string {
	return fmt.Sprintf("upload service returned %d results for %d files", e.Received, e.Sent)
}

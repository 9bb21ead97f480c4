package config

import (
	"errors"
	"fmt"

	"github.com/dshills/tomlkeeper/internal/config/loader"
)

// Errors returned by store operations.
var (
	// ErrRead indicates a configuration file could not be read.
	ErrRead = errors.New("config read failed")

	// ErrWrite indicates a configuration file could not be written.
	ErrWrite = errors.New("config write failed")

	// ErrSyntax indicates a configuration file is not valid TOML.
	// Parse failures are *loader.ParseError values that match it.
	ErrSyntax = loader.ErrSyntax
)

// Operations recorded in PathError.
const (
	OpRead  = "read"
	OpWrite = "write"
)

// PathError records an I/O failure on a configuration file.
type PathError struct {
	// Op is OpRead or OpWrite.
	Op string
	// Path is the file path.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// Is implements error matching for PathError.
func (e *PathError) Is(target error) bool {
	switch target {
	case ErrRead:
		return e.Op == OpRead
	case ErrWrite:
		return e.Op == OpWrite
	}
	return false
}

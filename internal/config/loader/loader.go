// Package loader reads TOML configuration files into a generic tree.
//
// The tree is what go-toml produces for a map[string]any target, paired with
// the order in which keys first appear in the file so callers can present
// sections the way the author wrote them.
package loader

import (
	"io/fs"
	"os"
)

// FileSystem is an abstraction for the file operations the configuration
// store needs. This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the file at path with data.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
	// ReadDir lists the entries of the directory at path, sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the file at path with data.
func (OSFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists the entries of the directory at path.
func (OSFS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

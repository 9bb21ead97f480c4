package loader

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemFS is an in-memory file system. Directories exist implicitly while
// they contain at least one file, plus any added with AddDir.
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}
}

// NewMemFS returns an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
}

// AddFile stores content at name.
func (m *MemFS) AddFile(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean(name)] = []byte(content)
}

// AddDir records an empty directory.
func (m *MemFS) AddDir(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[clean(name)] = struct{}{}
}

// ReadFile returns a copy of the file content at name.
func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile stores a copy of data at name.
func (m *MemFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := clean(name)
	if m.isDirLocked(p) {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[p] = cp
	return nil
}

// Stat returns file info for name.
func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := clean(name)
	if data, ok := m.files[p]; ok {
		return &memFileInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	if m.isDirLocked(p) {
		return &memFileInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadDir lists the immediate children of the directory name, sorted.
func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := clean(name)
	if !m.isDirLocked(p) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	children := make(map[string]*memFileInfo)
	collect := func(full string, isFile bool, size int64) {
		rest, ok := childOf(p, full)
		if !ok {
			return
		}
		head, _, nested := strings.Cut(rest, "/")
		if nested || !isFile {
			children[head] = &memFileInfo{name: head, dir: true}
			return
		}
		if _, exists := children[head]; !exists {
			children[head] = &memFileInfo{name: head, size: size}
		}
	}
	for f, data := range m.files {
		collect(f, true, int64(len(data)))
	}
	for d := range m.dirs {
		collect(d, false, 0)
	}

	names := make([]string, 0, len(children))
	for n := range children {
		names = append(names, n)
	}
	sort.Strings(names)

	entries := make([]fs.DirEntry, len(names))
	for i, n := range names {
		entries[i] = fs.FileInfoToDirEntry(children[n])
	}
	return entries, nil
}

func (m *MemFS) isDirLocked(p string) bool {
	if p == "." || p == "/" {
		return true
	}
	if _, ok := m.dirs[p]; ok {
		return true
	}
	for f := range m.files {
		if _, ok := childOf(p, f); ok {
			return true
		}
	}
	for d := range m.dirs {
		if _, ok := childOf(p, d); ok {
			return true
		}
	}
	return false
}

// childOf returns the part of full below dir.
func childOf(dir, full string) (string, bool) {
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	if dir == "." {
		if strings.HasPrefix(full, "/") {
			return "", false
		}
		return full, true
	}
	if !strings.HasPrefix(full, prefix) || len(full) == len(prefix) {
		return "", false
	}
	return full[len(prefix):], true
}

func clean(name string) string {
	return path.Clean(filepath.ToSlash(name))
}

type memFileInfo struct {
	name string
	size int64
	dir  bool
}

func (f *memFileInfo) Name() string { return f.name }
func (f *memFileInfo) Size() int64  { return f.size }
func (f *memFileInfo) Mode() fs.FileMode {
	if f.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}
func (f *memFileInfo) ModTime() time.Time { return time.Time{} }
func (f *memFileInfo) IsDir() bool        { return f.dir }
func (f *memFileInfo) Sys() any           { return nil }

package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed bundled/*.png
var bundled embed.FS

// ErrNotFound is returned by a Source that does not hold the requested asset
var ErrNotFound = errors.New("asset not found")

// Source is one strategy of the app-owned asset chain
type Source interface {
	Name() string
	Read(role Role) ([]byte, error)
}

// FSSource reads assets from an fs.FS, e.g. the bundled embed.FS
type FSSource struct {
	name string
	fsys fs.FS
}

func NewFSSource(name string, fsys fs.FS) *FSSource {
	return &FSSource{name: name, fsys: fsys}
}

// Bundled returns the source backed by the assets compiled into the binary
func Bundled() *FSSource {
	sub, err := fs.Sub(bundled, "bundled")
	if err != nil {
		panic(err) // static path
	}
	return NewFSSource("bundled", sub)
}

func (s *FSSource) Name() string { return s.name }

func (s *FSSource) Read(role Role) ([]byte, error) {
	name := role.fileName()
	if name == "" {
		return nil, ErrNotFound
	}
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// DirSource reads assets from a directory on disk (app-private documents, platform bundle)
type DirSource struct {
	name string
	dir  string
}

func NewDirSource(name string, dir string) *DirSource {
	return &DirSource{name: name, dir: dir}
}

func (s *DirSource) Name() string { return s.name }

func (s *DirSource) Read(role Role) ([]byte, error) {
	name := role.fileName()
	if name == "" || s.dir == "" {
		return nil, ErrNotFound
	}
	p := filepath.Join(s.dir, name)
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxBytes {
		return nil, fmt.Errorf("%s: %w", p, ErrTooLarge)
	}
	return os.ReadFile(p)
}

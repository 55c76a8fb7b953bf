// Package resource loads named assets such as fonts.
//
// A Loader only reads bytes. Loaders are safe for concurrent use.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrNotFound is returned when no asset exists under the requested name.
var ErrNotFound = errors.New("resource: not found")

// Loader reads assets by slash-separated name.
type Loader interface {
	LoadBytes(name string) ([]byte, error)
}

// FSLoader serves assets from an fs.FS.
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader returns a loader reading from fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// NewFilesystemLoader returns a loader reading files below dir.
func NewFilesystemLoader(dir string) *FSLoader {
	return NewFSLoader(os.DirFS(dir))
}

// LoadBytes implements Loader.
func (l *FSLoader) LoadBytes(name string) ([]byte, error) {
	name = cleanName(name)
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("resource: invalid name %q: %w", name, ErrNotFound)
	}
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("resource: %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resource: read %s: %w", name, err)
	}
	return data, nil
}

// Embedded serves the Go font family compiled into the binary:
// fonts/GoRegular.ttf, fonts/GoBold.ttf and fonts/GoMono.ttf.
type Embedded struct{}

var embedded = map[string][]byte{
	"fonts/GoRegular.ttf": goregular.TTF,
	"fonts/GoBold.ttf":    gobold.TTF,
	"fonts/GoMono.ttf":    gomono.TTF,
}

// EmbeddedNames lists the names Embedded serves.
func EmbeddedNames() []string {
	return []string{"fonts/GoRegular.ttf", "fonts/GoBold.ttf", "fonts/GoMono.ttf"}
}

// LoadBytes implements Loader.
func (Embedded) LoadBytes(name string) ([]byte, error) {
	data, ok := embedded[cleanName(name)]
	if !ok {
		return nil, fmt.Errorf("resource: embedded %s: %w", name, ErrNotFound)
	}
	return data, nil
}

// Chain tries each loader in order and returns the first hit.
// Errors other than ErrNotFound stop the search.
type Chain []Loader

// LoadBytes implements Loader.
func (c Chain) LoadBytes(name string) ([]byte, error) {
	for _, l := range c {
		data, err := l.LoadBytes(name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("resource: %s: %w", name, ErrNotFound)
}

// Default returns a loader that prefers files below dir and falls back to
// the embedded assets. An empty dir uses only the embedded assets.
func Default(dir string) Loader {
	if dir == "" {
		return Embedded{}
	}
	return Chain{NewFilesystemLoader(dir), Embedded{}}
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

var (
	_ Loader = (*FSLoader)(nil)
	_ Loader = Embedded{}
	_ Loader = Chain(nil)
)

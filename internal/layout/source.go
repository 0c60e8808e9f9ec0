package layout

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Source finds the layout for a device by manufacturer and model.
// Implementations return ErrNotFound when they have no layout.
type Source interface {
	Lookup(ctx context.Context, manufacturer, model string) (*Layout, error)
}

// DirSource reads layouts from a directory tree laid out as
// <dir>/<manufacturer>/<model>.yaml.
type DirSource struct {
	dir string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Path returns the file a device's layout is expected in.
func (s *DirSource) Path(manufacturer, model string) (string, error) {
	m, err := pathSegment(manufacturer)
	if err != nil {
		return "", err
	}
	md, err := pathSegment(model)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, m, md+".yaml"), nil
}

// Lookup loads the layout file for the device.
func (s *DirSource) Lookup(ctx context.Context, manufacturer, model string) (*Layout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Path(manufacturer, model)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// pathSegment rejects names that would escape the layout directory.
func pathSegment(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}
	return name, nil
}

// Chain tries each source in order and returns the first layout found.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(ctx context.Context, manufacturer, model string) (*Layout, error) {
	for _, src := range c {
		l, err := src.Lookup(ctx, manufacturer, model)
		if err == nil {
			return l, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s %s", ErrNotFound, manufacturer, model)
}

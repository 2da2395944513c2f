package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirLoader loads assets from a directory. Reads go through os.Root, so
// symlinks and ".." cannot escape it.
type DirLoader struct {
	dir string
}

// NewDirLoader creates a DirLoader. It returns ErrInvalidBasePath unless dir
// is a readable directory.
func NewDirLoader(dir string) (*DirLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	return &DirLoader{dir: abs}, nil
}

// Dir returns the absolute asset directory.
func (d *DirLoader) Dir() string { return d.dir }

// LoadStyle implements Loader.
func (d *DirLoader) LoadStyle(name string) (string, error) {
	return d.read("styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate implements Loader.
func (d *DirLoader) LoadTemplate(name string) (string, error) {
	return d.read("templates", name, ".html", ErrTemplateNotFound)
}

func (d *DirLoader) read(sub, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	root, err := os.OpenRoot(d.dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = root.Close() }()

	content, err := root.ReadFile(filepath.Join(sub, name+ext))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", notFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

var _ Loader = (*DirLoader)(nil)

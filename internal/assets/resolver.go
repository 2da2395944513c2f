package assets

import "errors"

// Resolver loads from a custom directory first and falls back to the
// embedded assets when the custom directory lacks the asset. Validation and
// I/O errors from the custom directory are returned as is.
type Resolver struct {
	custom   Loader // nil without a custom directory
	embedded Loader
}

// NewResolver creates a Resolver. An empty dir uses embedded assets only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if dir != "" {
		custom, err := NewDirLoader(dir)
		if err != nil {
			return nil, err
		}
		r.custom = custom
	}
	return r, nil
}

// LoadStyle implements Loader.
func (r *Resolver) LoadStyle(name string) (string, error) {
	return r.load(func(l Loader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplate implements Loader.
func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.load(func(l Loader) (string, error) { return l.LoadTemplate(name) })
}

// HasCustom reports whether a custom directory is configured.
func (r *Resolver) HasCustom() bool {
	return r.custom != nil
}

func (r *Resolver) load(fn func(Loader) (string, error)) (string, error) {
	if r.custom != nil {
		content, err := fn(r.custom)
		if err == nil || !isNotFound(err) {
			return content, err
		}
	}
	return fn(r.embedded)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

var _ Loader = (*Resolver)(nil)

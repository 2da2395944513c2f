package assets

import (
	"fmt"
	"regexp"
)

// Built-in asset names.
const (
	DefaultStyle    = "default"
	DefaultTemplate = "page"
)

// Loader loads page styles and templates by name, without extension.
type Loader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateAssetName rejects names that are empty or could address anything
// but a single file in the asset directory (separators, dots, traversal).
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a set name is safe for use as a directory name.
// Rejects empty names and names containing path separators or dots.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

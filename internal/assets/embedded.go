package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed skeletons
var skeletons embed.FS

// EmbeddedLoader loads skeleton sets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadSkeletonSet loads skeletons/{name}/header.tex and footer.tex.
func (e *EmbeddedLoader) LoadSkeletonSet(name string) (*SkeletonSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := path.Join("skeletons", name)
	header, headerErr := skeletons.ReadFile(path.Join(dir, headerFile))
	footer, footerErr := skeletons.ReadFile(path.Join(dir, footerFile))

	if errors.Is(headerErr, fs.ErrNotExist) && errors.Is(footerErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrSkeletonSetNotFound, name)
	}
	if headerErr != nil {
		return nil, fmt.Errorf("%w: %q", ErrIncompleteSkeletonSet, name)
	}

	return &SkeletonSet{Name: name, Header: string(header), Footer: string(footer)}, nil
}

// List returns the names of the embedded skeleton sets, sorted.
func (e *EmbeddedLoader) List() []string {
	entries, err := fs.ReadDir(skeletons, "skeletons")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ SkeletonLoader = (*EmbeddedLoader)(nil)

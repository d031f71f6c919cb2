package cheatmark

import (
	"errors"

	"github.com/alnah/go-cheatmark/internal/assets"
)

// DefaultSkeleton is the name of the built-in skeleton set.
const DefaultSkeleton = assets.DefaultSkeletonSetName

// SkeletonLoader defines the contract for loading header and footer skeletons.
// Implementations may load from filesystem, embedded assets, a database, etc.
//
// The library provides NewAssetLoader() for filesystem-based loading with
// fallback to embedded defaults. Implement this interface for custom backends.
type SkeletonLoader interface {
	// LoadSkeletonSet loads a header and footer by set name.
	// Returns ErrSkeletonSetNotFound if the set doesn't exist.
	// Returns ErrIncompleteSkeletonSet if the header is missing.
	LoadSkeletonSet(name string) (*SkeletonSet, error)
}

// SkeletonSet holds the LaTeX text wrapped around a document body.
type SkeletonSet struct {
	Name   string // Identifier (name or path)
	Header string // Preamble and column setup, rendered with the TemplateConfig
	Footer string // Closing text; may be empty
}

// NewSkeletonSet creates a SkeletonSet from header and footer content.
func NewSkeletonSet(name, header, footer string) *SkeletonSet {
	return &SkeletonSet{Name: name, Header: header, Footer: footer}
}

// NewAssetLoader creates a SkeletonLoader for the given base path.
// If basePath is empty, returns a loader using only embedded skeletons.
// If basePath is set, custom skeletons take precedence with fallback to embedded.
//
// The basePath directory should contain skeletons/{name}/header.tex and,
// optionally, footer.tex.
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid, readable directory.
func NewAssetLoader(basePath string) (SkeletonLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// BuiltinSkeletons returns the names of the embedded skeleton sets.
func BuiltinSkeletons() []string {
	return assets.NewEmbeddedLoader().List()
}

// assetLoaderAdapter wraps the internal resolver to return public types.
type assetLoaderAdapter struct {
	resolver assets.SkeletonLoader
}

func (a *assetLoaderAdapter) LoadSkeletonSet(name string) (*SkeletonSet, error) {
	set, err := a.resolver.LoadSkeletonSet(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &SkeletonSet{Name: set.Name, Header: set.Header, Footer: set.Footer}, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrSkeletonSetNotFound),
		errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrSkeletonSetNotFound, err)
	case errors.Is(err, assets.ErrIncompleteSkeletonSet):
		return wrapError(ErrIncompleteSkeletonSet, err)
	case errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}

package assets

import "errors"

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the set is not found in the custom location.
type AssetResolver struct {
	custom   SkeletonLoader // nil if no custom path configured
	embedded SkeletonLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded skeletons are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadSkeletonSet loads a skeleton set, trying the custom loader first if available.
func (r *AssetResolver) LoadSkeletonSet(name string) (*SkeletonSet, error) {
	if r.custom == nil {
		return r.embedded.LoadSkeletonSet(name)
	}

	set, err := r.custom.LoadSkeletonSet(name)
	if err == nil {
		return set, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors.
	if !errors.Is(err, ErrSkeletonSetNotFound) {
		return nil, err
	}

	return r.embedded.LoadSkeletonSet(name)
}

// HasCustomLoader returns true if a custom skeleton loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ SkeletonLoader = (*AssetResolver)(nil)

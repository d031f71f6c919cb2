package assets

// File names inside a skeleton set directory.
const (
	headerFile = "header.tex"
	footerFile = "footer.tex"
)

// DefaultSkeletonSetName is the name of the built-in multi-column set.
const DefaultSkeletonSetName = "default"

// SkeletonSet holds the raw skeleton text wrapped around a document body.
type SkeletonSet struct {
	Name   string // Identifier (name or directory path)
	Header string // Header skeleton, required
	Footer string // Trailer skeleton, may be empty
}

// SkeletonLoader defines the contract for loading skeleton sets.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type SkeletonLoader interface {
	// LoadSkeletonSet loads a skeleton set by name.
	// Returns ErrSkeletonSetNotFound if the set doesn't exist.
	// Returns ErrIncompleteSkeletonSet if the header is missing.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadSkeletonSet(name string) (*SkeletonSet, error)
}

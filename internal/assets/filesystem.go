package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads skeleton sets from a directory on the filesystem.
// Implements SkeletonLoader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Containment checks compare real paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// BasePath returns the resolved base directory.
func (f *FilesystemLoader) BasePath() string {
	return f.basePath
}

// LoadSkeletonSet loads {basePath}/skeletons/{name}/header.tex and footer.tex.
// The footer is optional.
func (f *FilesystemLoader) LoadSkeletonSet(name string) (*SkeletonSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dirPath := filepath.Join(f.basePath, "skeletons", name)
	if err := f.verifyPathContainment(dirPath + string(filepath.Separator)); err != nil {
		return nil, err
	}

	headerPath := filepath.Join(dirPath, headerFile)
	footerPath := filepath.Join(dirPath, footerFile)
	if err := f.verifyPathContainment(headerPath); err != nil {
		return nil, err
	}
	if err := f.verifyPathContainment(footerPath); err != nil {
		return nil, err
	}

	header, headerErr := os.ReadFile(headerPath) // #nosec G304 -- path validated above
	footer, footerErr := os.ReadFile(footerPath) // #nosec G304 -- path validated above

	if os.IsNotExist(headerErr) && os.IsNotExist(footerErr) {
		return nil, fmt.Errorf("%w: %q", ErrSkeletonSetNotFound, name)
	}
	if headerErr != nil && !os.IsNotExist(headerErr) {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, headerFile, headerErr)
	}
	if footerErr != nil && !os.IsNotExist(footerErr) {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, footerFile, footerErr)
	}
	if os.IsNotExist(headerErr) {
		return nil, fmt.Errorf("%w: %q", ErrIncompleteSkeletonSet, name)
	}

	return &SkeletonSet{
		Name:   name,
		Header: string(header),
		Footer: string(footer),
	}, nil
}

// verifyPathContainment ensures the resolved file path is within basePath.
// Symlinks are resolved so a link pointing outside basePath is rejected.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its unresolved path; opening it fails later.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	// Separator suffix rejects /base/path vs /base/pathevil.
	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}

	return nil
}

// Compile-time interface check.
var _ SkeletonLoader = (*FilesystemLoader)(nil)

package pipeline

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalImage is an image reference that resolves to a file under the
// source directory.
type LocalImage struct {
	Ref  string // workspace-relative name, as pandoc will look it up
	Path string // absolute path on disk
}

// CollectImages resolves the relative image destinations of doc against
// sourceDir. If sourceDir is empty, returns nil.
//
// Skipped:
//   - URLs, data URIs and anchors (left to pandoc)
//   - absolute paths (already resolvable from the workspace)
//   - paths escaping sourceDir, directly or through a symlink
//   - missing files and directories
func CollectImages(doc Document, sourceDir string) ([]LocalImage, error) {
	if sourceDir == "" {
		return nil, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(absSourceDir); err == nil {
		absSourceDir = resolved
	}

	seen := make(map[string]bool)
	var images []LocalImage
	for _, dest := range doc.Images {
		ref, ok := localRef(dest)
		if !ok || seen[ref] {
			continue
		}

		absPath, err := filepath.EvalSymlinks(filepath.Join(absSourceDir, filepath.FromSlash(ref)))
		if err != nil {
			continue
		}
		if !isPathUnderDir(absPath, absSourceDir) {
			continue
		}
		if info, err := os.Stat(absPath); err != nil || !info.Mode().IsRegular() {
			continue
		}

		seen[ref] = true
		images = append(images, LocalImage{Ref: ref, Path: absPath})
	}
	return images, nil
}

// localRef returns the unescaped, slash-separated form of dest if it is a
// relative local path that stays inside its base directory.
func localRef(dest string) (string, bool) {
	if !isRelativePath(dest) {
		return "", false
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	// Strip a query or fragment some editors append.
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	if !filepath.IsLocal(filepath.FromSlash(dest)) {
		return "", false
	}
	return filepath.ToSlash(filepath.Clean(dest)), true
}

// isRelativePath returns true if the path is a candidate for collection.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	// Skip anchors
	if strings.HasPrefix(path, "#") {
		return false
	}

	// Skip absolute paths
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return false
	}

	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath, cleanDir)
}

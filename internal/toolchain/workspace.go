package toolchain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// workspacePrefix names workspace directories: cheatmark-<uuid>.
const workspacePrefix = "cheatmark-"

// Workspace is a private directory holding one document and its assets
// while it is compiled.
type Workspace struct {
	dir string
}

// NewWorkspace creates a workspace under parent. An empty parent means
// os.TempDir().
func NewWorkspace(parent string) (*Workspace, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, workspacePrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path resolves name inside the workspace.
// Returns ErrInvalidAssetName unless name is local (no "..", not absolute).
func (w *Workspace) Path(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return filepath.Join(w.dir, name), nil
}

// AddAsset writes data to name, creating subdirectories as needed.
func (w *Workspace) AddAsset(name string, data []byte) error {
	path, err := w.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating asset directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing asset %s: %w", name, err)
	}
	return nil
}

// CopyAsset copies the file at src to name.
func (w *Workspace) CopyAsset(src, name string) (err error) {
	path, err := w.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating asset directory: %w", err)
	}

	in, err := os.Open(src) // #nosec G304 -- caller validates src
	if err != nil {
		return fmt.Errorf("opening asset: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304 -- path is local to the workspace
	if err != nil {
		return fmt.Errorf("creating asset: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing asset: %w", closeErr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying asset %s: %w", name, err)
	}
	return nil
}

// ReadFile reads name from the workspace.
func (w *Workspace) ReadFile(name string) ([]byte, error) {
	path, err := w.Path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path) // #nosec G304 -- path is local to the workspace
}

// Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("removing workspace: %w", err)
	}
	return nil
}

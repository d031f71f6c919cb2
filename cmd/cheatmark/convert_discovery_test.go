package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-cheatmark"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.md", "# A")
	b := writeFile(t, dir, "sub/b.markdown", "# B")
	writeFile(t, dir, "notes.txt", "skip")

	t.Run("directory in place", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(dir, "", pdfExt)
		if err != nil {
			t.Fatal(err)
		}
		want := []FileToConvert{
			{InputPath: a, OutputPath: filepath.Join(dir, "a.pdf")},
			{InputPath: b, OutputPath: filepath.Join(dir, "sub", "b.pdf")},
		}
		if diff := cmp.Diff(want, files); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("directory mirrored into output dir", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(dir, "out")
		files, err := discoverFiles(dir, out, texExt)
		if err != nil {
			t.Fatal(err)
		}
		if got := files[1].OutputPath; got != filepath.Join(out, "sub", "b.tex") {
			t.Errorf("OutputPath = %q", got)
		}
	})

	t.Run("single file with explicit output", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(a, "/tmp/sheet.pdf", pdfExt)
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 1 || files[0].OutputPath != "/tmp/sheet.pdf" {
			t.Errorf("files = %+v", files)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "notes.txt"), "", pdfExt)
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})
}

func TestErrorLogPath(t *testing.T) {
	t.Parallel()

	if got := errorLogPath(filepath.Join("out", "git.pdf")); got != filepath.Join("out", "git_errors.log") {
		t.Errorf("errorLogPath() = %q", got)
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, cheatmark.MaxPoolSize} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) = %v", n, err)
		}
	}
	for _, n := range []int{-1, cheatmark.MaxPoolSize + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

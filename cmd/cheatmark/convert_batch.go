package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	LogPath    string // set when the toolchain reported warnings
	Cached     bool
	Err        error
	Duration   time.Duration
}

// batchParams groups values shared by every file of a batch.
type batchParams struct {
	template *cheatmark.TemplateConfig
	texOnly  bool
}

// convertBatch processes files with one worker per pool slot, so at most
// pool.Size() files are read and held in memory at once. Results keep the
// order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *batchParams) []ConversionResult {
	results := make([]ConversionResult, len(files))
	if len(files) == 0 {
		return results
	}

	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	workers := min(max(pool.Size(), 1), len(files))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = convertFile(ctx, pool, files[i], params)
			}
		}()
	}
	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, pool Pool, f FileToConvert, params *batchParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	res, err := pool.Convert(ctx, cheatmark.Input{
		Markdown:  string(content),
		SourceDir: filepath.Dir(f.InputPath),
		Config:    params.template,
		TeXOnly:   params.texOnly,
	})
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}

	data := res.PDF
	if params.texOnly {
		data = res.TeX
	}
	if err := fileutil.WriteFile(f.OutputPath, data, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	logPath := errorLogPath(f.OutputPath)
	if res.Log != "" {
		if err := fileutil.WriteFile(logPath, []byte(res.Log+"\n"), filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
		result.LogPath = logPath
	} else {
		_ = os.Remove(logPath)
	}

	result.Cached = res.Cached
	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}
		if r.LogPath != "" {
			fmt.Fprintf(env.Stderr, "WARNING %s: TeX log written to %s\n", r.InputPath, r.LogPath)
		}

		if quiet {
			continue
		}

		switch {
		case verbose && r.Cached:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, cached)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// firstError returns the first failure, for exit code selection.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

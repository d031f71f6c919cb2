package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/alnah/go-cheatmark/internal/hints"
	"github.com/alnah/go-cheatmark/internal/toolchain"
)

// doctorTimeout bounds each --version probe.
const doctorTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Tools    []toolInfo `json:"tools"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds detection results for one executable.
type toolInfo struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorTool describes an executable to probe.
type doctorTool struct {
	name     string
	envVar   string // overrides the executable path
	required bool
}

var doctorTools = []doctorTool{
	{name: "pandoc", envVar: "CHEATMARK_PANDOC", required: true},
	{name: "pdflatex", envVar: "CHEATMARK_PDFLATEX", required: true},
	{name: "mermaid-filter"},
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 4 = a required tool is missing,
// 1 = other errors.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(ctx, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status != "errors" {
		return ExitSuccess
	}
	for _, t := range result.Tools {
		if t.Required && !t.Found {
			return ExitToolchain
		}
	}
	return ExitGeneral
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	for _, t := range doctorTools {
		checkTool(ctx, result, t, env)
	}
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTool locates t and records its version.
func checkTool(ctx context.Context, result *doctorResult, t doctorTool, env *Environment) {
	info := toolInfo{Name: t.name, Required: t.required}
	defer func() { result.Tools = append(result.Tools, info) }()

	name := t.name
	if t.envVar != "" {
		if v := os.Getenv(t.envVar); v != "" {
			name = v
		}
	}

	path, err := env.LookPath(name)
	if err != nil {
		if t.required {
			result.Errors = append(result.Errors, fmt.Sprintf("%s not found in PATH%s", t.name, hints.ForToolNotFound(t.name)))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s not found (optional pandoc filter)", t.name))
		}
		return
	}
	info.Found = true
	info.Path = path

	probeCtx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()
	version, err := toolchain.Version(probeCtx, env.Runner, path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not get %s version: %v", t.name, err))
		return
	}
	info.Version = version
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("CHEATMARK_CONTAINER") == "1" {
		return true, "CHEATMARK_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies that workspaces can be created.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "cheatmark-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "cheatmark doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Toolchain")
	for _, t := range r.Tools {
		switch {
		case t.Found && t.Version != "":
			fmt.Fprintf(w, "  [OK] %s: %s (%s)\n", t.Name, t.Path, t.Version)
		case t.Found:
			fmt.Fprintf(w, "  [OK] %s: %s\n", t.Name, t.Path)
		case t.Required:
			fmt.Fprintf(w, "  [ERROR] %s: not found\n", t.Name)
		default:
			fmt.Fprintf(w, "  [WARN] %s: not found\n", t.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

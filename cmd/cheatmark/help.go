package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatmark <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert markdown files to cheat-sheet PDFs")
	fmt.Fprintln(w, "  render     Print the assembled LaTeX for a markdown file")
	fmt.Fprintln(w, "  serve      Run the HTTP conversion service")
	fmt.Fprintln(w, "  doctor     Check that pandoc and pdflatex are usable")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cheatmark help <command>' for details on a specific command.")
}

func printTemplateUsage(w io.Writer) {
	fmt.Fprintln(w, "Layout:")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape (default: landscape)")
	fmt.Fprintln(w, "      --font-size <f>       Body font size in points (default: 5)")
	fmt.Fprintln(w, "      --line-spacing <f>    Baseline skip in points (default: 5)")
	fmt.Fprintln(w, "      --columns <n>         Number of columns, 1-10 (default: 3)")
	fmt.Fprintln(w, "      --column-sep <len>    Space between columns (default: 1mm)")
	fmt.Fprintln(w, "      --margin-y <len>      Top and bottom margin (default: 1mm)")
	fmt.Fprintln(w, "      --margin-x <len>      Left and right margin (default: 1mm)")
}

func printToolchainUsage(w io.Writer) {
	fmt.Fprintln(w, "Toolchain:")
	fmt.Fprintln(w, "      --pandoc <path>       pandoc executable")
	fmt.Fprintln(w, "      --pdflatex <path>     pdflatex executable")
	fmt.Fprintln(w, "      --filter <name>       pandoc filter, repeatable (e.g. mermaid-filter)")
	fmt.Fprintln(w, "      --passes <n>          pdflatex runs, 1-5 (default: 1)")
	fmt.Fprintln(w, "      --lenient             Keep a PDF produced despite TeX errors")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (default: 30s)")
}

func printAssetUsage(w io.Writer) {
	fmt.Fprintln(w, "Skeletons:")
	fmt.Fprintln(w, "  -s, --skeleton <name>     Skeleton set (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory containing skeletons/<name>/")
}

func printCacheUsage(w io.Writer) {
	fmt.Fprintln(w, "Cache:")
	fmt.Fprintln(w, "      --cache <backend>     none, file, redis (default: none)")
	fmt.Fprintln(w, "      --cache-dir <dir>     File cache directory")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timings and toolchain logs")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatmark convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a markdown file, or every markdown file under a directory, to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel conversions (0 = auto)")
	fmt.Fprintln(w, "      --tex-only            Write the assembled .tex instead of a PDF")
	fmt.Fprintln(w)
	printTemplateUsage(w)
	fmt.Fprintln(w)
	printToolchainUsage(w)
	fmt.Fprintln(w)
	printAssetUsage(w)
	fmt.Fprintln(w)
	printCacheUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatmark render <input.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the LaTeX document pdflatex would compile.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w)
	printTemplateUsage(w)
	fmt.Fprintln(w)
	printToolchainUsage(w)
	fmt.Fprintln(w)
	printAssetUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatmark serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve POST /convert and GET /health.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Service:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default: :8000)")
	fmt.Fprintln(w, "  -d, --data-dir <dir>      Markdown sources for path requests (default: data)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent conversions (0 = auto)")
	fmt.Fprintln(w, "      --log-format <s>      text, json, logfmt")
	fmt.Fprintln(w)
	printToolchainUsage(w)
	fmt.Fprintln(w)
	printAssetUsage(w)
	fmt.Fprintln(w)
	printCacheUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: cheatmark doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that pandoc and pdflatex are installed and the temp directory is writable.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: cheatmark version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: cheatmark help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

// Package cheatmark converts Markdown documents to dense, multi-column PDF
// cheat sheets using pandoc and pdflatex.
//
// # Quick Start
//
// Create a converter and convert markdown:
//
//	conv, err := cheatmark.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, cheatmark.Input{
//	    Markdown: "# Git\n\n`git log --oneline`",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("git.pdf", result.PDF, 0644)
//
// The result contains the PDF bytes (result.PDF) and the assembled LaTeX
// source (result.TeX). Use Input.TeXOnly to skip pdflatex.
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (line normalization, ==highlight== syntax)
//  2. DOT diagram blocks rendered to PNG assets (go-graphviz)
//  3. Relative local images copied into a private work directory
//  4. Markdown to a LaTeX body via pandoc
//  5. Header and footer skeletons rendered with the TemplateConfig
//  6. header ++ body ++ footer typeset by pdflatex
//
// # Skeletons
//
// A skeleton is LaTeX text with $-placeholders:
//
//	\fontsize{${fontSize}pt}{${lineSpacing}pt}\selectfont
//	$if_multicol_start
//	\begin{multicols*}{$columnNum}
//	$if_multicol_end
//
// $name and ${name} are replaced by TemplateConfig values, $$ is a literal
// dollar sign, and $if_X_start … $if_X_end blocks are kept only when flag X
// is set. The multicol flag is set when ColumnNum is greater than one.
//
// Override the built-in skeletons with a directory:
//
//	assets/
//	└── skeletons/
//	    └── compact/
//	        ├── header.tex
//	        └── footer.tex
//
//	conv, err := cheatmark.NewConverter(
//	    cheatmark.WithAssetPath("assets"),
//	    cheatmark.WithSkeleton("compact"),
//	)
//
// # Parallel Processing
//
// Each pdflatex run is CPU heavy. ConverterPool bounds how many run at once:
//
//	pool, err := cheatmark.NewConverterPool(4)
//	defer pool.Close()
//	result, err := pool.Convert(ctx, input)
//
// # Toolchain Requirements
//
// pandoc and pdflatex must be installed, or their paths set with
// WithPandocPath and WithPDFLaTeXPath. The default skeleton needs the
// multicol, geometry and soul LaTeX packages.
package cheatmark

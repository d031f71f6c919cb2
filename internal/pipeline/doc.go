// Package pipeline prepares Markdown before it is handed to pandoc.
//
// This package handles the stages that run on the source text:
//   - Markdown preprocessing (line normalization, highlight syntax)
//   - Scanning the Markdown AST (goldmark) for images and diagram blocks
//   - Rendering DOT diagram blocks to PNG assets (go-graphviz)
//   - Collecting local images to copy into the compile workspace
//
// LaTeX generation and typesetting are handled by the toolchain package.
// Everything here is pure text work apart from reading image files.
package pipeline

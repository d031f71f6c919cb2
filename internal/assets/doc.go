// Package assets provides the LaTeX skeleton sets used to wrap converted
// Markdown into a complete document.
//
// A skeleton set is a named pair of files: header.tex, which holds the
// preamble and opens the document, and an optional footer.tex that closes it.
// Two sets ship in the binary: "default", a landscape multi-column cheat
// sheet, and "plain", a single flowing column.
//
// Loaders:
//
//	EmbeddedLoader   built-in sets compiled in with go:embed
//	FilesystemLoader sets under {basePath}/skeletons/{name}/
//	AssetResolver    filesystem first, embedded when the set is absent there
//
// On disk a set looks like:
//
//	{basePath}/skeletons/{name}/header.tex
//	{basePath}/skeletons/{name}/footer.tex
//
// Set names may not contain separators or "..". The filesystem loader
// evaluates symlinks and refuses any file resolving outside basePath.
package assets

// Package toolchain runs the external typesetting tools: pandoc turns
// Markdown into a LaTeX fragment and pdflatex compiles the assembled
// document into a PDF.
//
// Every invocation is a blocking subprocess bound to a context.Context. On
// cancellation the whole process group is killed, so a runaway TeX run
// never outlives its request. Compilation happens inside a Workspace, a
// private temp directory removed by Close.
//
// Tool failures are reported as *Failure values that carry the tool's
// output verbatim and unwrap to ErrConversion.
package toolchain

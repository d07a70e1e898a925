// Package pipeline implements the Markdown-to-HTML rendering pipeline.
//
// Stages, in order:
//   - Preprocessing (line endings, ==mark== syntax)
//   - Front matter parsing
//   - Markdown to HTML conversion via goldmark or blackfriday
//   - Fragment substitution (code chunk output placeholders)
//   - [TOC] marker expansion
//   - Document assembly with preview and code-block theme CSS
//   - Asset resolution: offline image inlining, file:// path rewriting
//
// Code chunk execution happens before this package sees the markdown; the
// caller hands over the resulting markdown plus the HTML fragments keyed by
// placeholder token. Browser rendering lives in the root mdexport package.
package pipeline

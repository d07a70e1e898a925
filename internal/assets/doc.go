// Package assets resolves document themes for HTML and Chrome export.
//
// # Theme Kinds
//
// Two kinds of theme style an exported document:
//
//   - Preview themes: CSS for the document body (github-light, github-dark,
//     solarized-light, none).
//   - Code-block themes: CSS for highlighted code. Names follow the preview
//     editor convention (default.css, monokai.css, ...) and map onto chroma
//     styles; chroma's HTML formatter generates the stylesheet.
//
// # Loader Architecture
//
//	ThemeLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed preview themes + chroma code themes
//	    ├── FilesystemLoader  - custom directory on disk
//	    └── ThemeResolver     - custom first, embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── preview/
//	│   └── {name}.css
//	└── code/
//	    └── {name}.css
//
// # Security
//
// Theme names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets

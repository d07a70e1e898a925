// Package mdexport renders Markdown documents to HTML and, through headless
// Chrome, to PDF, PNG or JPEG.
//
// # Quick Start
//
// Create an engine, initialize it, export, and close when done:
//
//	eng, err := mdexport.NewEngine(mdexport.DefaultExportConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	if err := eng.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	html, err := eng.HTMLExport(ctx, mdexport.HTMLExportOptions{RunAllCodeChunks: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf, err := eng.ChromeExport(ctx, mdexport.ChromeExportOptions{
//	    FileType:         mdexport.FileTypePDF,
//	    RunAllCodeChunks: true,
//	})
//
// Orchestrator runs exactly that sequence and stops at the first failure.
//
// # Rendering Pipeline
//
//  1. Line ending normalization and front matter extraction
//  2. Code chunks: fenced blocks with a {cmd=...} attribute block are run
//     (or replayed from an earlier export) and their output spliced in
//  3. Markdown to HTML via goldmark (default) or blackfriday, with chroma
//     syntax highlighting
//  4. Document assembly with the preview theme, code-block theme and page CSS
//  5. Offline exports inline local images as data URIs; Chrome exports
//     rewrite relative references to file:// URLs
//  6. Chrome renders the document (go-rod by default, chromedp optionally)
//
// # Code Chunks
//
//	```python {cmd=true id="setup"}
//	x = 21
//	```
//
//	```python {cmd=true continue="setup" output="markdown"}
//	print(f"**{x * 2}**")
//	```
//
// Chunks run only when ExportConfig.EnableScriptExecution is set. A chunk
// that fails renders an error block; it does not fail the export.
//
// # Browser Requirements
//
// Chrome exports require Chrome/Chromium. The go-rod backend downloads a
// managed Chromium on first run (~/.cache/rod/browser/) when none is found.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mdexport

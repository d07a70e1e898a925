// Package codechunk finds executable fenced code blocks in markdown, runs
// them and splices their output back into the document.
//
// A chunk is a fenced block whose info string ends in an attribute block:
//
//	```python {cmd=true id="setup" output="text"}
//	print("hello")
//	```
//
// Recognised attributes: cmd, args, id, continue, hide, output, stdin.
// Blocks without cmd are never executed but still have their attribute
// block stripped before rendering. Tangle extracts chunks whose id starts
// with an underscore into source files.
package codechunk

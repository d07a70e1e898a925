package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrDocumentRender indicates the document shell could not be rendered.
var ErrDocumentRender = errors.New("document template rendering failed")

// BodyClass is set on <body> so preview themes can scope their rules.
const BodyClass = "markdown-preview"

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- if .PreviewCSS}}
<style id="preview-theme">{{.PreviewCSS}}</style>
{{- end}}
{{- if .CodeCSS}}
<style id="code-theme">{{.CodeCSS}}</style>
{{- end}}
{{- if .PageCSS}}
<style id="page-settings">{{.PageCSS}}</style>
{{- end}}
</head>
<body class="{{.BodyClass}}">
{{.Body}}
</body>
</html>
`

var documentTmpl = template.Must(template.New("document").Parse(documentTemplate))

// Document holds the parts of a standalone HTML page.
type Document struct {
	Title      string
	PreviewCSS string
	CodeCSS    string
	PageCSS    string
	Body       string
}

type documentData struct {
	Title      string
	PreviewCSS template.CSS
	CodeCSS    template.CSS
	PageCSS    template.CSS
	BodyClass  string
	Body       template.HTML
}

// Render produces the complete HTML5 document. CSS is sanitized before it
// is placed inside <style> blocks; the body is trusted rendered markdown.
func (d Document) Render() (string, error) {
	data := documentData{
		Title:      d.Title,
		PreviewCSS: template.CSS(sanitizeCSS(d.PreviewCSS)), // #nosec G203 -- sanitized theme CSS
		CodeCSS:    template.CSS(sanitizeCSS(d.CodeCSS)),    // #nosec G203 -- sanitized theme CSS
		PageCSS:    template.CSS(sanitizeCSS(d.PageCSS)),    // #nosec G203 -- generated page CSS
		BodyClass:  BodyClass,
		Body:       template.HTML(d.Body), // #nosec G203 -- rendered markdown
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

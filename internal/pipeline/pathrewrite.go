package pipeline

import (
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdexport/internal/fileutil"
)

// RewriteRelativePaths converts relative img[src] and a[href] references to
// absolute file:// URLs so a browser loading the document from a temporary
// location still finds the source's assets. If sourceDir is empty, returns
// the HTML unchanged.
//
// Media elements, srcset, CSS url() and script[src] are left alone, as are
// absolute paths, URLs, anchors and references escaping sourceDir.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	walkElements(doc, func(n *html.Node) {
		switch n.Data {
		case "img":
			rewriteAttr(n, "src", absSourceDir)
		case "a":
			rewriteAttr(n, "href", absSourceDir)
		}
	})

	return renderHTML(doc, isFragment)
}

// RelocateRelativePaths rewrites relative img[src] and a[href] references,
// written relative to sourceDir, so they resolve from outDir instead. It is
// used when an HTML export is written outside the source directory. Query
// strings and fragments are kept. If either directory is empty or both are
// the same, returns the HTML unchanged.
func RelocateRelativePaths(htmlContent, sourceDir, outDir string) (string, error) {
	if sourceDir == "" || outDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return "", err
	}
	if absSourceDir == absOutDir {
		return htmlContent, nil
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	walkElements(doc, func(n *html.Node) {
		switch n.Data {
		case "img":
			relocateAttr(n, "src", absSourceDir, absOutDir)
		case "a":
			relocateAttr(n, "href", absSourceDir, absOutDir)
		}
	})

	return renderHTML(doc, isFragment)
}

func relocateAttr(n *html.Node, attrName, sourceDir, outDir string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		ref, suffix := attr.Val, ""
		if j := strings.IndexAny(ref, "?#"); j >= 0 {
			ref, suffix = ref[:j], ref[j:]
		}
		if ref == "" {
			continue
		}

		target := filepath.Join(sourceDir, filepath.FromSlash(ref))
		rel, err := filepath.Rel(outDir, target)
		if err != nil {
			continue
		}
		n.Attr[i].Val = filepath.ToSlash(rel) + suffix
	}
}

// parseHTML parses a full document or, failing the doctype/html prefix, a
// body fragment wrapped in a document node for uniform traversal.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML serializes the tree. Fragments render only their children.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteAttr(n *html.Node, attrName, sourceDir string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(sourceDir, attr.Val)
		if !isPathUnderDir(absPath, sourceDir) {
			continue
		}
		n.Attr[i].Val = fileutil.FileURL(absPath)
	}
}

// isRelativePath reports whether a reference points at a file relative to
// the source document.
func isRelativePath(path string) bool {
	switch {
	case path == "",
		fileutil.IsURL(path),
		strings.HasPrefix(path, "file://"),
		strings.HasPrefix(path, "#"),
		strings.HasPrefix(path, "mailto:"),
		filepath.IsAbs(path):
		return false
	}
	return true
}

// isPathUnderDir checks that absPath does not escape dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

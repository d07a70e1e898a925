package pipeline

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"
)

// MaxInlineImageSize caps the size of a local image embedded as a data URI.
// Larger images keep their original reference.
var MaxInlineImageSize int64 = 10 << 20

// InlineLocalImages replaces relative img[src] references with data URIs so
// the HTML is self-contained. The MIME type is sniffed from the file content.
// Remote URLs, missing files, oversized files, non-images and paths escaping
// sourceDir keep their original reference.
func InlineLocalImages(htmlContent, sourceDir string) (string, error) {
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
		if n.Data != "img" {
			return
		}
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isRelativePath(attr.Val) {
				continue
			}
			if uri, ok := dataURI(absSourceDir, attr.Val); ok {
				n.Attr[i].Val = uri
			}
		}
	})
	return renderHTML(doc, isFragment)
}

func dataURI(sourceDir, ref string) (string, bool) {
	// Drop any query or fragment part before resolving the file.
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	path := filepath.Join(sourceDir, filepath.FromSlash(ref))
	if !isPathUnderDir(path, sourceDir) {
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() > MaxInlineImageSize {
		return "", false
	}
	data, err := os.ReadFile(path) // #nosec G304 -- contained in the source directory
	if err != nil {
		return "", false
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", false
	}
	mediaType := mtype.String()
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

// walkElements calls fn for every element node under n in document order.
func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

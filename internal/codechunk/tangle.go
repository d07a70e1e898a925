package codechunk

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/alnah/go-mdexport/internal/fileutil"
)

// Sentinel errors for tangling.
var (
	ErrNoTangleChunks  = errors.New("no tangle chunks found")
	ErrInvalidFileName = errors.New("invalid tangle file name")
)

// tangleSuffix is the ordering suffix dropped from a tangle name: "_01".
var tangleSuffix = regexp.MustCompile(`_\d\d$`)

// TangledFile is one source file assembled from chunks.
type TangledFile struct {
	Name    string
	Ext     string
	Content string
	Chunks  int
}

// TangleName returns the file name a chunk id tangles into and whether the
// id is marked for tangling at all. Marked ids start with "_"; a trailing
// "_NN" only orders chunks within the file: "_stack_02" -> "stack".
func TangleName(id string) (string, bool) {
	if !strings.HasPrefix(id, "_") {
		return "", false
	}
	base := id
	if tangleSuffix.MatchString(id) {
		base = id[:len(id)-3]
	}
	name := strings.TrimPrefix(base, "_")
	return name, name != ""
}

// Tangle collects the lang chunks marked for tangling and groups them into
// files. Chunks are stably sorted by file name, so chunks sharing a name
// keep document order. Each chunk is followed by a newline. Malformed
// attributes or continue references do not stop tangling.
func Tangle(markdown, lang string) ([]TangledFile, error) {
	doc := Parse(markdown)

	type keeper struct {
		name string
		c    *Chunk
	}
	var keepers []keeper
	for _, c := range doc.Chunks {
		if !strings.EqualFold(c.Lang, lang) {
			continue
		}
		if name, ok := TangleName(c.ID); ok {
			keepers = append(keepers, keeper{name: name, c: c})
		}
	}
	if len(keepers) == 0 {
		return nil, fmt.Errorf("%w for language %q", ErrNoTangleChunks, lang)
	}
	sort.SliceStable(keepers, func(i, j int) bool { return keepers[i].name < keepers[j].name })

	ext := Extension(lang)
	var files []TangledFile
	for _, k := range keepers {
		if n := len(files); n == 0 || files[n-1].Name != k.name {
			files = append(files, TangledFile{Name: k.name, Ext: ext})
		}
		f := &files[len(files)-1]
		f.Content += k.c.Code + "\n"
		f.Chunks++
	}
	return files, nil
}

// WriteTangled writes files into dir as <name>.<ext> and returns the paths.
func WriteTangled(dir string, files []TangledFile) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := fileutil.ValidateExtension(f.Ext); err != nil {
			return nil, err
		}
		if strings.ContainsAny(f.Name, "/\\\x00") || f.Name == "." || f.Name == ".." {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFileName, f.Name)
		}
		path := filepath.Join(dir, f.Name+"."+f.Ext)
		if err := fileutil.WriteFileAtomic(path, []byte(f.Content)); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

package codechunk

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for chunk parsing. They are recorded on the chunk in
// Chunk.Err; a malformed chunk never fails the document.
var (
	ErrUnknownContinue = errors.New("continue refers to unknown chunk")
	ErrContinueCycle   = errors.New("continue chain forms a cycle")
	ErrInvalidOutput   = errors.New("invalid output mode")
)

// OutputMode controls how a chunk's stdout is placed in the document.
type OutputMode string

// Output modes.
const (
	OutputText     OutputMode = "text"
	OutputMarkdown OutputMode = "markdown"
	OutputHTML     OutputMode = "html"
	OutputNone     OutputMode = "none"
)

// Chunk is a fenced code block carrying an attribute block.
type Chunk struct {
	// Index is the chunk's position among all chunks in the document.
	Index int
	ID    string
	Lang  string
	// Cmd is the program to run; empty when the chunk is not executable.
	Cmd  string
	Args []string
	// Continue is the index of the chunk whose code is prepended, or -1.
	Continue int
	Hide     bool
	Output   OutputMode
	Stdin    bool
	// Code is the block body, each line terminated by "\n".
	Code  string
	Attrs map[string]string
	// Line is the 1-based line of the opening fence.
	Line int
	// Err describes a malformed attribute block or continue reference.
	// A chunk with Err is rendered as an error instead of running.
	Err error

	fence      string
	indent     string
	start, end int // line span [start, end) in the scanned document
}

// Executable reports whether the chunk has a program to run.
func (c *Chunk) Executable() bool { return c.Cmd != "" }

// fenceOpen matches an opening fence: indent, fence run, info string.
var fenceOpen = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})(.*)$")

// Document is a markdown body split into lines with its chunks located.
type Document struct {
	lines  []string
	Chunks []*Chunk
}

// Parse scans markdown for chunks. Line endings must be "\n".
func Parse(markdown string) *Document {
	doc := &Document{lines: strings.SplitAfter(markdown, "\n")}
	if n := len(doc.lines); n > 0 && doc.lines[n-1] == "" {
		doc.lines = doc.lines[:n-1]
	}

	continues := map[*Chunk]string{}
	for i := 0; i < len(doc.lines); i++ {
		m := fenceOpen.FindStringSubmatch(strings.TrimSuffix(doc.lines[i], "\n"))
		if m == nil {
			continue
		}
		indent, fence, info := m[1], m[2], m[3]
		if fence[0] == '`' && strings.Contains(info, "`") {
			continue
		}

		end := closingFence(doc.lines, i+1, fence)
		lang, attrText, hasAttrs := splitInfo(info)
		if !hasAttrs {
			i = end
			continue
		}

		attrs, attrErr := ParseAttributes(attrText)
		c, cont := newChunk(len(doc.Chunks), lang, attrs)
		if attrErr != nil {
			c.Err = attrErr
		}
		c.Line = i + 1
		c.fence, c.indent = fence, indent
		c.start = i
		c.end = min(end+1, len(doc.lines))
		c.Code = body(doc.lines[i+1:min(end, len(doc.lines))], indent)
		if cont != "" {
			continues[c] = cont
		}
		doc.Chunks = append(doc.Chunks, c)
		i = end
	}

	doc.resolveContinues(continues)
	return doc
}

// closingFence returns the index of the line closing fence, or len(lines)
// when the block runs to the end of the document.
func closingFence(lines []string, from int, fence string) int {
	for j := from; j < len(lines); j++ {
		line := strings.TrimSuffix(lines[j], "\n")
		trimmed := strings.TrimLeft(line, " ")
		if len(line)-len(trimmed) > 3 {
			continue
		}
		run := len(trimmed) - len(strings.TrimLeft(trimmed, fence[:1]))
		if run >= len(fence) && strings.TrimSpace(trimmed[run:]) == "" {
			return j
		}
	}
	return len(lines)
}

// splitInfo separates "python {cmd=true}" into language and attribute text.
func splitInfo(info string) (lang, attrs string, ok bool) {
	info = strings.TrimSpace(info)
	open := strings.IndexByte(info, '{')
	if open < 0 || !strings.HasSuffix(info, "}") {
		return firstField(info), "", false
	}
	return firstField(info[:open]), info[open+1 : len(info)-1], true
}

func firstField(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// body strips up to len(indent) leading spaces from each line.
func body(lines []string, indent string) string {
	var b strings.Builder
	for _, line := range lines {
		n := 0
		for n < len(indent) && n < len(line) && line[n] == ' ' {
			n++
		}
		b.WriteString(line[n:])
		if !strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func newChunk(index int, lang string, attrs []Attr) (*Chunk, string) {
	c := &Chunk{
		Index:    index,
		Lang:     lang,
		Continue: -1,
		Output:   OutputText,
		Attrs:    make(map[string]string, len(attrs)),
	}

	var cont string
	for _, a := range attrs {
		if a.List != nil {
			c.Attrs[a.Key] = strings.Join(a.List, " ")
		} else {
			c.Attrs[a.Key] = a.Value
		}

		switch a.Key {
		case "cmd":
			switch a.Value {
			case "false", "":
			case "true":
				c.Cmd = programFor(lang).program
			default:
				c.Cmd = a.Value
			}
		case "args":
			if a.List != nil {
				c.Args = a.List
			} else {
				c.Args = strings.Fields(a.Value)
			}
		case "id":
			c.ID = a.Value
		case "continue":
			if a.Value != "false" {
				cont = a.Value
			}
		case "hide":
			c.Hide = a.Value != "false"
		case "stdin":
			c.Stdin = a.Value != "false"
		case "output":
			switch mode := OutputMode(a.Value); mode {
			case OutputText, OutputMarkdown, OutputHTML, OutputNone:
				c.Output = mode
			default:
				c.Err = fmt.Errorf("%w: %q", ErrInvalidOutput, a.Value)
			}
		}
	}
	return c, cont
}

// resolveContinues turns continue references into chunk indexes. Unknown
// targets and cycles are recorded on the referring chunk, which then
// continues nothing.
func (d *Document) resolveContinues(refs map[*Chunk]string) {
	byID := make(map[string]int, len(d.Chunks))
	for _, c := range d.Chunks {
		if c.ID != "" {
			if _, dup := byID[c.ID]; !dup {
				byID[c.ID] = c.Index
			}
		}
	}

	for _, c := range d.Chunks {
		ref, ok := refs[c]
		if !ok {
			continue
		}
		if ref == "true" {
			if c.Index == 0 {
				c.Err = fmt.Errorf("%w: no previous chunk", ErrUnknownContinue)
				continue
			}
			c.Continue = c.Index - 1
			continue
		}
		target, ok := byID[ref]
		if !ok {
			c.Err = fmt.Errorf("%w: %q", ErrUnknownContinue, ref)
			continue
		}
		c.Continue = target
	}

	// The link that closes a cycle is cut.
	for _, c := range d.Chunks {
		seen := map[int]bool{c.Index: true}
		for cur := c; cur.Continue >= 0; cur = d.Chunks[cur.Continue] {
			if seen[cur.Continue] {
				cur.Err = ErrContinueCycle
				cur.Continue = -1
				break
			}
			seen[cur.Continue] = true
		}
	}
}

// FullCode returns the code of the chunk's continue chain followed by the
// chunk's own code.
func (d *Document) FullCode(c *Chunk) string {
	var chain []*Chunk
	for cur := c; cur != nil; {
		chain = append(chain, cur)
		if cur.Continue < 0 {
			break
		}
		cur = d.Chunks[cur.Continue]
	}

	var b strings.Builder
	for i := len(chain) - 1; i >= 0; i-- {
		b.WriteString(chain[i].Code)
	}
	return b.String()
}

package codechunk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
)

// Placeholder tokens are Private Use Area delimited so markdown parsers pass
// them through untouched.
const (
	tokenStart = "\uE002"
	tokenEnd   = "\uE003"
)

// Token returns the placeholder left in the markdown for chunk index i.
func Token(i int) string {
	return tokenStart + "chunk-output-" + strconv.Itoa(i) + tokenEnd
}

// Options selects how Process treats executable chunks.
type Options struct {
	// Execute allows chunks to run or replay. When false every chunk renders
	// as plain code.
	Execute bool
	// RunAll runs every executable chunk. When false, results cached by an
	// earlier run of the same session are replayed.
	RunAll bool
}

// Output is the processed markdown and the HTML fragments its placeholder
// tokens stand for.
type Output struct {
	Markdown  string
	Fragments map[string]string
	// Ran counts chunks executed during this call.
	Ran int
	// Failed counts chunks whose result is an error.
	Failed int
}

// Session processes documents and remembers chunk results between calls,
// so an export can replay what an earlier export ran.
type Session struct {
	runner Runner

	mu    sync.Mutex
	cache map[string]Result
}

// NewSession creates a Session backed by runner.
func NewSession(runner Runner) *Session {
	return &Session{runner: runner, cache: make(map[string]Result)}
}

// Process parses markdown, runs or replays its chunks and returns the
// markdown with attribute blocks stripped and outputs spliced in.
// Chunks run sequentially in document order.
func (s *Session) Process(ctx context.Context, markdown string, opts Options) (*Output, error) {
	doc := Parse(markdown)

	out := &Output{Fragments: make(map[string]string)}
	results := make(map[int]Result, len(doc.Chunks))
	for _, c := range doc.Chunks {
		if !opts.Execute {
			continue
		}
		if c.Err != nil {
			// Malformed chunks render as errors without running.
			if c.Executable() || errors.Is(c.Err, ErrInvalidAttributes) {
				results[c.Index] = Result{Err: fmt.Errorf("line %d: %w", c.Line, c.Err)}
			}
			continue
		}
		if !c.Executable() {
			continue
		}
		code := doc.FullCode(c)
		key := cacheKey(c, code)

		if !opts.RunAll {
			if res, ok := s.lookup(key); ok {
				results[c.Index] = res
			}
			continue
		}

		res, err := s.runner.Run(ctx, c, code)
		if err != nil {
			return nil, fmt.Errorf("chunk at line %d: %w", c.Line, err)
		}
		s.store(key, res)
		results[c.Index] = res
		out.Ran++
	}

	var b strings.Builder
	next := 0
	for _, c := range doc.Chunks {
		for _, line := range doc.lines[next:c.start] {
			b.WriteString(line)
		}
		next = c.end

		if !c.Hide || !opts.Execute || !c.Executable() {
			writeFence(&b, c)
		}
		res, ok := results[c.Index]
		if !ok {
			continue
		}
		if res.Failed() {
			out.Failed++
		}
		writeOutput(&b, out.Fragments, c, res)
	}
	for _, line := range doc.lines[next:] {
		b.WriteString(line)
	}

	out.Markdown = b.String()
	return out, nil
}

func (s *Session) lookup(key string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.cache[key]
	return res, ok
}

func (s *Session) store(key string, res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = res
}

// cacheKey identifies a chunk run by position, command and code, so an
// edited chunk never replays a stale result.
func cacheKey(c *Chunk, code string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%s\x00%s\x00%v\x00%s", c.Index, c.Cmd, strings.Join(c.Args, "\x01"), c.Stdin, code)
	return hex.EncodeToString(h.Sum(nil))
}

// writeFence re-emits the chunk as an ordinary fenced block.
func writeFence(b *strings.Builder, c *Chunk) {
	b.WriteString(c.indent + c.fence + c.Lang + "\n")
	for _, line := range strings.SplitAfter(c.Code, "\n") {
		if line != "" {
			b.WriteString(c.indent + line)
		}
	}
	b.WriteString(c.indent + c.fence + "\n")
}

// writeOutput places a chunk result after its block: markdown output
// inline, everything else as a placeholder for an HTML fragment.
func writeOutput(b *strings.Builder, fragments map[string]string, c *Chunk, res Result) {
	if res.Failed() {
		addFragment(b, fragments, c, errorFragment(c, res))
		return
	}

	switch c.Output {
	case OutputNone:
	case OutputMarkdown:
		b.WriteString("\n")
		b.WriteString(res.Stdout)
		if !strings.HasSuffix(res.Stdout, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	case OutputHTML:
		addFragment(b, fragments, c,
			fmt.Sprintf(`<div class="code-chunk-output" id="chunk-output-%d">%s</div>`, c.Index, res.Stdout))
	default:
		if res.Stdout == "" {
			return
		}
		addFragment(b, fragments, c,
			fmt.Sprintf(`<pre class="code-chunk-output" id="chunk-output-%d">%s</pre>`, c.Index, html.EscapeString(res.Stdout)))
	}
}

func addFragment(b *strings.Builder, fragments map[string]string, c *Chunk, fragment string) {
	token := Token(c.Index)
	fragments[token] = fragment
	b.WriteString("\n" + token + "\n\n")
}

func errorFragment(c *Chunk, res Result) string {
	var msg strings.Builder
	msg.WriteString(res.Stdout)
	if res.Stdout != "" && !strings.HasSuffix(res.Stdout, "\n") {
		msg.WriteByte('\n')
	}
	msg.WriteString(res.Stderr)
	if res.Stderr != "" && !strings.HasSuffix(res.Stderr, "\n") {
		msg.WriteByte('\n')
	}
	msg.WriteString(res.Err.Error())
	return fmt.Sprintf(`<pre class="code-chunk-output error" id="chunk-output-%d">%s</pre>`,
		c.Index, html.EscapeString(msg.String()))
}

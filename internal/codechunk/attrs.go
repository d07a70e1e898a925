package codechunk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAttributes indicates a malformed chunk attribute block.
var ErrInvalidAttributes = errors.New("invalid chunk attributes")

// Attr is one key/value pair from an attribute block. Keys given without a
// value have Value "true". List values populate List and leave Value empty.
type Attr struct {
	Key   string
	Value string
	List  []string
}

// ParseAttributes parses the inside of a "{...}" attribute block.
//
// Entries are separated by whitespace or commas. Values follow "=" or ":"
// and are double-quoted, single-quoted, bracketed lists or bare words.
// ".name" is shorthand for class=name and "#name" for id=name.
func ParseAttributes(s string) ([]Attr, error) {
	p := &attrParser{src: s}
	var attrs []Attr
	for {
		p.skipSeparators()
		if p.done() {
			return attrs, nil
		}
		a, err := p.entry()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
		}
		attrs = append(attrs, a)
	}
}

type attrParser struct {
	src string
	pos int
}

func (p *attrParser) done() bool { return p.pos >= len(p.src) }

func (p *attrParser) peek() byte { return p.src[p.pos] }

func (p *attrParser) skipSeparators() {
	for !p.done() && (isSpace(p.peek()) || p.peek() == ',') {
		p.pos++
	}
}

func (p *attrParser) skipSpaces() {
	for !p.done() && isSpace(p.peek()) {
		p.pos++
	}
}

func (p *attrParser) entry() (Attr, error) {
	switch p.peek() {
	case '.':
		p.pos++
		return Attr{Key: "class", Value: p.word()}, nil
	case '#':
		p.pos++
		return Attr{Key: "id", Value: p.word()}, nil
	}

	key := p.word()
	if key == "" {
		return Attr{}, fmt.Errorf("unexpected %q at offset %d", p.peek(), p.pos)
	}

	p.skipSpaces()
	if p.done() || (p.peek() != '=' && p.peek() != ':') {
		return Attr{Key: key, Value: "true"}, nil
	}
	p.pos++
	p.skipSpaces()
	if p.done() {
		return Attr{}, fmt.Errorf("missing value for %q", key)
	}

	if p.peek() == '[' {
		list, err := p.list()
		if err != nil {
			return Attr{}, fmt.Errorf("%s: %w", key, err)
		}
		return Attr{Key: key, List: list}, nil
	}
	v, err := p.value()
	if err != nil {
		return Attr{}, fmt.Errorf("%s: %w", key, err)
	}
	return Attr{Key: key, Value: v}, nil
}

// word reads a bare token.
func (p *attrParser) word() string {
	start := p.pos
	for !p.done() {
		c := p.peek()
		if isSpace(c) || strings.IndexByte(",=:[]\"'", c) >= 0 {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *attrParser) value() (string, error) {
	switch q := p.peek(); q {
	case '"', '\'':
		return p.quoted(q)
	default:
		w := p.word()
		if w == "" {
			return "", fmt.Errorf("unexpected %q at offset %d", p.peek(), p.pos)
		}
		return w, nil
	}
}

func (p *attrParser) quoted(q byte) (string, error) {
	start := p.pos
	p.pos++
	var b strings.Builder
	for !p.done() {
		c := p.peek()
		p.pos++
		switch {
		case c == '\\' && !p.done():
			b.WriteByte(p.peek())
			p.pos++
		case c == q:
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("unterminated string at offset %d", start)
}

func (p *attrParser) list() ([]string, error) {
	start := p.pos
	p.pos++
	items := []string{}
	for {
		p.skipSeparators()
		if p.done() {
			return nil, fmt.Errorf("unterminated list at offset %d", start)
		}
		if p.peek() == ']' {
			p.pos++
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

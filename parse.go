package sapling

import (
	"strings"
	"unicode"
)

// delimiters are the characters a primitive may never contain.
const delimiters = ":{}[],"

// StripSpace removes every whitespace character from text. The grammar is
// whitespace-insignificant, which also means primitives cannot contain spaces.
func StripSpace(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// Parse strips whitespace from text and parses it as a single value of any
// kind. Every Value is allocated from a.
func Parse(a *Arena, text string) (*Value, error) {
	src := StripSpace(text)
	if src == "" {
		return nil, syntaxErrorf(0, "empty input")
	}
	p := &parser{arena: a, src: src}
	return p.parse(0, len(src)-1)
}

// ParseDocument parses a scene document. After whitespace stripping the text
// must begin with '{' and end with '}'; this is checked before any recursive
// parsing happens.
func ParseDocument(a *Arena, text string) (*Value, error) {
	src := StripSpace(text)
	if src == "" || src[0] != '{' || src[len(src)-1] != '}' {
		return nil, syntaxErrorf(0, "document must be enclosed in a top-level object")
	}
	p := &parser{arena: a, src: src}
	return p.parse(0, len(src)-1)
}

type parser struct {
	arena *Arena
	src   string
}

// span is an inclusive [start, end] range of the stripped source.
type span struct {
	start, end int
}

// scope tracks the braces and brackets opened and not yet closed.
type scope struct {
	open []byte
}

// step feeds src[i] into the scope. Closers must match the innermost opener.
func (s *scope) step(src string, i int) error {
	switch c := src[i]; c {
	case '{', '[':
		s.open = append(s.open, c)
	case '}':
		if len(s.open) == 0 || s.open[len(s.open)-1] != '{' {
			return syntaxErrorf(i, "malformed input: closed curly brace with no matching opening brace")
		}
		s.open = s.open[:len(s.open)-1]
	case ']':
		if len(s.open) == 0 || s.open[len(s.open)-1] != '[' {
			return syntaxErrorf(i, "malformed input: closed square bracket with no matching opening bracket")
		}
		s.open = s.open[:len(s.open)-1]
	}
	return nil
}

// outer reports whether no brace or bracket is currently open.
func (s *scope) outer() bool {
	return len(s.open) == 0
}

func (s *scope) unclosed(at int) error {
	return syntaxErrorf(at, "malformed input: unclosed '%c'", s.open[len(s.open)-1])
}

// parse parses src[start..end] as one value. The last index seen with an
// empty scope marks the closer matching the outermost opener.
func (p *parser) parse(start, end int) (*Value, error) {
	if start > end {
		return nil, syntaxErrorf(start, "empty value")
	}

	var sc scope
	final := -1
	for i := start; i <= end; i++ {
		if err := sc.step(p.src, i); err != nil {
			return nil, err
		}
		if sc.outer() {
			final = i
		}
	}
	if !sc.outer() {
		return nil, sc.unclosed(end)
	}

	switch {
	case p.src[start] == '{' && p.src[final] == '}':
		return p.parseObject(start+1, final-1)
	case p.src[start] == '[' && p.src[final] == ']':
		return p.parseArray(start+1, final-1)
	default:
		return p.parsePrimitive(start, final)
	}
}

func (p *parser) parsePrimitive(start, end int) (*Value, error) {
	text := p.src[start : end+1]
	if i := strings.IndexAny(text, delimiters); i >= 0 {
		return nil, syntaxErrorf(start+i, "invalid character %q in value %q", text[i], text)
	}
	v := newPrimitive(p.arena, text)
	if v == nil {
		return nil, capacityError("primitive", p.arena)
	}
	return v, nil
}

func (p *parser) parseArray(start, end int) (*Value, error) {
	arr := newArray(p.arena)
	if arr == nil {
		return nil, capacityError("array", p.arena)
	}
	if start > end {
		return arr, nil
	}

	spans, err := p.split(start, end, "array entry")
	if err != nil {
		return nil, err
	}
	arr.Items = make([]*Value, 0, len(spans))
	for _, s := range spans {
		v, err := p.parse(s.start, s.end)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
	}
	return arr, nil
}

func (p *parser) parseObject(start, end int) (*Value, error) {
	obj := newObject(p.arena)
	if obj == nil {
		return nil, capacityError("object", p.arena)
	}
	if start > end {
		return obj, nil
	}

	spans, err := p.split(start, end, "object attribute")
	if err != nil {
		return nil, err
	}
	obj.Fields = make([]Field, 0, len(spans))
	for _, s := range spans {
		colon, err := p.colon(s)
		if err != nil {
			return nil, err
		}
		name := p.src[s.start:colon]
		if name == "" {
			return nil, syntaxErrorf(s.start, "empty attribute name")
		}
		if i := strings.IndexAny(name, delimiters); i >= 0 {
			return nil, syntaxErrorf(s.start+i, "invalid character %q in attribute name %q", name[i], name)
		}
		v, err := p.parse(colon+1, s.end)
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, Field{Name: name, Value: v})
	}
	return obj, nil
}

// split cuts src[start..end] at every comma outside nested braces and
// brackets. Zero-length pieces (leading, doubled or trailing commas) fail.
func (p *parser) split(start, end int, what string) ([]span, error) {
	var (
		sc    scope
		spans []span
	)
	begin := start
	for i := start; i <= end; i++ {
		if err := sc.step(p.src, i); err != nil {
			return nil, err
		}
		if sc.outer() && p.src[i] == ',' {
			if begin > i-1 {
				return nil, syntaxErrorf(i, "empty %s", what)
			}
			spans = append(spans, span{begin, i - 1})
			begin = i + 1
		}
	}
	if !sc.outer() {
		return nil, sc.unclosed(end)
	}
	if begin > end {
		return nil, syntaxErrorf(end, "empty %s", what)
	}
	return append(spans, span{begin, end}), nil
}

// colon returns the index of the only top-level colon in s.
func (p *parser) colon(s span) (int, error) {
	var sc scope
	found := -1
	for i := s.start; i <= s.end; i++ {
		if err := sc.step(p.src, i); err != nil {
			return 0, err
		}
		if !sc.outer() || p.src[i] != ':' {
			continue
		}
		if found >= 0 {
			return 0, syntaxErrorf(i, "too many colons; attributes must be key-value pairs")
		}
		found = i
	}
	if found < 0 {
		return 0, syntaxErrorf(s.start, "no colon found in key-value pair")
	}
	return found, nil
}

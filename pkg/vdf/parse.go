package vdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// SyntaxError describes malformed input.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("vdf: line %d: %s", e.Line, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokOpen
	tokClose
	tokCondition
)

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	data   []byte
	pos    int
	line   int
	peeked *token
}

// Parse decodes a text KeyValues document.
func Parse(r io.Reader) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes decodes a text KeyValues document held in memory.
func ParseBytes(data []byte) (*Map, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	lx := &lexer{data: data, line: 1}
	root := NewMap()
	err := lx.parseMap(root, 0)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (lx *lexer) parseMap(m *Map, depth int) error {
	for {
		tok, err := lx.next()
		if err != nil {
			return err
		}

		switch tok.kind {
		case tokEOF:
			if depth > 0 {
				return &SyntaxError{Line: tok.line, Msg: "unexpected end of input, missing '}'"}
			}
			return nil
		case tokClose:
			if depth == 0 {
				return &SyntaxError{Line: tok.line, Msg: "unexpected '}'"}
			}
			return nil
		case tokString:
		default:
			return &SyntaxError{Line: tok.line, Msg: fmt.Sprintf("expected key, got %q", tok.text)}
		}

		key := tok.text

		value, err := lx.nextSkippingConditions()
		if err != nil {
			return err
		}

		switch value.kind {
		case tokOpen:
			child := NewMap()
			err = lx.parseMap(child, depth+1)
			if err != nil {
				return err
			}
			m.add(key, child)
		case tokString:
			err = lx.skipCondition()
			if err != nil {
				return err
			}
			m.add(key, value.text)
		default:
			return &SyntaxError{Line: value.line, Msg: fmt.Sprintf("expected value for key %q", key)}
		}
	}
}

func (lx *lexer) nextSkippingConditions() (token, error) {
	for {
		tok, err := lx.next()
		if err != nil || tok.kind != tokCondition {
			return tok, err
		}
	}
}

// skipCondition consumes a [$PLATFORM] suffix if one follows.
func (lx *lexer) skipCondition() error {
	tok, err := lx.next()
	if err != nil {
		return err
	}
	if tok.kind != tokCondition {
		lx.peeked = &tok
	}
	return nil
}

func (lx *lexer) next() (token, error) {
	if lx.peeked != nil {
		tok := *lx.peeked
		lx.peeked = nil
		return tok, nil
	}

	lx.skipSpaceAndComments()
	if lx.pos >= len(lx.data) {
		return token{kind: tokEOF, line: lx.line}, nil
	}

	c := lx.data[lx.pos]
	switch c {
	case '{':
		lx.pos++
		return token{kind: tokOpen, text: "{", line: lx.line}, nil
	case '}':
		lx.pos++
		return token{kind: tokClose, text: "}", line: lx.line}, nil
	case '[':
		return lx.readCondition()
	case '"':
		return lx.readQuoted()
	default:
		return lx.readUnquoted(), nil
	}
}

func (lx *lexer) skipSpaceAndComments() {
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		switch {
		case c == '\n':
			lx.line++
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '/' && lx.pos+1 < len(lx.data) && lx.data[lx.pos+1] == '/':
			for lx.pos < len(lx.data) && lx.data[lx.pos] != '\n' {
				lx.pos++
			}
		default:
			return
		}
	}
}

func (lx *lexer) readQuoted() (token, error) {
	start := lx.line
	lx.pos++ // opening quote

	var sb strings.Builder
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		switch c {
		case '"':
			lx.pos++
			return token{kind: tokString, text: sb.String(), line: start}, nil
		case '\\':
			if lx.pos+1 >= len(lx.data) {
				sb.WriteByte(c)
				lx.pos++
				continue
			}
			sb.WriteString(unescape(lx.data[lx.pos+1]))
			lx.pos += 2
		case '\n':
			lx.line++
			sb.WriteByte(c)
			lx.pos++
		default:
			sb.WriteByte(c)
			lx.pos++
		}
	}

	return token{}, &SyntaxError{Line: start, Msg: "unterminated quoted string"}
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\':
		return "\\"
	case '"':
		return "\""
	default:
		return "\\" + string(c)
	}
}

func (lx *lexer) readUnquoted() token {
	start := lx.pos
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '"' || c == '{' || c == '}' {
			break
		}
		lx.pos++
	}
	return token{kind: tokString, text: string(lx.data[start:lx.pos]), line: lx.line}
}

func (lx *lexer) readCondition() (token, error) {
	start := lx.pos
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		if c == ']' {
			return token{kind: tokCondition, text: string(lx.data[start:lx.pos]), line: lx.line}, nil
		}
		if c == '\n' {
			break
		}
	}
	return token{}, &SyntaxError{Line: lx.line, Msg: "unterminated conditional"}
}

package minifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

const hex = "0123456789abcdef"

// syntaxError carries the decoder offset of a malformed document
type syntaxError struct {
	Offset int64
	Err    error
}

func (e *syntaxError) Error() string { return e.Err.Error() }
func (e *syntaxError) Unwrap() error { return e.Err }

type frame struct {
	object bool
	n      int // tokens emitted inside the container
}

// Compact re-encodes a single JSON document with ',' and ':' as the only
// separators. Object key order and number literals are kept as written,
// strings are re-escaped with non-ASCII characters emitted literally.
func Compact(src []byte) ([]byte, error) {
	if !utf8.Valid(src) {
		return nil, &syntaxError{Offset: int64(invalidUTF8Offset(src)), Err: errors.New("invalid UTF-8 in JSON text")}
	}
	// The decoder would replace these with U+FFFD
	if off := unpairedSurrogateOffset(src); off >= 0 {
		return nil, &syntaxError{Offset: int64(off), Err: errors.New("unpaired UTF-16 surrogate escape in string")}
	}

	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()

	var out bytes.Buffer
	out.Grow(len(src))

	var stack []frame
	started := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if !started {
				return nil, &syntaxError{Offset: 0, Err: errors.New("empty JSON document")}
			}
			return nil, &syntaxError{Offset: dec.InputOffset(), Err: io.ErrUnexpectedEOF}
		}
		if err != nil {
			return nil, wrapSyntax(err, dec.InputOffset())
		}
		started = true

		if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
			stack = stack[:len(stack)-1]
			out.WriteByte(byte(d))
		} else {
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				switch {
				case top.object && top.n%2 == 1:
					out.WriteByte(':')
				case top.n > 0:
					out.WriteByte(',')
				}
				top.n++
			}
			if err := writeToken(&out, tok); err != nil {
				return nil, err
			}
			if d, ok := tok.(json.Delim); ok {
				stack = append(stack, frame{object: d == '{'})
			}
		}

		if len(stack) == 0 {
			break
		}
	}

	// Exactly one top-level value is allowed
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, wrapSyntax(err, dec.InputOffset())
	}

	return out.Bytes(), nil
}

// IsCompact reports whether src is already in the form Compact produces
func IsCompact(src []byte) (bool, error) {
	compacted, err := Compact(src)
	if err != nil {
		return false, err
	}
	return bytes.Equal(compacted, src), nil
}

func writeToken(out *bytes.Buffer, tok json.Token) error {
	switch v := tok.(type) {
	case json.Delim:
		out.WriteByte(byte(v))
	case string:
		writeString(out, v)
	case json.Number:
		out.WriteString(v.String())
	case bool:
		if v {
			out.WriteString("true")
		} else {
			out.WriteString("false")
		}
	case nil:
		out.WriteString("null")
	default:
		return fmt.Errorf("unexpected JSON token %T", tok)
	}
	return nil
}

// writeString quotes s escaping only what JSON requires: quote, backslash
// and control characters. Everything else, including non-ASCII, is literal.
func writeString(out *bytes.Buffer, s string) {
	out.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		out.WriteString(s[start:i])
		switch c {
		case '"', '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		case '\b':
			out.WriteString(`\b`)
		case '\f':
			out.WriteString(`\f`)
		default:
			out.WriteString(`\u00`)
			out.WriteByte(hex[c>>4])
			out.WriteByte(hex[c&0xF])
		}
		start = i + 1
	}
	out.WriteString(s[start:])
	out.WriteByte('"')
}

func wrapSyntax(err error, offset int64) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		offset = se.Offset
	}
	return &syntaxError{Offset: offset, Err: err}
}

func invalidUTF8Offset(src []byte) int {
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// unpairedSurrogateOffset returns the offset of the first \uD800-\uDFFF
// escape that is not a high surrogate directly followed by an escaped low
// surrogate, or -1. Malformed escapes are left to the decoder.
func unpairedSurrogateOffset(src []byte) int {
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			continue
		}
		switch c {
		case '"':
			inString = false
		case '\\':
			if i+1 < len(src) && src[i+1] == 'u' {
				r, ok := hex4(src, i+2)
				switch {
				case !ok:
				case r >= 0xDC00 && r <= 0xDFFF:
					return i
				case r >= 0xD800 && r <= 0xDBFF:
					if i+7 >= len(src) || src[i+6] != '\\' || src[i+7] != 'u' {
						return i
					}
					if low, ok := hex4(src, i+8); !ok || low < 0xDC00 || low > 0xDFFF {
						return i
					}
					// skip to the low surrogate's backslash
					i += 6
				}
			}
			i++
		}
	}
	return -1
}

// hex4 decodes the four hex digits at src[i:i+4]
func hex4(src []byte, i int) (int, bool) {
	if i+4 > len(src) {
		return 0, false
	}
	r := 0
	for _, c := range src[i : i+4] {
		switch {
		case c >= '0' && c <= '9':
			c -= '0'
		case c >= 'a' && c <= 'f':
			c = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			c = c - 'A' + 10
		default:
			return 0, false
		}
		r = r<<4 | int(c)
	}
	return r, true
}

package jsonurl

import (
	"unicode/utf8"

	"github.com/jsonurl/jsonurl-go/internal/chars"
)

// aqfDialect is the address-bar-friendly syntax. There is no quoting: ! escapes
// the character after it and %XX decodes to a single character before any other
// rule applies, so %28 opens a composite and %21 starts an escape.
type aqfDialect struct{ text string }

func (d aqfDialect) decodeOrdinal(pos int) (byte, int, error) {
	c := d.text[pos]
	if c != '%' {
		return c, pos + 1, nil
	}
	if pos+2 >= len(d.text) {
		return 0, 0, syntaxErr(CodeBadPercentEncoding, pos)
	}
	hi, ok1 := unhex(d.text[pos+1])
	lo, ok2 := unhex(d.text[pos+2])
	if !ok1 || !ok2 {
		return 0, 0, syntaxErr(CodeBadPercentEncoding, pos)
	}
	return hi<<4 | lo, pos + 3, nil
}

func (d aqfDialect) findLiteralEnd(pos, end int) (int, error) {
	for i := pos; i < end; {
		c, next, err := d.decodeOrdinal(i)
		if err != nil {
			return 0, err
		}
		switch {
		case c == '!':
			if next >= end {
				return 0, syntaxErr(CodeBadEscape, i)
			}
			if _, next, err = d.decodeOrdinal(next); err != nil {
				return 0, err
			}
		case chars.Any(c, chars.Struct):
			return i, nil
		case d.text[i] != '%' && chars.Lookup(c) == 0:
			return 0, syntaxErr(CodeUnexpectedCharacter, i)
		}
		i = next
	}
	return end, nil
}

func (d aqfDialect) literalText(pos, end int) (string, bool, error) {
	s, escaped, err := d.decode(pos, end)
	return s, !escaped, err
}

func (d aqfDialect) parseStringLiteral(pos, end int, _ bool) (string, error) {
	s, _, err := d.decode(pos, end)
	return s, err
}

// decode applies the escape rules to [pos, end) and reports whether any !
// escape was present.
func (d aqfDialect) decode(pos, end int) (string, bool, error) {
	buf := make([]byte, 0, end-pos)
	escaped := false
	for i := pos; i < end; {
		c, next, err := d.decodeOrdinal(i)
		if err != nil {
			return "", false, err
		}
		if c != '!' {
			if c == '+' && d.text[i] == '+' {
				c = ' '
			}
			buf = append(buf, c)
			i = next
			continue
		}
		if next >= end {
			return "", false, syntaxErr(CodeBadEscape, i)
		}
		e, after, err := d.decodeOrdinal(next)
		if err != nil {
			return "", false, err
		}
		switch {
		case e == 'e' && i == pos && after == end:
			return "", true, nil
		case isAQFEscapable(e):
			buf = append(buf, e)
		default:
			return "", false, syntaxErr(CodeBadEscape, i)
		}
		escaped = true
		i = after
	}
	if !utf8.Valid(buf) {
		return "", false, syntaxErr(CodeBadPercentEncoding, pos)
	}
	return string(buf), escaped, nil
}

// isAQFEscapable reports whether !c is a valid escape. Besides the structural
// characters, the leading characters of true, false, null and numbers may be
// escaped so a string can spell them.
func isAQFEscapable(c byte) bool {
	switch c {
	case '(', ')', ',', ':', '!', '+', '\'', '&', '=', 't', 'f', 'n', '-':
		return true
	}
	return isDigit(c)
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

package jsonurl

import (
	"net/url"
	"unicode/utf8"

	"github.com/jsonurl/jsonurl-go/internal/chars"
)

// dialect is the part of the grammar that differs between the base syntax and
// AQF. The state machine only talks to text through it.
type dialect interface {
	// decodeOrdinal returns the character at pos and the offset after it.
	decodeOrdinal(pos int) (c byte, next int, err error)
	// findLiteralEnd returns the offset of the first character at or after
	// pos that does not belong to the literal starting at pos.
	findLiteralEnd(pos, end int) (int, error)
	// literalText returns the text tested for true, false, null and numbers.
	// plain is false when quoting or escapes force the literal to a string.
	literalText(pos, end int) (text string, plain bool, err error)
	// parseStringLiteral decodes a non-empty literal as a string. implied is
	// set under ImpliedStringLiterals, where quotes carry no meaning.
	parseStringLiteral(pos, end int, implied bool) (string, error)
}

func newDialect(text string, aqf bool) dialect {
	if aqf {
		return aqfDialect{text: text}
	}
	return baseDialect{text: text}
}

// baseDialect: '...' quoting, + for space, standard percent-encoding.
type baseDialect struct{ text string }

func (d baseDialect) decodeOrdinal(pos int) (byte, int, error) {
	return d.text[pos], pos + 1, nil
}

func (d baseDialect) findLiteralEnd(pos, end int) (int, error) {
	i := pos
	quoted := false
	if i < end && d.text[i] == '\'' {
		quoted = true
		i++
	}
	for ; i < end; i++ {
		c := d.text[i]
		cls := chars.Lookup(c)
		switch {
		case c == '\'':
			if quoted {
				return i + 1, nil
			}
		case cls&chars.WFU != 0:
			// & and = end a literal, quoted or not
			return i, nil
		case cls&chars.Struct != 0:
			if !quoted {
				return i, nil
			}
		case cls == 0:
			return 0, syntaxErr(CodeUnexpectedCharacter, i)
		}
	}
	if quoted {
		return 0, syntaxErr(CodeQuoteStillOpen, i)
	}
	return end, nil
}

func (d baseDialect) literalText(pos, end int) (string, bool, error) {
	s := d.text[pos:end]
	return s, s == "" || s[0] != '\'', nil
}

func (d baseDialect) parseStringLiteral(pos, end int, implied bool) (string, error) {
	s := d.text[pos:end]
	if !implied && len(s) >= 2 && s[0] == '\'' {
		s = s[1 : len(s)-1]
	}
	// QueryUnescape maps + to space before decoding
	out, err := url.QueryUnescape(s)
	if err != nil || !utf8.ValidString(out) {
		return "", syntaxErr(CodeBadPercentEncoding, pos)
	}
	return out, nil
}

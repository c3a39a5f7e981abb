package jsonurl

import (
	"strings"

	"github.com/jsonurl/jsonurl-go/internal/chars"
)

const upperhex = "0123456789ABCDEF"

// Stringify renders v as JSON->URL text. A nil opt selects
// DefaultStringifyOptions. The undefined Value renders as "" with a nil error.
// The only failures are values with no representation under opt, such as null
// with ImpliedStringLiterals.
func Stringify(v Value, opt *StringifyOptions) (string, error) {
	if opt == nil {
		opt = DefaultStringifyOptions()
	}
	v = v.Resolve()
	if v.IsUndefined() {
		return "", nil
	}
	e := &emitter{opts: opt}
	if err := e.emit(v, 0); err != nil {
		return "", err
	}
	return e.sb.String(), nil
}

type emitter struct {
	sb   strings.Builder
	opts *StringifyOptions
}

func (e *emitter) emit(v Value, depth int) error {
	switch v.kind {
	case KindNull:
		return e.emitNull()
	case KindBool:
		if v.b {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}
		return nil
	case KindNumber:
		return e.emitNumber(v)
	case KindString:
		return e.emitString(v.s, false)
	case KindArray:
		return e.emitArray(v.arr, depth)
	case KindObject:
		return e.emitObject(v.obj, depth)
	case KindFunc:
		return e.emit(v.Resolve(), depth)
	case KindUndefined:
		// undefined has no text of its own; inside a composite it is
		// rendered as null by the caller
		return e.emitNull()
	}
	panic("jsonurl: unknown value kind " + v.kind.String())
}

func (e *emitter) emitNull() error {
	if e.opts.CoerceNullToEmptyString {
		return e.emitEmptyString(false)
	}
	if e.opts.ImpliedStringLiterals {
		return syntaxErr(CodeImpliedStringNull, -1)
	}
	e.sb.WriteString("null")
	return nil
}

func (e *emitter) emitNumber(v Value) error {
	s, ok := canonicalNumber(v.Float64())
	if !ok {
		// NaN and the infinities are not JSON numbers
		return e.emitNull()
	}
	if strings.IndexByte(s, '+') < 0 {
		e.sb.WriteString(s)
		return nil
	}
	switch {
	case e.opts.AQF:
		// a bare + is a space in AQF; %2B decodes to a plus that still
		// reads as an exponent sign
		e.sb.WriteString(strings.ReplaceAll(s, "+", "%2B"))
	case e.opts.ImpliedStringLiterals:
		e.percentEncode(s)
	default:
		e.sb.WriteString(s)
	}
	return nil
}

func (e *emitter) emitEmptyString(isKey bool) error {
	emptyOK := e.opts.AllowEmptyUnquotedValues
	if isKey {
		emptyOK = e.opts.AllowEmptyUnquotedKeys
	}
	switch {
	case emptyOK:
	case e.opts.ImpliedStringLiterals:
		return syntaxErr(CodeImpliedStringEmpty, -1)
	case e.opts.AQF:
		e.sb.WriteString("!e")
	default:
		e.sb.WriteString("''")
	}
	return nil
}

func (e *emitter) emitString(s string, isKey bool) error {
	if s == "" {
		return e.emitEmptyString(isKey)
	}
	if e.opts.AQF {
		if !isKey && !e.opts.ImpliedStringLiterals && looksLikeLiteral(s) {
			e.sb.WriteByte('!')
		}
		e.aqfEscape(s)
		return nil
	}
	if e.opts.ImpliedStringLiterals {
		e.percentEncode(s)
		return nil
	}
	if looksLikeLiteral(s) {
		switch {
		case isKey:
			// keys are always strings, no quoting needed
			e.sb.WriteString(s)
		case strings.IndexByte(s, '+') < 0:
			e.sb.WriteByte('\'')
			e.sb.WriteString(s)
			e.sb.WriteByte('\'')
		default:
			e.percentEncode(s)
		}
		return nil
	}
	if isBareSafe(s) {
		writeSpaceAsPlus(&e.sb, s)
		return nil
	}
	if isQuoteSafe(s) {
		e.sb.WriteByte('\'')
		writeSpaceAsPlus(&e.sb, s)
		e.sb.WriteByte('\'')
		return nil
	}
	e.percentEncode(s)
	return nil
}

func (e *emitter) emitArray(a *Array, depth int) error {
	form := e.opts.WWWFormURLEncoded && depth == 0
	implied := e.opts.Implied && depth == 0
	if !implied {
		e.sb.WriteByte('(')
	}
	n := 0
	for _, m := range a.All() {
		if m.kind == KindFunc {
			if !e.opts.CallFunctions {
				continue
			}
			m = m.Resolve()
		}
		switch m.kind {
		case KindUndefined:
			if e.opts.IgnoreUndefinedArrayMembers {
				continue
			}
		case KindNull:
			if e.opts.IgnoreNullArrayMembers {
				continue
			}
		}
		if n > 0 {
			if form {
				e.sb.WriteByte('&')
			} else {
				e.sb.WriteByte(',')
			}
		}
		if err := e.emit(m, depth+1); err != nil {
			return err
		}
		n++
	}
	if !implied {
		e.sb.WriteByte(')')
	}
	return nil
}

func (e *emitter) emitObject(o *Object, depth int) error {
	form := e.opts.WWWFormURLEncoded && depth == 0
	implied := e.opts.Implied && depth == 0
	if !implied {
		e.sb.WriteByte('(')
	}
	n := 0
	for k, m := range o.All() {
		if m.kind == KindFunc {
			if !e.opts.CallFunctions {
				continue
			}
			m = m.Resolve()
		}
		switch m.kind {
		case KindUndefined:
			if e.opts.IgnoreUndefinedObjectMembers {
				continue
			}
		case KindNull:
			if e.opts.IgnoreNullObjectMembers {
				continue
			}
		}
		if n > 0 {
			if form {
				e.sb.WriteByte('&')
			} else {
				e.sb.WriteByte(',')
			}
		}
		if err := e.emitString(k, true); err != nil {
			return err
		}
		if form {
			e.sb.WriteByte('=')
		} else {
			e.sb.WriteByte(':')
		}
		if err := e.emit(m, depth+1); err != nil {
			return err
		}
		n++
	}
	if n == 0 && !implied && e.opts.NoEmptyComposite {
		e.sb.WriteByte(':')
	}
	if !implied {
		e.sb.WriteByte(')')
	}
	return nil
}

// percentEncode writes s the way encodeURIComponent would, except that parens
// are encoded too and spaces become +. A leading quote is encoded so the
// result cannot be mistaken for a quoted literal.
func (e *emitter) percentEncode(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			e.sb.WriteByte('+')
		case c == '\'' && i == 0:
			e.sb.WriteString("%27")
		case isUnreserved(c):
			e.sb.WriteByte(c)
		default:
			writePercent(&e.sb, c)
		}
	}
}

// aqfEscape writes s in the AQF dialect: structural characters and the escape
// lead are !-escaped, spaces become + and anything else unsafe is
// percent-encoded.
func (e *emitter) aqfEscape(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			e.sb.WriteByte('+')
		case c == '(' || c == ')' || c == ',' || c == ':' || c == '!' || c == '+' || c == '=':
			e.sb.WriteByte('!')
			e.sb.WriteByte(c)
		case c == '&':
			// a bare & would split a query string
			e.sb.WriteString("!%26")
		case c == '%':
			writePercent(&e.sb, c)
		case chars.Any(c, chars.NStrSafe):
			e.sb.WriteByte(c)
		default:
			writePercent(&e.sb, c)
		}
	}
}

func writePercent(sb *strings.Builder, c byte) {
	sb.WriteByte('%')
	sb.WriteByte(upperhex[c>>4])
	sb.WriteByte(upperhex[c&15])
}

func writeSpaceAsPlus(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			sb.WriteByte('+')
		} else {
			sb.WriteByte(s[i])
		}
	}
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'':
		return true
	}
	return false
}

// isBareSafe reports whether s can be written unquoted once spaces become +.
func isBareSafe(s string) bool {
	if s[0] == '\'' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			continue
		}
		if c == '%' || c == '+' || !chars.Any(c, chars.NStrSafe) {
			return false
		}
	}
	return true
}

// isQuoteSafe reports whether s can be written between quotes once spaces
// become +.
func isQuoteSafe(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			continue
		}
		if c == '%' || c == '+' || !chars.Any(c, chars.QStrSafe) {
			return false
		}
	}
	return true
}

package jsonurl

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

func isRangeErr(err error) bool { return errors.Is(err, strconv.ErrRange) }

// canonicalNumber renders f the way ECMAScript's Number.prototype.toString
// does, so 2.0 becomes "2", 3e1 becomes "30" and 1e21 becomes "1e+21".
// ok is false for NaN and the infinities, which JSON cannot represent.
func canonicalNumber(f float64) (s string, ok bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if f == 0 {
		return "0", true
	}
	neg := f < 0
	if neg {
		f = -f
	}
	// shortest round-trip digits in scientific form: d.ddde±x
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(e, "e")
	digits := strings.Replace(mant, ".", "", 1)
	x, _ := strconv.Atoi(exp)
	k := len(digits)
	n := x + 1

	b := &strings.Builder{}
	if neg {
		b.WriteByte('-')
	}
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if n-1 >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n - 1))
	}
	return b.String(), true
}

// numberLength returns the length of the JSON number at the start of s, or 0.
// The grammar is -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][-+]?[0-9]+)?, so 007
// stops after the first 0.
func numberLength(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && isDigit(s[i]):
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return 0
	}
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i += 2
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

// isNumberText reports whether the whole of s is a number literal.
func isNumberText(s string) bool {
	n := numberLength(s)
	return n > 0 && n == len(s)
}

// looksLikeLiteral reports whether s would parse as true, false, null or a
// number when written bare. Such strings need quoting in value position.
func looksLikeLiteral(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	}
	// Stringify's notion is slightly wider than the parser's: any run of
	// digits counts, including ones with leading zeros.
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		fs := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == fs {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		es := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == es {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Package chars classifies ASCII code points for the JSON->URL grammar.
package chars

// Class is a bit set describing how a character may appear in JSON->URL text.
type Class uint8

const (
	// NStrSafe marks characters allowed bare in an unquoted string.
	NStrSafe Class = 1 << iota
	// QStrSafe marks characters allowed bare in a quoted string.
	QStrSafe
	// Quote marks the string delimiter.
	Quote
	// Struct marks the structural characters ( ) , : and, in form mode, & =.
	Struct
	// WFU marks & and =, which are structural only in form mode.
	WFU

	// AnyStrSafe is safe in both quoted and unquoted strings.
	AnyStrSafe = NStrSafe | QStrSafe
)

var table = func() [128]Class {
	var t [128]Class
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = AnyStrSafe
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] = AnyStrSafe
	}
	for c := '0'; c <= '9'; c++ {
		t[c] = AnyStrSafe
	}
	for _, c := range "!$%*+-./;?@_~" {
		t[c] = AnyStrSafe
	}
	t['&'] = Struct | WFU
	t['='] = Struct | WFU
	t['\''] = NStrSafe | Quote
	for _, c := range "(),:" {
		t[c] = QStrSafe | Struct
	}
	return t
}()

// Lookup returns the class of c. Bytes outside ASCII classify as 0 and must be
// percent-encoded.
func Lookup(c byte) Class {
	if c >= 128 {
		return 0
	}
	return table[c]
}

// Is reports whether c has every bit in mask.
func Is(c byte, mask Class) bool { return Lookup(c)&mask == mask }

// Any reports whether c has at least one bit in mask.
func Any(c byte, mask Class) bool { return Lookup(c)&mask != 0 }

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c byte) bool { return c >= '0' && c <= '9' }

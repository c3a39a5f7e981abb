package jsonurl

import (
	"errors"
	"strconv"
	"strings"

	eng "github.com/jsonurl/jsonurl-go/internal/engine"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeExpectedValue       = "expected_value"
	CodeExpectedLiteral     = "expected_literal"
	CodeExpectedObjectValue = "expected_object_value"
	CodeExpectedStructChar  = "expected_struct_char"
	CodeExpectedMoreArray   = "expected_more_array"
	CodeUnexpectedCharacter = "unexpected_character"
	CodeStillOpen           = "still_open"
	CodeExtraChars          = "extra_chars"
	CodeQuoteStillOpen      = "quote_still_open"
	CodeBadEscape           = "bad_escape"
	CodeBadPercentEncoding  = "bad_percent_encoding"
	CodeImpliedStringNull   = "implied_string_null"
	CodeImpliedStringEmpty  = "implied_string_empty"
	// Resource limits
	CodeMaxChars  = "max_chars"
	CodeMaxDepth  = eng.CodeMaxDepth
	CodeMaxValues = eng.CodeMaxValues
)

var messages = map[string]string{
	CodeExpectedValue:       "expected value",
	CodeExpectedLiteral:     "expected literal value",
	CodeExpectedObjectValue: "expected object value",
	CodeExpectedStructChar:  "expected comma, open paren, or close paren",
	CodeExpectedMoreArray:   "expected comma or close paren",
	CodeUnexpectedCharacter: "unexpected character",
	CodeStillOpen:           "unexpected end of text inside composite",
	CodeExtraChars:          "unexpected text after composite",
	CodeQuoteStillOpen:      "quoted string still open",
	CodeBadEscape:           "invalid escape sequence",
	CodeBadPercentEncoding:  "invalid percent-encoded sequence",
	CodeImpliedStringNull:   "can not represent null with implied strings",
	CodeImpliedStringEmpty:  "the empty string is not allowed",
	CodeMaxChars:            "MaxParseChars exceeded",
	CodeMaxDepth:            "MaxParseDepth exceeded",
	CodeMaxValues:           "MaxParseValues exceeded",
}

// Sentinels for errors.Is. Every SyntaxError matches ErrSyntax and every
// LimitError matches ErrLimitExceeded.
var (
	ErrSyntax        = errors.New("JSON->URL: syntax error")
	ErrLimitExceeded = errors.New("JSON->URL: limit exceeded")
)

// Issue is the transport-friendly shape of a parse or stringify failure.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Offset  int    `json:"offset"` // Byte offset in the input text (-1 when unknown).
}

// SyntaxError reports a grammar violation, or a value that has no
// representation under the requested options.
type SyntaxError struct {
	Code   string
	Offset int
}

func (e *SyntaxError) Error() string    { return render(e.Code, e.Offset) }
func (e *SyntaxError) Is(err error) bool { return err == ErrSyntax }

// Issue returns the error as an Issue.
func (e *SyntaxError) Issue() Issue {
	return Issue{Code: e.Code, Message: messages[e.Code], Offset: e.Offset}
}

// LimitError reports that MaxParseChars, MaxParseDepth or MaxParseValues was
// exceeded.
type LimitError struct {
	Code   string
	Offset int
}

func (e *LimitError) Error() string    { return render(e.Code, e.Offset) }
func (e *LimitError) Is(err error) bool { return err == ErrLimitExceeded }

// Issue returns the error as an Issue.
func (e *LimitError) Issue() Issue {
	return Issue{Code: e.Code, Message: messages[e.Code], Offset: e.Offset}
}

func render(code string, offset int) string {
	b := &strings.Builder{}
	b.WriteString("JSON->URL: ")
	if msg, ok := messages[code]; ok {
		b.WriteString(msg)
	} else {
		b.WriteString(code)
	}
	if offset >= 0 {
		b.WriteString(" at position ")
		b.WriteString(strconv.Itoa(offset))
	}
	return b.String()
}

// AsIssue extracts an Issue from an error using errors.As internally.
func AsIssue(err error) (Issue, bool) {
	if err == nil {
		return Issue{}, false
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Issue(), true
	}
	var le *LimitError
	if errors.As(err, &le) {
		return le.Issue(), true
	}
	return Issue{}, false
}

func syntaxErr(code string, pos int) error { return &SyntaxError{Code: code, Offset: pos} }

// fromEngine lifts a limit failure raised by the parse stacks.
func fromEngine(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &LimitError{Code: ie.Code, Offset: ie.Offset}
	}
	return err
}

package engine

import "strconv"

// Limit codes reported by the stacks. The root package maps them onto its
// public error codes.
const (
	CodeMaxDepth  = "max_depth"
	CodeMaxValues = "max_values"
)

// Limits bounds the work a single parse may do.
type Limits struct {
	// MaxDepth is the number of nested composites allowed, including the root.
	MaxDepth int
	// MaxValues is the number of values allowed. The root composite is not
	// counted.
	MaxValues int
}

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Message string
	Offset  int
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string {
	if e.Offset < 0 {
		return e.Message
	}
	return e.Message + " at position " + strconv.Itoa(e.Offset)
}

func depthExceeded(pos int) error {
	return IssueError{SimpleIssue{Code: CodeMaxDepth, Message: "MaxParseDepth exceeded", Offset: pos}}
}

func valuesExceeded(pos int) error {
	return IssueError{SimpleIssue{Code: CodeMaxValues, Message: "MaxParseValues exceeded", Offset: pos}}
}

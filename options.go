package jsonurl

// Default resource limits.
const (
	DefaultMaxParseChars  = 1 << 15
	DefaultMaxParseDepth  = 1 << 5
	DefaultMaxParseValues = 1 << 12
)

// MissingValueFunc supplies the value of a key that has none, such as b in
// a=1&b&c=3 parsed as an implied form. pos is the offset just past the key.
type MissingValueFunc func(key string, pos int) (Value, error)

// ParseOptions controls Parse. The zero value selects the base dialect with
// the default limits; DefaultParseOptions spells those defaults out.
//
// Options are read-only during a call and may be shared between goroutines,
// with one exception: ImpliedArray and ImpliedObject are filled in place, so
// each concurrent call needs its own seed.
type ParseOptions struct {
	// AQF selects the address-bar-friendly dialect, where ! escapes
	// structural characters and percent-escapes decode one character at a
	// time.
	AQF bool

	// ImpliedArray, when non-nil, parses the text as the body of an array
	// without its parens and appends into it. ImpliedObject does the same for
	// an object and wins when both are set.
	ImpliedArray  *Array
	ImpliedObject *Object

	// WWWFormURLEncoded lets & and = stand in for , and : in the outermost
	// composite.
	WWWFormURLEncoded bool

	// ImpliedStringLiterals treats every literal as a string.
	ImpliedStringLiterals bool

	// AllowEmptyUnquotedKeys and AllowEmptyUnquotedValues accept a zero
	// length literal as the empty string.
	AllowEmptyUnquotedKeys   bool
	AllowEmptyUnquotedValues bool

	// CoerceNullToEmptyString parses null as "".
	CoerceNullToEmptyString bool

	// NoEmptyComposite parses () as an empty array and (:) as an empty
	// object instead of yielding EmptyValue.
	NoEmptyComposite bool

	// Limits; values <= 0 select the defaults.
	MaxParseChars  int
	MaxParseDepth  int
	MaxParseValues int

	// EmptyValue is what () parses to. Undefined selects a fresh empty
	// object per occurrence. A Func is resolved at each use and a composite
	// is copied, so parsed trees never share structure.
	EmptyValue Value

	// NullValue is what null parses to. Undefined selects Null(). A Func is
	// resolved at each use and a composite is copied.
	NullValue Value

	// GetMissingValue supplies values for keys without one in an implied
	// object. Nil rejects such keys.
	GetMissingValue MissingValueFunc
}

// DefaultParseOptions returns a fully populated ParseOptions.
func DefaultParseOptions() *ParseOptions {
	return &ParseOptions{
		MaxParseChars:  DefaultMaxParseChars,
		MaxParseDepth:  DefaultMaxParseDepth,
		MaxParseValues: DefaultMaxParseValues,
		NullValue:      Null(),
	}
}

// WithImpliedStringLiterals returns a copy with ImpliedStringLiterals on and
// the defaults that mode implies: empty unquoted keys and values allowed.
func (o *ParseOptions) WithImpliedStringLiterals() *ParseOptions {
	cp := o.clone()
	cp.ImpliedStringLiterals = true
	cp.AllowEmptyUnquotedKeys = true
	cp.AllowEmptyUnquotedValues = true
	return cp
}

func (o *ParseOptions) clone() *ParseOptions {
	if o == nil {
		return DefaultParseOptions()
	}
	cp := *o
	return &cp
}

// resolve returns a copy with every default filled in.
func (o *ParseOptions) resolve() ParseOptions {
	var r ParseOptions
	if o != nil {
		r = *o
	}
	if r.MaxParseChars <= 0 {
		r.MaxParseChars = DefaultMaxParseChars
	}
	if r.MaxParseDepth <= 0 {
		r.MaxParseDepth = DefaultMaxParseDepth
	}
	if r.MaxParseValues <= 0 {
		r.MaxParseValues = DefaultMaxParseValues
	}
	if r.ImpliedObject != nil {
		r.ImpliedArray = nil
	}
	if r.GetMissingValue == nil {
		r.GetMissingValue = rejectMissingValue
	}
	return r
}

func (o *ParseOptions) implied() bool { return o.ImpliedArray != nil || o.ImpliedObject != nil }

func (o *ParseOptions) newEmptyValue() Value {
	if o.NoEmptyComposite {
		return ArrayValue(NewArray())
	}
	if v := o.EmptyValue.Resolve(); !v.IsUndefined() {
		return v.clone()
	}
	return ObjectValue(NewObject())
}

func (o *ParseOptions) newNullValue() Value {
	if v := o.NullValue.Resolve(); !v.IsUndefined() {
		return v.clone()
	}
	return Null()
}

func rejectMissingValue(_ string, pos int) (Value, error) {
	return Value{}, syntaxErr(CodeExpectedObjectValue, pos)
}

// StringifyOptions controls Stringify. Unlike ParseOptions the zero value is
// not the default: IgnoreUndefinedObjectMembers defaults to true, so start
// from DefaultStringifyOptions.
type StringifyOptions struct {
	// AQF selects the address-bar-friendly dialect.
	AQF bool

	// WWWFormURLEncoded separates the outermost composite with & and =.
	WWWFormURLEncoded bool

	// Implied omits the parens of the outermost composite, the counterpart of
	// ParseOptions.ImpliedArray and ImpliedObject. An empty implied composite
	// renders as "".
	Implied bool

	// ImpliedStringLiterals percent-encodes every string and rejects null.
	ImpliedStringLiterals bool

	// AllowEmptyUnquotedKeys and AllowEmptyUnquotedValues render the empty
	// string as nothing instead of '' (or !e under AQF).
	AllowEmptyUnquotedKeys   bool
	AllowEmptyUnquotedValues bool

	// CoerceNullToEmptyString renders null as the empty string.
	CoerceNullToEmptyString bool

	// NoEmptyComposite renders an empty object as (:) so it stays distinct
	// from the empty array ().
	NoEmptyComposite bool

	// CallFunctions resolves Func members; otherwise they are skipped.
	CallFunctions bool

	// Member suppression.
	IgnoreNullArrayMembers       bool
	IgnoreNullObjectMembers      bool
	IgnoreUndefinedArrayMembers  bool
	IgnoreUndefinedObjectMembers bool
}

// DefaultStringifyOptions returns a fully populated StringifyOptions.
func DefaultStringifyOptions() *StringifyOptions {
	return &StringifyOptions{IgnoreUndefinedObjectMembers: true}
}

// WithImpliedStringLiterals returns a copy with ImpliedStringLiterals on and
// the defaults that mode implies: null and undefined members are skipped and
// empty strings render unquoted.
func (o *StringifyOptions) WithImpliedStringLiterals() *StringifyOptions {
	var cp StringifyOptions
	if o == nil {
		cp = *DefaultStringifyOptions()
	} else {
		cp = *o
	}
	cp.ImpliedStringLiterals = true
	cp.IgnoreNullArrayMembers = true
	cp.IgnoreNullObjectMembers = true
	cp.IgnoreUndefinedArrayMembers = true
	cp.IgnoreUndefinedObjectMembers = true
	cp.AllowEmptyUnquotedKeys = true
	cp.AllowEmptyUnquotedValues = true
	return &cp
}

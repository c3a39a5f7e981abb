package jsonurl

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindUndefined is the zero Value. Parse returns it for empty input and
	// Stringify renders it as nothing.
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	// KindFunc is a lazy producer, resolved when the value is needed.
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunc:
		return "func"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a JSON->URL value: a closed tagged union over the JSON kinds plus
// undefined and lazy producers. The zero Value is undefined.
type Value struct {
	kind Kind
	b    bool
	s    string // number text or string contents
	arr  *Array
	obj  *Object
	fn   func() Value
}

// Undefined returns the zero Value.
func Undefined() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number holding text verbatim. text should be a JSON number;
// Stringify renders it in canonical form.
func Number(text string) Value { return Value{kind: KindNumber, s: text} }

// Float returns a number value for f.
func Float(f float64) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Int returns a number value for i.
func Int(i int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ArrayValue wraps a. A nil a yields an empty array.
func ArrayValue(a *Array) Value {
	if a == nil {
		a = NewArray()
	}
	return Value{kind: KindArray, arr: a}
}

// ArrayOf returns an array value holding vs.
func ArrayOf(vs ...Value) Value { return ArrayValue(NewArray(vs...)) }

// ObjectValue wraps o. A nil o yields an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// ObjectOf returns an object value holding members in order.
func ObjectOf(members ...Member) Value {
	o := NewObject()
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return ObjectValue(o)
}

// Func returns a lazy value. f is called, repeatedly if it returns another
// Func, when the value is needed.
func Func(f func() Value) Value { return Value{kind: KindFunc, fn: f} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the zero Value.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v, or false.
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// AsString returns the string held by v, or "".
func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// NumberText returns the decimal text of a number as it was parsed or built.
func (v Value) NumberText() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.s
}

// Float64 returns the number held by v, or NaN when v is not a number.
func (v Value) Float64() float64 {
	if v.kind != KindNumber {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil && !isRangeErr(err) {
		return math.NaN()
	}
	return f
}

// Int64 returns the number held by v when it is an integer that fits int64.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
		return i, true
	}
	f := v.Float64()
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Array returns the array held by v, or nil.
func (v Value) Array() *Array {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Object returns the object held by v, or nil.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Resolve calls producers until the result is not a Func. A nil producer
// resolves to undefined.
func (v Value) Resolve() Value {
	for v.kind == KindFunc {
		if v.fn == nil {
			return Value{}
		}
		v = v.fn()
	}
	return v
}

// Equal reports deep equality. Numbers compare by numeric value, objects by
// members regardless of order. Producers are never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.s == o.s {
			return true
		}
		return v.Float64() == o.Float64()
	case KindString:
		return v.s == o.s
	case KindArray:
		if v.arr.Len() != o.arr.Len() {
			return false
		}
		for i, e := range v.arr.items {
			if !e.Equal(o.arr.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != o.obj.Len() {
			return false
		}
		for k, e := range v.obj.All() {
			oe, ok := o.obj.Get(k)
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts v to plain Go values: nil, bool, float64, string,
// []any and map[string]any. Undefined also converts to nil and producers are
// resolved first.
func (v Value) Interface() any {
	v = v.Resolve()
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.Float64()
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, 0, v.arr.Len())
		for _, e := range v.arr.items {
			out = append(out, e.Interface())
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for k, e := range v.obj.All() {
			out[k] = e.Interface()
		}
		return out
	}
	return nil
}

// FromInterface converts plain Go values into a Value. Map keys are visited in
// sorted order since Go maps carry none.
func FromInterface(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Array:
		return ArrayValue(t), nil
	case *Object:
		return ObjectValue(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case func() Value:
		return Func(t), nil
	case func() any:
		return Func(func() Value {
			r, err := FromInterface(t())
			if err != nil {
				return Undefined()
			}
			return r
		}), nil
	case []any:
		a := NewArray()
		for i, e := range t {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			a.Append(ev)
		}
		return ArrayValue(a), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			ev, err := FromInterface(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			o.Set(k, ev)
		}
		return ObjectValue(o), nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(strconv.FormatUint(rv.Uint(), 10)), nil
	}
	return Value{}, fmt.Errorf("jsonurl: unsupported type %T", x)
}

// clone returns a deep copy of v. Scalars are returned as is; Func values are
// not resolved.
func (v Value) clone() Value {
	switch v.kind {
	case KindArray:
		a := &Array{items: make([]Value, len(v.arr.items))}
		for i, e := range v.arr.items {
			a.items[i] = e.clone()
		}
		return Value{kind: KindArray, arr: a}
	case KindObject:
		o := &Object{
			keys:  slices.Clone(v.obj.keys),
			vals:  make([]Value, len(v.obj.vals)),
			index: make(map[string]int, len(v.obj.keys)),
		}
		for i, e := range v.obj.vals {
			o.vals[i] = e.clone()
			o.index[o.keys[i]] = i
		}
		return Value{kind: KindObject, obj: o}
	}
	return v
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Array is an ordered, mutable sequence of values.
type Array struct{ items []Value }

// NewArray returns an array holding vs.
func NewArray(vs ...Value) *Array {
	return &Array{items: slices.Clone(vs)}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// At returns the element at i.
func (a *Array) At(i int) Value { return a.items[i] }

// Append adds vs to the end of the array.
func (a *Array) Append(vs ...Value) { a.items = append(a.items, vs...) }

// Set replaces the element at i.
func (a *Array) Set(i int, v Value) { a.items[i] = v }

// All iterates over index/element pairs.
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if a == nil {
			return
		}
		for i, v := range a.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Object is an insertion-ordered mapping with unique string keys.
type Object struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewObject returns an empty object.
func NewObject() *Object { return &Object{index: map[string]int{}} }

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Set binds key to v. An existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if o.index == nil {
		o.index = map[string]int{}
	}
	if i, ok := o.index[key]; ok {
		o.vals[i] = v
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, v)
}

// Get returns the value bound to key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.vals[i], true
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.keys = slices.Delete(o.keys, i, i+1)
	o.vals = slices.Delete(o.vals, i, i+1)
	delete(o.index, key)
	for j := i; j < len(o.keys); j++ {
		o.index[o.keys[j]] = j
	}
	return true
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// All iterates over members in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for i, k := range o.keys {
			if !yield(k, o.vals[i]) {
				return
			}
		}
	}
}

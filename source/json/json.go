// Package json bridges JSON text and jsonurl.Value using goccy/go-json.
// Object key order survives the trip in both directions.
package json

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	j "github.com/goccy/go-json"

	jsonurl "github.com/jsonurl/jsonurl-go"
)

// DuplicateStrictness controls what happens when a JSON object repeats a key.
type DuplicateStrictness int

const (
	// DupLastWins keeps the first position and the last value.
	DupLastWins DuplicateStrictness = iota
	// DupError rejects the document.
	DupError
)

// DefaultMaxDepth bounds nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 1 << 10

// Options controls decoding.
type Options struct {
	OnDuplicateKey DuplicateStrictness
	MaxDepth       int
}

// ErrDuplicateKey is returned under DupError.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrTooDeep is returned when nesting exceeds Options.MaxDepth.
var ErrTooDeep = errors.New("max depth exceeded")

// Decode reads one JSON document from r.
func Decode(r io.Reader) (jsonurl.Value, error) { return DecodeWith(r, Options{}) }

// DecodeWith reads one JSON document from r using opt.
func DecodeWith(r io.Reader, opt Options) (jsonurl.Value, error) {
	if opt.MaxDepth <= 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	dec := j.NewDecoder(r)
	dec.UseNumber()
	d := &decoder{dec: dec, opt: opt}

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return jsonurl.Value{}, io.ErrUnexpectedEOF
		}
		return jsonurl.Value{}, err
	}
	v, err := d.value(tok, 0)
	if err != nil {
		return jsonurl.Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return jsonurl.Value{}, err
	}
	return v, nil
}

// Unmarshal decodes one JSON document from b.
func Unmarshal(b []byte) (jsonurl.Value, error) { return Decode(bytes.NewReader(b)) }

type decoder struct {
	dec *j.Decoder
	opt Options
}

func (d *decoder) value(tok j.Token, depth int) (jsonurl.Value, error) {
	switch v := tok.(type) {
	case j.Delim:
		if depth >= d.opt.MaxDepth {
			return jsonurl.Value{}, ErrTooDeep
		}
		switch v {
		case '{':
			return d.object(depth + 1)
		case '[':
			return d.array(depth + 1)
		}
		return jsonurl.Value{}, fmt.Errorf("unexpected delimiter %q", rune(v))
	case string:
		return jsonurl.String(v), nil
	case bool:
		return jsonurl.Bool(v), nil
	case j.Number:
		return jsonurl.Number(string(v)), nil
	case float64:
		return jsonurl.Float(v), nil
	case nil:
		return jsonurl.Null(), nil
	}
	return jsonurl.Value{}, fmt.Errorf("unexpected token %T", tok)
}

func (d *decoder) object(depth int) (jsonurl.Value, error) {
	o := jsonurl.NewObject()
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return jsonurl.Value{}, unexpectedEOF(err)
		}
		if tok == j.Delim('}') {
			return jsonurl.ObjectValue(o), nil
		}
		key, ok := tok.(string)
		if !ok {
			return jsonurl.Value{}, fmt.Errorf("expected object key, got %v", tok)
		}
		if d.opt.OnDuplicateKey == DupError {
			if _, dup := o.Get(key); dup {
				return jsonurl.Value{}, fmt.Errorf("key %q: %w", key, ErrDuplicateKey)
			}
		}
		vt, err := d.dec.Token()
		if err != nil {
			return jsonurl.Value{}, unexpectedEOF(err)
		}
		v, err := d.value(vt, depth)
		if err != nil {
			return jsonurl.Value{}, err
		}
		o.Set(key, v)
	}
}

func (d *decoder) array(depth int) (jsonurl.Value, error) {
	a := jsonurl.NewArray()
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return jsonurl.Value{}, unexpectedEOF(err)
		}
		if tok == j.Delim(']') {
			return jsonurl.ArrayValue(a), nil
		}
		v, err := d.value(tok, depth)
		if err != nil {
			return jsonurl.Value{}, err
		}
		a.Append(v)
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Marshal renders v as compact JSON. Undefined renders as null, as do
// numbers that JSON cannot represent.
func Marshal(v jsonurl.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is Marshal followed by indentation.
func MarshalIndent(v jsonurl.Value, prefix, indent string) ([]byte, error) {
	b, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := j.Indent(&out, b, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Encode writes v to w as compact JSON followed by a newline.
func Encode(w io.Writer, v jsonurl.Value) error {
	b, err := Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func writeValue(buf *bytes.Buffer, v jsonurl.Value) error {
	v = v.Resolve()
	switch v.Kind() {
	case jsonurl.KindUndefined, jsonurl.KindNull:
		buf.WriteString("null")
	case jsonurl.KindBool:
		buf.WriteString(strconv.FormatBool(v.AsBool()))
	case jsonurl.KindNumber:
		if f := v.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(v.NumberText())
	case jsonurl.KindString:
		if err := writeString(buf, v.AsString()); err != nil {
			return err
		}
	case jsonurl.KindArray:
		buf.WriteByte('[')
		for i, e := range v.Array().All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case jsonurl.KindObject:
		buf.WriteByte('{')
		n := 0
		for k, e := range v.Object().All() {
			if n > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, e); err != nil {
				return err
			}
			n++
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot marshal %s", v.Kind())
	}
	return nil
}

// writeString appends s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	enc := j.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// drop the newline Encode appends
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Doc adapts a jsonurl.Value to json.Marshaler and json.Unmarshaler so it can
// be embedded in structs handled by encoding/json compatible packages.
type Doc struct{ jsonurl.Value }

// MarshalJSON implements json.Marshaler.
func (d Doc) MarshalJSON() ([]byte, error) { return Marshal(d.Value) }

// UnmarshalJSON implements json.Unmarshaler.
func (d *Doc) UnmarshalJSON(b []byte) error {
	v, err := Unmarshal(b)
	if err != nil {
		return err
	}
	d.Value = v
	return nil
}

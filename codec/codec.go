// Package codec binds JSON->URL text to Go types.
//
// Decode parses the text and maps the result onto T with mapstructure, using
// json struct tags. Encode marshals T with goccy/go-json, reads the document
// back in order and stringifies it, so struct field order is kept.
package codec

import (
	"context"
	"fmt"
	"reflect"
	"time"

	j "github.com/goccy/go-json"
	"github.com/go-viper/mapstructure/v2"

	jsonurl "github.com/jsonurl/jsonurl-go"
	sjson "github.com/jsonurl/jsonurl-go/source/json"
)

// Codec converts between JSON->URL text and T.
type Codec[T any] struct {
	parse     jsonurl.ParseOptions
	stringify jsonurl.StringifyOptions
	// seed builds a fresh implied root per call; nil when not implied.
	seed func(*jsonurl.ParseOptions)
}

// New returns a Codec using copies of popt and sopt. Nil options select the
// defaults. An implied seed in popt is replaced by a fresh one on every
// Decode, so a Codec may be shared between goroutines.
func New[T any](popt *jsonurl.ParseOptions, sopt *jsonurl.StringifyOptions) *Codec[T] {
	c := &Codec[T]{}
	if popt != nil {
		c.parse = *popt
	} else {
		c.parse = *jsonurl.DefaultParseOptions()
	}
	if sopt != nil {
		c.stringify = *sopt
	} else {
		c.stringify = *jsonurl.DefaultStringifyOptions()
	}
	switch {
	case c.parse.ImpliedObject != nil:
		c.seed = func(o *jsonurl.ParseOptions) { o.ImpliedObject = jsonurl.NewObject() }
	case c.parse.ImpliedArray != nil:
		c.seed = func(o *jsonurl.ParseOptions) { o.ImpliedArray = jsonurl.NewArray() }
	}
	return c
}

// Query returns a Codec for query strings: an implied object with & and =
// separators on both sides.
func Query[T any]() *Codec[T] {
	popt := jsonurl.DefaultParseOptions()
	popt.ImpliedObject = jsonurl.NewObject()
	popt.WWWFormURLEncoded = true
	sopt := jsonurl.DefaultStringifyOptions()
	sopt.Implied = true
	sopt.WWWFormURLEncoded = true
	return New[T](popt, sopt)
}

// ParseOptions returns a per-call copy of the parse options with a fresh
// implied seed.
func (c *Codec[T]) ParseOptions() *jsonurl.ParseOptions {
	o := c.parse
	if c.seed != nil {
		c.seed(&o)
	}
	return &o
}

// Decode parses text and maps the result onto a T.
func (c *Codec[T]) Decode(ctx context.Context, text string) (T, error) {
	var out T
	if err := ctx.Err(); err != nil {
		return out, err
	}
	v, err := jsonurl.Parse(text, c.ParseOptions())
	if err != nil {
		return out, err
	}
	if err := Assign(v, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Encode renders v as JSON->URL text.
func (c *Codec[T]) Encode(ctx context.Context, v T) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := j.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("codec: marshal %T: %w", v, err)
	}
	doc, err := sjson.Unmarshal(b)
	if err != nil {
		return "", fmt.Errorf("codec: reread %T: %w", v, err)
	}
	sopt := c.stringify
	return jsonurl.Stringify(doc, &sopt)
}

// Assign maps a parsed Value onto the value pointed to by out. Strings are
// converted to time.Time (RFC 3339) and time.Duration where the target asks
// for them, and numbers to whatever numeric kind the target has.
func Assign(v jsonurl.Value, out any) error {
	if rv := reflect.ValueOf(out); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("codec: Assign needs a non-nil pointer, got %T", out)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(v.Interface()); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	return nil
}

package json_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonurl "github.com/jsonurl/jsonurl-go"
	sjson "github.com/jsonurl/jsonurl-go/source/json"
)

func TestUnmarshal_PreservesOrder(t *testing.T) {
	v, err := sjson.Unmarshal([]byte(`{"z":1,"a":[true,null,"x"],"m":{"b":2,"a":1}}`))
	require.NoError(t, err)
	require.Equal(t, jsonurl.KindObject, v.Kind())
	assert.Equal(t, []string{"z", "a", "m"}, v.Object().Keys())

	m, ok := v.Object().Get("m")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, m.Object().Keys())

	out, err := sjson.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null,"x"],"m":{"b":2,"a":1}}`, string(out))
}

func TestUnmarshal_NumberTextKept(t *testing.T) {
	v, err := sjson.Unmarshal([]byte(`[1.50,1e2,-0]`))
	require.NoError(t, err)
	a := v.Array()
	require.Equal(t, 3, a.Len())
	assert.Equal(t, "1.50", a.At(0).NumberText())
	assert.Equal(t, "1e2", a.At(1).NumberText())
	assert.Equal(t, 100.0, a.At(1).Float64())
}

func TestDecodeWith_Duplicates(t *testing.T) {
	doc := `{"a":1,"b":2,"a":3}`

	v, err := sjson.Unmarshal([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Object().Keys())
	got, _ := v.Object().Get("a")
	assert.Equal(t, "3", got.NumberText())

	_, err = sjson.DecodeWith(strings.NewReader(doc), sjson.Options{OnDuplicateKey: sjson.DupError})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sjson.ErrDuplicateKey))
}

func TestDecodeWith_MaxDepth(t *testing.T) {
	_, err := sjson.DecodeWith(strings.NewReader(`[[[1]]]`), sjson.Options{MaxDepth: 2})
	assert.ErrorIs(t, err, sjson.ErrTooDeep)

	_, err = sjson.DecodeWith(strings.NewReader(`[[1]]`), sjson.Options{MaxDepth: 2})
	assert.NoError(t, err)
}

func TestDecode_Errors(t *testing.T) {
	_, err := sjson.Unmarshal([]byte(`1 2`))
	assert.Error(t, err, "trailing data")

	_, err = sjson.Unmarshal(nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = sjson.Unmarshal([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestMarshal_SpecialValues(t *testing.T) {
	v := jsonurl.ArrayOf(
		jsonurl.Undefined(),
		jsonurl.Number("1e400"),
		jsonurl.String("<a&b>"),
		jsonurl.Func(func() jsonurl.Value { return jsonurl.Bool(true) }),
	)
	out, err := sjson.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `[null,null,"<a&b>",true]`, string(out))
}

func TestMarshal_NoHTMLEscape(t *testing.T) {
	v := jsonurl.ObjectOf(jsonurl.Member{Key: "<k>", Value: jsonurl.String("a&b \"q\"")})
	out, err := sjson.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"<k>":"a&b \"q\""}`, string(out))

	back, err := sjson.Unmarshal(out)
	require.NoError(t, err)
	assert.True(t, back.Equal(v))
}

func TestMarshalIndent(t *testing.T) {
	v := jsonurl.ObjectOf(jsonurl.Member{Key: "a", Value: jsonurl.ArrayOf(jsonurl.Int(1))})
	out, err := sjson.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", string(out))

	var buf bytes.Buffer
	require.NoError(t, sjson.Encode(&buf, v))
	assert.Equal(t, "{\"a\":[1]}\n", buf.String())
}

func TestDoc(t *testing.T) {
	type envelope struct {
		Query sjson.Doc `json:"query"`
	}
	var d sjson.Doc
	require.NoError(t, d.UnmarshalJSON([]byte(`{"q":"x","n":[1,2]}`)))
	b, err := envelope{Query: d}.Query.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"q":"x","n":[1,2]}`, string(b))
}

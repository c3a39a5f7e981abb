package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonurl "github.com/jsonurl/jsonurl-go"
	syaml "github.com/jsonurl/jsonurl-go/source/yaml"
)

func TestUnmarshal_Scalars(t *testing.T) {
	v, err := syaml.Unmarshal([]byte(`
name: widget
count: 3
ratio: 0.5
ok: true
missing: ~
tags: [a, "1"]
`))
	require.NoError(t, err)
	o := v.Object()
	require.NotNil(t, o)
	assert.Equal(t, []string{"name", "count", "ratio", "ok", "missing", "tags"}, o.Keys())

	get := func(k string) jsonurl.Value {
		e, ok := o.Get(k)
		require.True(t, ok, k)
		return e
	}
	assert.Equal(t, "widget", get("name").AsString())
	assert.Equal(t, "3", get("count").NumberText())
	assert.Equal(t, 0.5, get("ratio").Float64())
	assert.True(t, get("ok").AsBool())
	assert.True(t, get("missing").IsNull())

	tags := get("tags").Array()
	require.Equal(t, 2, tags.Len())
	assert.Equal(t, jsonurl.KindString, tags.At(1).Kind())
}

func TestUnmarshal_Aliases(t *testing.T) {
	v, err := syaml.Unmarshal([]byte("base: &b {x: 1}\ncopy: *b\n"))
	require.NoError(t, err)
	c, ok := v.Object().Get("copy")
	require.True(t, ok)
	x, _ := c.Object().Get("x")
	assert.Equal(t, "1", x.NumberText())
}

func TestUnmarshal_Empty(t *testing.T) {
	v, err := syaml.Unmarshal(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestUnmarshal_RejectsNaN(t *testing.T) {
	_, err := syaml.Unmarshal([]byte("x: .nan\n"))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := jsonurl.ObjectOf(
		jsonurl.Member{Key: "b", Value: jsonurl.Int(2)},
		jsonurl.Member{Key: "a", Value: jsonurl.ArrayOf(jsonurl.String("true"), jsonurl.Null(), jsonurl.Float(1.5))},
	)
	b, err := syaml.Marshal(in)
	require.NoError(t, err)

	out, err := syaml.Unmarshal(b)
	require.NoError(t, err)
	assert.True(t, in.Equal(out), "got %s", b)
	assert.Equal(t, []string{"b", "a"}, out.Object().Keys())
}

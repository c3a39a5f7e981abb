package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errb)
	return out.String(), errb.String(), code
}

func TestEncodeDecode(t *testing.T) {
	out, errOut, code := runCLI(t, `{"a":[1,"b c"],"t":"true"}`, "encode")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "(a:(1,b+c),t:'true')\n", out)

	out, errOut, code = runCLI(t, "", "decode", "(a:(1,b+c),t:'true')")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, `{"a":[1,"b c"],"t":"true"}`+"\n", out)
}

func TestEncode_ImpliedForm(t *testing.T) {
	out, errOut, code := runCLI(t, `{"q":"x","n":2}`, "encode", "-implied", "object", "-wfu")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "q=x&n=2\n", out)
}

func TestEncode_SetAndPath(t *testing.T) {
	out, errOut, code := runCLI(t, `{"a":{"b":1}}`, "encode", "-set", "a.c=[true]", "-set", "a.d=hi", "-path", "a")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "(b:1,c:(true),d:hi)\n", out)
}

func TestEncode_YAML(t *testing.T) {
	out, errOut, code := runCLI(t, "a: 1\nb: [x, y]\n", "encode", "-yaml")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "(a:1,b:(x,y))\n", out)
}

func TestDecode_AQF(t *testing.T) {
	out, errOut, code := runCLI(t, "", "decode", "-aqf", "(a:!(b!),c:d+e)")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, `{"a":"(b)","c":"d e"}`+"\n", out)
}

func TestDecode_YAMLAndPath(t *testing.T) {
	out, errOut, code := runCLI(t, "", "decode", "-yaml", "-path", "x", "(x:(y:1))")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "y: 1\n", out)
}

func TestCheck(t *testing.T) {
	out, _, code := runCLI(t, "", "check", "(a:1)")
	assert.Equal(t, 0, code)
	assert.Equal(t, "ok: object\n", out)

	_, errOut, code := runCLI(t, "", "check", "(a:1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "at position")
}

func TestLines_PreservesOrder(t *testing.T) {
	var in strings.Builder
	var want strings.Builder
	for i := 0; i < 50; i++ {
		in.WriteString("(n:")
		in.WriteString(strings.Repeat("1", i%5+1))
		in.WriteString(")\n")
		want.WriteString(`{"n":` + strings.Repeat("1", i%5+1) + "}\n")
	}
	out, errOut, code := runCLI(t, in.String(), "decode", "-lines", "-workers", "3")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, want.String(), out)
}

func TestLines_ReportsBadLine(t *testing.T) {
	out, errOut, code := runCLI(t, "(a:1)\n(b\n", "decode", "-lines")
	assert.Equal(t, 1, code)
	assert.Equal(t, "{\"a\":1}\n\n", out)
	assert.Contains(t, errOut, "line 2")
}

func TestUsage(t *testing.T) {
	_, _, code := runCLI(t, "")
	assert.Equal(t, 2, code)
	_, _, code = runCLI(t, "", "bogus")
	assert.Equal(t, 2, code)
	_, errOut, code := runCLI(t, "", "decode", "-implied", "map")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "-implied")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("JSONURL_AQF", "true")
	out, errOut, code := runCLI(t, `["a b","!"]`, "encode")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "(a+b,!!)\n", out)
}

package jsonurl_test

import (
	"strconv"
	"strings"
	"testing"

	jsonurl "github.com/jsonurl/jsonurl-go"
)

// encodeLiteral escapes the first occurrence of each structural character the
// way a hand-written query would.
func encodeLiteral(s string) string {
	for _, r := range []struct{ from, to string }{
		{"'", "%27"}, {" ", "+"}, {"(", "%28"}, {")", "%29"}, {",", "%2C"}, {":", "%3A"},
	} {
		s = strings.Replace(s, r.from, r.to, 1)
	}
	return s
}

func TestParseLiteral_ScalarsRoundTrip(t *testing.T) {
	isl := jsonurl.DefaultParseOptions().WithImpliedStringLiterals()

	for _, text := range []string{
		"true", "false",
		"0", "1", "-3", "123456", "-123456", "12345678905432132", "-12345678905432132",
		"0.1", "-3.14159", "-1.1", "-2e-1", "156.911e2", "-276.833e4",
	} {
		v, err := jsonurl.ParseLiteral(text, false, nil)
		if err != nil {
			t.Fatalf("ParseLiteral(%q): %v", text, err)
		}
		if v.Kind() == jsonurl.KindString {
			t.Fatalf("ParseLiteral(%q) is a string", text)
		}
		if v.Kind() == jsonurl.KindBool && strconv.FormatBool(v.AsBool()) != text {
			t.Fatalf("ParseLiteral(%q) = %v", text, v.AsBool())
		}
		if v.Kind() == jsonurl.KindNumber && v.NumberText() != text {
			t.Fatalf("ParseLiteral(%q) text = %q", text, v.NumberText())
		}
		for _, opt := range []*jsonurl.ParseOptions{nil, isl} {
			k, err := jsonurl.ParseLiteral(text, opt == nil, opt)
			if err != nil || k.AsString() != text {
				t.Fatalf("ParseLiteral(%q) as key = %s, %v", text, show(k), err)
			}
		}
		p, err := jsonurl.Parse(text, nil)
		if err != nil || !p.Equal(v) {
			t.Fatalf("Parse(%q) = %s, differs from ParseLiteral", text, show(p))
		}
	}
}

func TestParseLiteral_Strings(t *testing.T) {
	isl := jsonurl.DefaultParseOptions().WithImpliedStringLiterals()
	for _, s := range []string{
		"hello", "a", "1a", "1e", "1.", "f", "fa", "fal", "fals", "n", "nu", "nul",
		"t", "tr", "tru", "-", "-e", "-.", "1.2.3", "hello, world", "Bob's House",
		"Hello, World!", "World: Hello!", "Hello (world).",
	} {
		text := encodeLiteral(s)
		for _, tc := range []struct {
			force bool
			opt   *jsonurl.ParseOptions
		}{{false, nil}, {true, nil}, {true, isl}} {
			v, err := jsonurl.ParseLiteral(text, tc.force, tc.opt)
			if err != nil {
				t.Fatalf("ParseLiteral(%q): %v", text, err)
			}
			if v.Kind() != jsonurl.KindString || v.AsString() != s {
				t.Fatalf("ParseLiteral(%q, %v) = %s, want %q", text, tc.force, show(v), s)
			}
		}
	}
}

func TestParseLiteral_Special(t *testing.T) {
	isl := jsonurl.DefaultParseOptions().WithImpliedStringLiterals()
	cases := []struct {
		text  string
		value string // JSON
		key   string
		isl   string
	}{
		{"-3e0", `-3`, "-3e0", "-3e0"},
		{"1e+2", `100`, "1e+2", "1e 2"},
		{"-2e+1", `-20`, "-2e+1", "-2e 1"},
		{"156.911e+2", `15691.1`, "156.911e+2", "156.911e 2"},
		{"'hello'", `"hello"`, "hello", "'hello'"},
		{"hello%2Bworld", `"hello+world"`, "hello+world", "hello+world"},
		{"y+%3D+mx+%2B+b", `"y = mx + b"`, "y = mx + b", "y = mx + b"},
		{"a%3Db%26c%3Dd", `"a=b&c=d"`, "a=b&c=d", "a=b&c=d"},
		{"hello%F0%9F%8D%95world", `"hello🍕world"`, "hello🍕world", "hello🍕world"},
		{"-e+", `"-e "`, "-e ", "-e "},
		{"-e+1", `"-e 1"`, "-e 1", "-e 1"},
		{"1e%2B1", `"1e+1"`, "1e+1", "1e+1"},
	}
	for _, tc := range cases {
		v, err := jsonurl.ParseLiteral(tc.text, false, nil)
		if err != nil {
			t.Fatalf("ParseLiteral(%q): %v", tc.text, err)
		}
		if want := mustJSON(t, tc.value); !v.Equal(want) {
			t.Fatalf("ParseLiteral(%q) = %s, want %s", tc.text, show(v), tc.value)
		}
		k, err := jsonurl.ParseLiteral(tc.text, true, nil)
		if err != nil || k.AsString() != tc.key {
			t.Fatalf("ParseLiteral(%q) as key = %s, %v; want %q", tc.text, show(k), err, tc.key)
		}
		s, err := jsonurl.ParseLiteral(tc.text, true, isl)
		if err != nil || s.AsString() != tc.isl {
			t.Fatalf("ParseLiteral(%q, isl) = %s, %v; want %q", tc.text, show(s), err, tc.isl)
		}
	}
}

func TestParseLiteral_Null(t *testing.T) {
	v, err := jsonurl.ParseLiteral("null", false, nil)
	if err != nil || !v.IsNull() {
		t.Fatalf("ParseLiteral(null) = %s, %v", show(v), err)
	}
	k, err := jsonurl.ParseLiteral("null", true, nil)
	if err != nil || k.AsString() != "null" {
		t.Fatalf("ParseLiteral(null, key) = %s, %v", show(k), err)
	}
}

func TestParseLiteral_RejectsComposites(t *testing.T) {
	for _, text := range []string{"(a)", "a,b", "", "'open"} {
		if _, err := jsonurl.ParseLiteral(text, false, nil); err == nil {
			t.Fatalf("ParseLiteral(%q) accepted", text)
		}
	}
}

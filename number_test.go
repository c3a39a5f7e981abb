package jsonurl

import (
	"math"
	"testing"
)

func TestCanonicalNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-3, "-3"},
		{2.0, "2"},
		{30, "30"},
		{0.04, "0.04"},
		{0.1, "0.1"},
		{123456, "123456"},
		{4e17, "400000000000000000"},
		{12345678905432132, "12345678905432132"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e300, "1.5e+300"},
		{0.000001, "0.000001"},
		{0.0000001, "1e-7"},
		{-2.5e-8, "-2.5e-8"},
		{156.911e2, "15691.1"},
		{-276.833e4, "-2768330"},
		{math.MaxFloat64, "1.7976931348623157e+308"},
		{5e-324, "5e-324"},
	}
	for _, tc := range cases {
		got, ok := canonicalNumber(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("canonicalNumber(%v) = %q, %v; want %q", tc.in, got, ok, tc.want)
		}
	}
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, ok := canonicalNumber(f); ok {
			t.Fatalf("canonicalNumber(%v) ok", f)
		}
	}
}

func TestIsNumberText(t *testing.T) {
	yes := []string{"0", "-0", "1", "-3", "1e2", "1E2", "1e+2", "-2e-1", "0.1", "156.911e2", "-3e0"}
	no := []string{"", "-", "1.", "-.", "-e", "1e", "1e+", "1a", ".5", "1.2.3", "+1", "0x1", "1e2.5", "--1", "007"}
	for _, s := range yes {
		if !isNumberText(s) {
			t.Fatalf("isNumberText(%q) = false", s)
		}
	}
	for _, s := range no {
		if isNumberText(s) {
			t.Fatalf("isNumberText(%q) = true", s)
		}
	}
}

func TestLooksLikeLiteral(t *testing.T) {
	yes := []string{"true", "false", "null", "1", "-4", "2.3", "2e1", "1e+1", "007"}
	no := []string{"", "True", "nul", "5a", "1.", "-", "a1", "1e", "1 "}
	for _, s := range yes {
		if !looksLikeLiteral(s) {
			t.Fatalf("looksLikeLiteral(%q) = false", s)
		}
	}
	for _, s := range no {
		if looksLikeLiteral(s) {
			t.Fatalf("looksLikeLiteral(%q) = true", s)
		}
	}
}

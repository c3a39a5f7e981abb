package chars

import "testing"

func TestLookup_Table(t *testing.T) {
	cases := []struct {
		c    byte
		want Class
	}{
		{'a', AnyStrSafe},
		{'Z', AnyStrSafe},
		{'7', AnyStrSafe},
		{'~', AnyStrSafe},
		{'%', AnyStrSafe},
		{'+', AnyStrSafe},
		{'\'', NStrSafe | Quote},
		{'(', QStrSafe | Struct},
		{')', QStrSafe | Struct},
		{',', QStrSafe | Struct},
		{':', QStrSafe | Struct},
		{'&', Struct | WFU},
		{'=', Struct | WFU},
		{' ', 0},
		{'"', 0},
		{'#', 0},
		{'{', 0},
		{0x7f, 0},
		{0x80, 0},
		{0xff, 0},
	}
	for _, tc := range cases {
		if got := Lookup(tc.c); got != tc.want {
			t.Fatalf("Lookup(%q)=%b want %b", tc.c, got, tc.want)
		}
	}
}

func TestIsAndAny(t *testing.T) {
	if !Is('a', AnyStrSafe) {
		t.Fatalf("a should be safe everywhere")
	}
	if Is('\'', AnyStrSafe) {
		t.Fatalf("quote is not safe inside a quoted string")
	}
	if !Any('(', Struct) || Any('a', Struct) {
		t.Fatalf("unexpected structural classification")
	}
	if !IsDigit('0') || IsDigit('a') {
		t.Fatalf("unexpected digit classification")
	}
}

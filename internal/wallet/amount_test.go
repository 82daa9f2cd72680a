package wallet

import (
	"math/big"
	"testing"
)

func TestParseEtherExact(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "1000000000000000000"},
		{"0.005", "5000000000000000"},
		{"0.000000000000000001", "1"},
		{"999", "999000000000000000000"},
		{"12.345678901234567891", "12345678901234567891"},
		{".5", "500000000000000000"},
		{"2.", "2000000000000000000"},
	}
	for _, tc := range cases {
		got, err := ParseEther(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		want, _ := new(big.Int).SetString(tc.want, 10)
		if got.Cmp(want) != 0 {
			t.Fatalf("parse %q: expected %s wei, got %s", tc.in, tc.want, got)
		}
	}
}

func TestParseEtherRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"", " ", "-1", "1.2.3", "abc", "1e18", "0x10",
		".", // no digits on either side of the point
		"0.0000000000000000001", // finer than one wei
	} {
		if _, err := ParseEther(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatEther(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1000000000000000000", "1"},
		{"5000000000000000", "0.005"},
		{"1", "0.000000000000000001"},
		{"1500000000000000000", "1.5"},
	}
	for _, tc := range cases {
		wei, _ := new(big.Int).SetString(tc.in, 10)
		if got := FormatEther(wei); got != tc.want {
			t.Fatalf("format %s: expected %q, got %q", tc.in, tc.want, got)
		}
	}
	if got := FormatEther(nil); got != "0" {
		t.Fatalf("format nil: expected 0, got %q", got)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, in := range []string{"0.01", "1", "999", "0.000000000000000001", "12.5"} {
		wei, err := ParseEther(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := FormatEther(wei); got != in {
			t.Fatalf("round trip %q: got %q", in, got)
		}
	}
}

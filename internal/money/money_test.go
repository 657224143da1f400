package money

import (
	"testing"

	"farmstore/internal/domain"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		minor int64
		cur   domain.Currency
		want  string
	}{
		{700000, domain.CurrencyNGN, "₦7,000"},
		{1250, domain.CurrencyUSD, "$12.50"},
		{0, domain.CurrencyNGN, "₦0"},
		{123456789, domain.CurrencyNGN, "₦1,234,567.89"},
		{-500, domain.CurrencyUSD, "-$5"},
	}
	for _, tc := range cases {
		if got := Format(tc.minor, tc.cur); got != tc.want {
			t.Fatalf("Format(%d, %s) = %q, want %q", tc.minor, tc.cur, got, tc.want)
		}
	}
}

func TestParseMajor(t *testing.T) {
	got, err := ParseMajor("3500")
	if err != nil || got != 350000 {
		t.Fatalf("ParseMajor(3500) = %d, %v", got, err)
	}
	got, err = ParseMajor(" 12.5 ")
	if err != nil || got != 1250 {
		t.Fatalf("ParseMajor(12.5) = %d, %v", got, err)
	}
	if got, err := ParseMajor(""); err != nil || got != 0 {
		t.Fatalf("expected zero for blank, got %d %v", got, err)
	}
	for _, bad := range []string{"abc", "-1", "1.234"} {
		if _, err := ParseMajor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMajor(t *testing.T) {
	if got := Major(350000).String(); got != "3500" {
		t.Fatalf("Major(350000) = %s", got)
	}
}

package slip

import (
	"strings"
	"testing"
)

func TestThaiToArabic(t *testing.T) {
	got := ThaiToArabic("จำนวน ๑๕๐๐ บาท")
	if got != "จำนวน 1500 บาท" {
		t.Fatalf("unexpected conversion: %q", got)
	}
}

func TestThaiToArabicIdempotent(t *testing.T) {
	inputs := []string{"๐๑๒๓๔๕๖๗๘๙", "abc ๕๐๐", "1500", ""}
	for _, in := range inputs {
		once := ThaiToArabic(in)
		twice := ThaiToArabic(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestStripSeparatorsRemovesAll(t *testing.T) {
	got := StripSeparators(" 1,234.56\tบาท\n")
	if got != "123456บาท" {
		t.Fatalf("unexpected strip result: %q", got)
	}
	for _, s := range []string{got, StripSeparators("a, b. c")} {
		if strings.ContainsAny(s, ",.") || strings.ContainsAny(s, " \t\n") {
			t.Fatalf("separator survived stripping: %q", s)
		}
	}
}

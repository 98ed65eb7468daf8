package slip

import (
	"strings"
	"unicode"
)

const thaiDigits = "๐๑๒๓๔๕๖๗๘๙"

// ThaiToArabic replaces Thai numerals with their ASCII digit equivalents.
// Every other rune passes through untouched, so the function is idempotent.
func ThaiToArabic(s string) string {
	return strings.Map(func(r rune) rune {
		if i := strings.IndexRune(thaiDigits, r); i >= 0 {
			// i is a byte offset; Thai digits are 3 bytes each in UTF-8
			return rune('0' + i/3)
		}
		return r
	}, s)
}

// StripSeparators removes whitespace, commas and periods. Slips print amounts
// with arbitrary grouping ("1,500.00", "1.500", "1 500") and OCR adds stray
// spaces; collapsing all of it makes the matcher's substring checks viable.
// Lossy on purpose: "1,234" and "1.234" both become "1234".
func StripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' || r == '.' {
			return -1
		}
		return r
	}, s)
}

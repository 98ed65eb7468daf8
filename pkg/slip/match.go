package slip

import (
	"strconv"
	"strings"
)

// currencyWord is the Thai word for baht as printed on transfer slips.
const currencyWord = "บาท"

// AmountMatches reports whether ocrText asserts payment of the claimed
// amount. OCR output is noisy about whether the currency word is glued to the
// digits and whether a slip prints trailing ".00", so two candidate numeral
// strings are tried against two placements each:
//
//  1. candidate immediately followed by the currency word anywhere in the text
//  2. the segment before the first currency word ends with the candidate
//
// The ends-with form guards against matching digits embedded inside a longer
// unrelated number (ids, reference codes). Any of the four checks passing
// counts as a match. Heuristic, not proof.
func AmountMatches(ocrText, claimed string) bool {
	cleanText := StripSeparators(ThaiToArabic(ocrText))

	candidateA := StripSeparators(claimed)
	candidateB := StripSeparators(formatTwoDecimals(claimed))

	if candidateA == "" {
		return false
	}

	if strings.Contains(cleanText, candidateA+currencyWord) {
		return true
	}
	if strings.Contains(cleanText, candidateB+currencyWord) {
		return true
	}
	prefix, _, _ := strings.Cut(cleanText, currencyWord)
	return strings.HasSuffix(prefix, candidateA) || strings.HasSuffix(prefix, candidateB)
}

// formatTwoDecimals renders the claimed amount with exactly two decimal
// places ("1500" -> "1500.00", "1.5" -> "1.50"). The claim is parsed as
// written; separators are only stripped from the formatted output, otherwise
// a decimal point would shift the value ("1.5" must not become 15). A
// non-numeric amount yields "NaN", which simply never matches digits.
func formatTwoDecimals(claimed string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(claimed), 64)
	if err != nil {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

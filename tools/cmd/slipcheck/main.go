package main

import (
	"fmt"
	"os"

	"screenpay/pkg/ocr"
	"screenpay/pkg/slip"
)

// Debug harness: OCR a slip image and check it against a claimed amount.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: go run ./tools/cmd/slipcheck <image> <amount>")
		os.Exit(2)
	}
	path := os.Args[1]
	amount := os.Args[2]

	text, err := ocr.NewTesseract().Recognize(path)
	fmt.Printf("Recognize err=%v\n", err)
	fmt.Printf("text=%q\n", ocr.Snippet(text, 400))
	if err != nil {
		os.Exit(1)
	}
	clean := slip.StripSeparators(slip.ThaiToArabic(text))
	fmt.Printf("clean=%q\n", ocr.Snippet(clean, 400))
	fmt.Printf("matches(%s)=%v\n", amount, slip.AmountMatches(text, amount))
}

// price.go: normalization of locale-formatted price representations.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antonholmquist/jason"
)

// Chilean retail price strings use a period as thousands separator and an
// optional comma decimal, e.g. "$3.450" or "$1.234,5". Promotional multi-pack
// strings carry the per-pack price at the end, e.g. "2 x $2.500".
var (
	priceDollarRe = regexp.MustCompile(`^\$\s*(\d{1,3}(?:\.\d{3})*(?:,\d+)?)$`)
	pricePromoRe  = regexp.MustCompile(`x\s*\$\s*(\d{1,3}(?:\.\d{3})*(?:,\d+)?)$`)
)

// ParsePrice converts a raw payload price into a number. The value may
// already be numeric, or a currency-formatted string. Malformed prices are
// common in the source data, so failure is reported as ok=false rather than
// an error and must not abort the surrounding record.
func ParsePrice(v *jason.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if f, err := v.Float64(); err == nil {
		return f, true
	}
	s, err := v.String()
	if err != nil {
		return 0, false
	}
	return ParsePriceString(s)
}

// ParsePriceString parses a currency-formatted price string.
func ParsePriceString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if m := priceDollarRe.FindStringSubmatch(s); m != nil {
		return parseSeparatedNumber(m[1])
	}
	if m := pricePromoRe.FindStringSubmatch(s); m != nil {
		return parseSeparatedNumber(m[1])
	}
	return 0, false
}

// parseSeparatedNumber strips thousands separators and converts the decimal
// comma to a period.
func parseSeparatedNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

package normalize

import (
	"math"
	"strconv"
	"strings"
)

// DollarsToCents converts a nullable float64 dollar amount to nullable int64 cents.
// Uses math.Round to avoid truncation bias.
func DollarsToCents(v *float64) *int64 {
	if v == nil {
		return nil
	}
	c := int64(math.Round(*v * 100))
	return &c
}

var amountStripper = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseAmount converts a currency cell such as "$1,234.50" to cents.
// Unparseable and negative amounts yield 0.
func ParseAmount(s string) int64 {
	s = amountStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return *DollarsToCents(&v)
}

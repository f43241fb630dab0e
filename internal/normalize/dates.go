package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Common date formats found in claims exports.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"2006/01/02",
	"20060102",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial numbers outside this range are not treated as Excel dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465 // 9999-12-31
)

// ParseDate parses a date given either as an Excel serial number or in one of
// the common text formats. The result is truncated to UTC midnight.
// Returns nil if the input is empty or unparseable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, ok := fromExcelSerial(s); ok {
		return &t
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

func fromExcelSerial(s string) (time.Time, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !(v >= minExcelSerial && v <= maxExcelSerial) {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(math.Floor(v))), true
}

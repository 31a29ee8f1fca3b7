package fec

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"20060102",   // FEC
	"2006-01-02", // ISO
	"02/01/2006", // DD/MM/YYYY
	"02-01-2006",
	"02.01.2006",
}

// ParseDate accepts the date spellings found in ledger exports. Time-of-day
// suffixes are ignored.
func ParseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	// drop a time component ("2024-01-31 00:00:00" or ISO T suffix)
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

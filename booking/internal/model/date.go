package model

import (
	"strings"
	"time"
)

const dateTimeNoZone = "2006-01-02T15:04:05"

var dateLayouts = []string{time.RFC3339Nano, dateTimeNoZone, time.DateOnly}

// ParseDate accepts YYYY-MM-DD and RFC 3339 timestamps. Values without a
// zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func IsDateOnly(s string) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	return err == nil
}

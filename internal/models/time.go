package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/common"
)

// TimeLayout is the canonical, sortable timestamp form used on disk and on
// the wire. Timestamps are local wall-clock times with second precision.
const TimeLayout = "2006-01-02T15:04:05"

const (
	dateLayout   = "2006-01-02"
	clockLayout  = "15:04"
	endOfDayTime = "23:59:59"
)

func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

// Stamp truncates t to whole seconds in local time, which is the precision
// every stored timestamp has.
func Stamp(t time.Time) time.Time {
	return t.Local().Truncate(time.Second)
}

// ParseDue builds a due timestamp from a YYYY-MM-DD date and an optional
// HH:MM (or HH:MM:SS) time. Without a time the due instant is the last
// second of the date.
func ParseDue(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, common.ErrMissingDueDate
	}
	if _, err := time.ParseInLocation(dateLayout, date, time.Local); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidDueDate, err)
	}

	if clock == "" {
		clock = endOfDayTime
	} else if len(clock) == len(clockLayout) {
		clock += ":00"
	}

	t, err := time.ParseInLocation(TimeLayout, date+"T"+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidDueDate, err)
	}
	return t, nil
}

package core

import (
	"fmt"
	"strings"
	"time"
)

// SnapshotTime is the moment a datamart row was exported. The zero value
// means the export carried no snapshot column at all.
type SnapshotTime time.Time

// NewSnapshotTime creates a SnapshotTime from time.Time
func NewSnapshotTime(t time.Time) SnapshotTime {
	return SnapshotTime(t)
}

// Time returns the underlying time.Time
func (t SnapshotTime) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the snapshot time is unset
func (t SnapshotTime) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t SnapshotTime) Before(u SnapshotTime) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t SnapshotTime) After(u SnapshotTime) bool {
	return time.Time(t).After(time.Time(u))
}

// Equal returns true if both snapshot times denote the same instant
func (t SnapshotTime) Equal(u SnapshotTime) bool {
	return time.Time(t).Equal(time.Time(u))
}

// Day truncates to the calendar day, used by the calendar heatmap.
func (t SnapshotTime) Day() time.Time {
	y, m, d := time.Time(t).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (t SnapshotTime) String() string { return t.Time().Format(time.RFC3339) }

// prpcLayout matches datamart exports: "20190131T120000.000 GMT".
const prpcLayout = "20060102T150405.000"

// snapshotLayouts are the accepted timestamp encodings, most specific first.
var snapshotLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseSnapshotTime converts a raw export timestamp into a SnapshotTime.
// Pega's PRPC encoding carries a trailing timezone name which Go's parser
// does not resolve, so it is handled explicitly before the generic layouts.
func ParseSnapshotTime(raw string) (SnapshotTime, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return SnapshotTime{}, fmt.Errorf("empty snapshot time")
	}
	if fields := strings.Fields(s); len(fields) == 2 && fields[1] == "GMT" {
		if t, err := time.ParseInLocation(prpcLayout, fields[0], time.UTC); err == nil {
			return SnapshotTime(t), nil
		}
	}
	for _, layout := range snapshotLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return SnapshotTime(t), nil
		}
	}
	return SnapshotTime{}, fmt.Errorf("unrecognized snapshot time %q", raw)
}

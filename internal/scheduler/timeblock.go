package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday identifies a teaching day. Only Monday through Friday are schedulable.
type Weekday uint8

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

const minutesPerDay = 24 * 60

var weekdayNames = [...]string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}

// Compact catalog codes, R is Thursday.
var weekdayCodes = [...]byte{'M', 'T', 'W', 'R', 'F'}

var weekdayAliases = map[string]Weekday{
	"MONDAY":    Monday,
	"MON":       Monday,
	"M":         Monday,
	"TUESDAY":   Tuesday,
	"TUE":       Tuesday,
	"T":         Tuesday,
	"WEDNESDAY": Wednesday,
	"WED":       Wednesday,
	"W":         Wednesday,
	"THURSDAY":  Thursday,
	"THU":       Thursday,
	"R":         Thursday,
	"FRIDAY":    Friday,
	"FRI":       Friday,
	"F":         Friday,
}

// String returns the upper-case weekday name.
func (w Weekday) String() string {
	if int(w) < len(weekdayNames) {
		return weekdayNames[w]
	}
	return fmt.Sprintf("Weekday(%d)", uint8(w))
}

// ParseWeekday accepts full names, three letter abbreviations and single letter codes.
func ParseWeekday(raw string) (Weekday, error) {
	day, ok := weekdayAliases[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", raw)
	}
	return day, nil
}

// DaySet is a bitmask of weekdays.
type DaySet uint8

// NewDaySet builds a set from the given days.
func NewDaySet(days ...Weekday) DaySet {
	var set DaySet
	for _, day := range days {
		set |= 1 << day
	}
	return set
}

// ParseDayNames builds a set from a list of weekday names.
func ParseDayNames(names []string) (DaySet, error) {
	var set DaySet
	for _, name := range names {
		day, err := ParseWeekday(name)
		if err != nil {
			return 0, err
		}
		set |= 1 << day
	}
	return set, nil
}

// ParseDayCodes parses the compact catalog format, e.g. "MWF" or "TR".
func ParseDayCodes(raw string) (DaySet, error) {
	var set DaySet
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if r == ' ' {
			continue
		}
		day, ok := weekdayAliases[string(r)]
		if !ok {
			return 0, fmt.Errorf("unknown day code %q in %q", r, raw)
		}
		set |= 1 << day
	}
	return set, nil
}

// Has reports whether the day is in the set.
func (d DaySet) Has(day Weekday) bool {
	return d&(1<<day) != 0
}

// Intersect returns the days present in both sets.
func (d DaySet) Intersect(other DaySet) DaySet {
	return d & other
}

// Empty reports whether no day is set.
func (d DaySet) Empty() bool {
	return d == 0
}

// Days lists the members in week order.
func (d DaySet) Days() []Weekday {
	days := make([]Weekday, 0, len(weekdayNames))
	for day := Monday; day <= Friday; day++ {
		if d.Has(day) {
			days = append(days, day)
		}
	}
	return days
}

// Names lists the members as upper-case weekday names.
func (d DaySet) Names() []string {
	days := d.Days()
	names := make([]string, len(days))
	for i, day := range days {
		names[i] = day.String()
	}
	return names
}

// Code renders the compact catalog format.
func (d DaySet) Code() string {
	var b strings.Builder
	for _, day := range d.Days() {
		b.WriteByte(weekdayCodes[day])
	}
	return b.String()
}

func (d DaySet) valid() bool {
	return d&^NewDaySet(Monday, Tuesday, Wednesday, Thursday, Friday) == 0
}

// TimeBlock is a recurring weekly interval. Start and end are minutes since midnight.
type TimeBlock struct {
	days  DaySet
	start int
	end   int
}

// NewTimeBlock validates and builds a block. Start must be strictly before end.
func NewTimeBlock(days DaySet, start, end int) (TimeBlock, error) {
	if days.Empty() {
		return TimeBlock{}, fmt.Errorf("time block requires at least one day")
	}
	if !days.valid() {
		return TimeBlock{}, fmt.Errorf("time block days must fall between Monday and Friday")
	}
	if start < 0 || end > minutesPerDay {
		return TimeBlock{}, fmt.Errorf("time block %s-%s is outside a single day", FormatClock(start), FormatClock(end))
	}
	if start >= end {
		return TimeBlock{}, fmt.Errorf("time block start %s must be before end %s", FormatClock(start), FormatClock(end))
	}
	return TimeBlock{days: days, start: start, end: end}, nil
}

// ParseTimeBlock builds a block from compact day codes and HHMM clock strings.
func ParseTimeBlock(dayCodes, start, end string) (TimeBlock, error) {
	days, err := ParseDayCodes(dayCodes)
	if err != nil {
		return TimeBlock{}, err
	}
	from, err := ParseClock(start)
	if err != nil {
		return TimeBlock{}, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return TimeBlock{}, err
	}
	return NewTimeBlock(days, from, to)
}

// Days returns the block's weekdays.
func (b TimeBlock) Days() DaySet { return b.days }

// Start returns minutes since midnight.
func (b TimeBlock) Start() int { return b.start }

// End returns minutes since midnight.
func (b TimeBlock) End() int { return b.end }

func (b TimeBlock) String() string {
	return fmt.Sprintf("%s %s-%s", b.days.Code(), FormatClock(b.start), FormatClock(b.end))
}

// Conflicts reports whether two blocks share a weekday and overlap in time.
// Blocks that only touch (one ends exactly when the other starts) do not conflict.
func Conflicts(a, b TimeBlock) bool {
	if a.days.Intersect(b.days).Empty() {
		return false
	}
	return a.start < b.end && b.start < a.end
}

// ParseClock parses "HHMM", "HMM" or "HH:MM" into minutes since midnight.
// "2400" is accepted as the end of the day.
func ParseClock(raw string) (int, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ":", "")
	if len(value) < 3 || len(value) > 4 {
		return 0, fmt.Errorf("invalid clock time %q, expected HHMM", raw)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid clock time %q, expected HHMM", raw)
	}
	hours, minutes := n/100, n%100
	if minutes > 59 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("clock time %q out of range", raw)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as HHMM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d%02d", minutes/60, minutes%60)
}

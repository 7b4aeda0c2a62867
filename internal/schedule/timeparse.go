// Package schedule holds the pure scheduling logic: wall-clock and day-code
// parsing, interval overlap, and the classification of a candidate section
// against a draft. Nothing in this package performs I/O.
package schedule

import (
	"math"
	"strconv"
	"strings"
)

// Day is a canonical day-of-week name.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// TimeToDecimal converts a wall-clock string to hours as a real number,
// e.g. "9:30" -> 9.5, "2:15 PM" -> 14.25. Accepts "H:MM"/"HH:MM" (24-hour)
// or the same with an AM/PM suffix. 12:00 AM maps to 0.0 and 12:00 PM to
// 12.0. Malformed or empty input returns 0 rather than an error so a single
// bad catalog record cannot abort a conflict scan.
func TimeToDecimal(value string) float64 {
	decimal, _ := timeToDecimal(value)
	return decimal
}

// timeToDecimal reports whether the input actually parsed; the zero value
// doubles as the public fallback, but Duration needs to tell a genuine
// midnight apart from garbage.
func timeToDecimal(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}

	upper := strings.ToUpper(trimmed)
	meridiem := ""
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			upper = strings.TrimSpace(strings.TrimSuffix(upper, suffix))
			break
		}
	}

	clock := strings.SplitN(upper, ":", 2)
	if len(clock) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(clock[0]))
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(clock[1]))
	if err != nil {
		return 0, false
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, false
	}

	switch meridiem {
	case "PM":
		if hours != 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}
	if hours > 23 {
		return 0, false
	}

	return float64(hours) + float64(minutes)/60, true
}

// Duration returns the decimal-hour span between two wall-clock strings,
// rounded to two places. A record whose times do not parse still has to
// occupy visible space on a calendar, so the fallback is 1.0, never 0 --
// and never the raw end time, which a failed start parse would otherwise
// inflate the span to.
func Duration(start, end string) float64 {
	startDecimal, startOK := timeToDecimal(start)
	endDecimal, endOK := timeToDecimal(end)
	if !startOK || !endOK || endDecimal <= startDecimal {
		return 1.0
	}
	return math.Round((endDecimal-startDecimal)*100) / 100
}

// dayCodes is scanned in order: the two-letter codes must come before the
// single letters they would otherwise shadow (T, S).
var dayCodes = []struct {
	code string
	day  Day
}{
	{"Tu", Tuesday},
	{"Th", Thursday},
	{"Sa", Saturday},
	{"M", Monday},
	{"W", Wednesday},
	{"F", Friday},
	{"U", Sunday},
}

// ParseDays expands a compact day code into a day set. The canonical
// encoding everywhere in this system (catalog rows, persistence, display)
// is greedy two-letter disambiguation: "Tu", "Th" and "Sa" are matched
// left-to-right before the single letters "M", "W", "F" and "U" (Sunday),
// so "MWF" is {Mon,Wed,Fri} and "TuTh" is {Tue,Thu}. Unrecognized
// characters are skipped; order never matters to conflict logic.
func ParseDays(days string) map[Day]bool {
	parsed := make(map[Day]bool)
	rest := strings.TrimSpace(days)
	for rest != "" {
		matched := false
		for _, entry := range dayCodes {
			if strings.HasPrefix(rest, entry.code) {
				parsed[entry.day] = true
				rest = rest[len(entry.code):]
				matched = true
				break
			}
		}
		if !matched {
			rest = rest[1:]
		}
	}
	return parsed
}

func daysIntersect(a, b map[Day]bool) bool {
	for day := range a {
		if b[day] {
			return true
		}
	}
	return false
}

package booking

import (
    "fmt"
    "strconv"
    "strings"
)

// Window is the bookable time-of-day range shared by all labs, externally
// configured.  A candidate interval must start no earlier than OpenMin and
// end no later than CloseMin, which also rules out intervals that would
// wrap past midnight.
type Window struct {
    OpenMin        int // first bookable minute of the day
    CloseMin       int // exclusive upper bound for interval ends
    MaxDurationMin int // longest single booking, 0 = no cap
}

// Contains reports whether the interval is a valid slot within the window.
func (w Window) Contains(iv Interval) bool {
    if iv.DurationMin <= 0 {
        return false
    }
    if w.MaxDurationMin > 0 && iv.DurationMin > w.MaxDurationMin {
        return false
    }
    return iv.StartMin >= w.OpenMin && iv.EndMin() <= w.CloseMin
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
    parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
    if len(parts) != 2 {
        return 0, fmt.Errorf("invalid clock value %q", s)
    }
    h, err := strconv.Atoi(parts[0])
    if err != nil {
        return 0, fmt.Errorf("invalid clock value %q", s)
    }
    m, err := strconv.Atoi(parts[1])
    if err != nil {
        return 0, fmt.Errorf("invalid clock value %q", s)
    }
    if h < 0 || h > 23 || m < 0 || m > 59 {
        return 0, fmt.Errorf("clock value %q out of range", s)
    }
    return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(min int) string {
    return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

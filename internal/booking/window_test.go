package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowContains(t *testing.T) {
	w := Window{OpenMin: 480, CloseMin: 1200, MaxDurationMin: 240} // 08:00-20:00, max 4h

	cases := []struct {
		name  string
		start int
		dur   int
		want  bool
	}{
		{"inside window", 600, 60, true},
		{"exactly the whole window cap", 480, 240, true},
		{"ends exactly at close", 1140, 60, true},
		{"starts exactly at open", 480, 30, true},
		{"before opening", 420, 60, false},
		{"ends past close", 1170, 60, false},
		{"zero duration", 600, 0, false},
		{"negative duration", 600, -30, false},
		{"over max duration", 480, 300, false},
		{"would wrap past midnight", 1380, 120, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.Contains(Interval{StartMin: tc.start, DurationMin: tc.dur}))
		})
	}
}

func TestWindowContains_NoDurationCap(t *testing.T) {
	w := Window{OpenMin: 0, CloseMin: 1440}
	assert.True(t, w.Contains(Interval{StartMin: 0, DurationMin: 1440}))
}

func TestParseClock(t *testing.T) {
	for in, want := range map[string]int{
		"08:00": 480,
		"00:00": 0,
		"23:59": 1439,
		" 9:30": 570,
	} {
		got, err := ParseClock(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "8", "24:00", "12:60", "ab:cd", "-1:00"} {
		_, err := ParseClock(in)
		assert.Error(t, err, in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:00", FormatClock(480))
	assert.Equal(t, "23:59", FormatClock(1439))
	assert.Equal(t, "00:05", FormatClock(5))
}

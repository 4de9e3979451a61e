package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1:02:03", 3723},
		{"02:03", 123},
		{"45", 45},
		{"0:00:00", 0},
		{"10:00", 600},
		{" 02:03 ", 123},
		{"", 0},
		{"N/A", 0},
		{"garbage", 0},
		{"1:2:3:4", 0},
		{"-1:00", 0},
		{"1:xx", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseDuration(tc.in), "input %q", tc.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1:02:03", FormatDuration(3723))
	assert.Equal(t, "02:03", FormatDuration(123))
	assert.Equal(t, "00:45", FormatDuration(45))
	assert.Equal(t, "00:00", FormatDuration(0))
	assert.Equal(t, "2:00:00", FormatDuration(7200))
	assert.Equal(t, NoDuration, FormatDuration(-1))
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, seconds := range []int{0, 59, 60, 61, 3599, 3600, 3723, 86400} {
		assert.Equal(t, seconds, ParseDuration(FormatDuration(seconds)), "seconds %d", seconds)
	}
}

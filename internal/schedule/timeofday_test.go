package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"23:59", 23*60 + 59, false},
		{"09:00:00", 540, false}, // TIME column rendering
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"banana", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "09:00", TimeOfDay(540).String())
	assert.Equal(t, "17:30", TimeOfDay(1050).String())
	assert.Equal(t, "00:05", TimeOfDay(5).String())
}

func TestTimeOfDayAdd(t *testing.T) {
	assert.Equal(t, TimeOfDay(600), TimeOfDay(540).Add(60))
	assert.Equal(t, "10:00", TimeOfDay(540).Add(60).String())
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2026-09-15")
	assert.NoError(t, err)

	for _, in := range []string{"15/09/2026", "2026-13-01", "2026-09-32", "not-a-date", ""} {
		_, err := ParseDate(in)
		assert.Error(t, err, "input %q", in)
	}
}

package naming

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 20, 45, 10, 0, time.UTC))
}

func TestNamer_OutputPath(t *testing.T) {
	tests := []struct {
		name     string
		zone     string
		format   string
		input    string
		expected string
	}{
		{
			name:     "default zone shift crosses midnight",
			zone:     "Asia/Kolkata",
			input:    "/data/in/people.json",
			expected: filepath.Join("out", "people_20240302021510.xlsx"),
		},
		{
			name:     "utc",
			zone:     "UTC",
			input:    "orders.json",
			expected: filepath.Join("out", "orders_20240301204510.xlsx"),
		},
		{
			name:     "custom format",
			zone:     "UTC",
			format:   "%Y-%m-%d",
			input:    "a.b.json",
			expected: filepath.Join("out", "a.b_2024-03-01.xlsx"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNamer(fakeClock(), tt.zone, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.OutputPath("out", tt.input))
		})
	}
}

func TestNamer_FollowsClock(t *testing.T) {
	clock := fakeClock()
	n, err := NewNamer(clock, "UTC", "")
	require.NoError(t, err)

	assert.Equal(t, "20240301204510", n.Timestamp())
	clock.Advance(65 * time.Second)
	assert.Equal(t, "20240301204615", n.Timestamp())
}

func TestNewNamer_InvalidZone(t *testing.T) {
	_, err := NewNamer(fakeClock(), "Mars/Olympus", "")
	assert.Error(t, err)
}

func TestLogFilePath(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 20, 45, 10, 0, time.Local))
	path, err := LogFilePath(clock, "logs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("logs", "errors_20240301_204510.log"), path)
}

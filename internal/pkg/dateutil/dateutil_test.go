package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDatesBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []time.Time
	}{
		{
			name:  "same day yields exactly one entry",
			start: date(2024, 3, 1),
			end:   date(2024, 3, 1),
			want:  []time.Time{date(2024, 3, 1)},
		},
		{
			name:  "inclusive of both endpoints",
			start: date(2024, 3, 1),
			end:   date(2024, 3, 5),
			want: []time.Time{
				date(2024, 3, 1),
				date(2024, 3, 2),
				date(2024, 3, 3),
				date(2024, 3, 4),
				date(2024, 3, 5),
			},
		},
		{
			name:  "crosses a month boundary",
			start: date(2024, 2, 28),
			end:   date(2024, 3, 1),
			want: []time.Time{
				date(2024, 2, 28),
				date(2024, 2, 29), // leap year
				date(2024, 3, 1),
			},
		},
		{
			name:  "time of day is stripped",
			start: time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC),
			end:   time.Date(2024, 3, 2, 0, 1, 0, 0, time.UTC),
			want: []time.Time{
				date(2024, 3, 1),
				date(2024, 3, 2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DatesBetween(tt.start, tt.end)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatesBetween_InvalidRange(t *testing.T) {
	_, err := DatesBetween(date(2024, 3, 5), date(2024, 3, 1))

	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDatesBetween_Restartable(t *testing.T) {
	first, err := DatesBetween(date(2024, 3, 1), date(2024, 3, 3))
	require.NoError(t, err)

	second, err := DatesBetween(date(2024, 3, 1), date(2024, 3, 3))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWithinRange(t *testing.T) {
	start := date(2024, 3, 1)
	end := date(2024, 3, 5)

	assert.True(t, WithinRange(date(2024, 3, 1), start, end))
	assert.True(t, WithinRange(date(2024, 3, 5), start, end))
	assert.True(t, WithinRange(time.Date(2024, 3, 3, 18, 30, 0, 0, time.UTC), start, end))
	assert.False(t, WithinRange(date(2024, 2, 29), start, end))
	assert.False(t, WithinRange(date(2024, 3, 10), start, end))
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC),
	))
	assert.False(t, SameDay(date(2024, 3, 1), date(2024, 3, 2)))
}

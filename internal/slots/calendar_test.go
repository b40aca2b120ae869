package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project30/internal/model"
)

func TestWeekDates(t *testing.T) {
	for _, day := range []model.Date{
		date(2024, time.January, 8),  // monday
		date(2024, time.January, 10), // wednesday
		date(2024, time.January, 14), // sunday
	} {
		week := WeekDates(day)
		require.Len(t, week, 7)
		assert.Equal(t, date(2024, time.January, 8), week[0])
		assert.Equal(t, date(2024, time.January, 14), week[6])
	}
}

func TestMonthWeeks(t *testing.T) {
	// February 2024 starts on a thursday and has 29 days.
	rows := MonthWeeks(2024, time.February)
	require.Len(t, rows, 5)
	assert.True(t, rows[0][0].IsZero())
	assert.Equal(t, date(2024, time.February, 1), rows[0][3])
	assert.Equal(t, date(2024, time.February, 29), rows[4][3])
	assert.True(t, rows[4][4].IsZero())

	// April 2024 starts on a monday.
	rows = MonthWeeks(2024, time.April)
	assert.Equal(t, date(2024, time.April, 1), rows[0][0])
}

func TestBrowseStartDay(t *testing.T) {
	assert.Equal(t, date(2024, time.January, 8), BrowseStartDay(date(2024, time.January, 6)))
	assert.Equal(t, date(2024, time.January, 8), BrowseStartDay(date(2024, time.January, 7)))
	assert.Equal(t, date(2024, time.January, 9), BrowseStartDay(date(2024, time.January, 9)))
}

func TestInitialDay(t *testing.T) {
	today := date(2024, time.March, 1)
	tests := []struct {
		name     string
		bookings []model.Booking
		want     model.Date
	}{
		{"no bookings", nil, today},
		{
			"first upcoming",
			[]model.Booking{
				{Date: date(2024, time.March, 20)},
				{Date: date(2024, time.January, 5)},
				{Date: date(2024, time.March, 4)},
			},
			date(2024, time.March, 4),
		},
		{"today counts", []model.Booking{{Date: today}, {Date: date(2024, time.April, 1)}}, today},
		{
			"only past",
			[]model.Booking{
				{Date: date(2024, time.January, 5)},
				{Date: date(2024, time.February, 9)},
			},
			date(2024, time.February, 9),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InitialDay(tt.bookings, today))
		})
	}
}

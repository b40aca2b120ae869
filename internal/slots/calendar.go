package slots

import (
	"time"

	"project30/internal/model"
)

// WeekDates returns Monday..Sunday of the week containing day.
func WeekDates(day model.Date) []model.Date {
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6 // sunday
	}
	monday := day.AddDays(-offset)
	week := make([]model.Date, 7)
	for i := range week {
		week[i] = monday.AddDays(i)
	}
	return week
}

// MonthWeeks lays out a month as Monday-first rows of seven. Cells outside the
// month hold the zero Date.
func MonthWeeks(year int, month time.Month) [][7]model.Date {
	first := model.NewDate(year, month, 1)
	offset := int(first.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6
	}
	days := daysIn(month, year)

	var rows [][7]model.Date
	var row [7]model.Date
	col := offset
	for day := 1; day <= days; day++ {
		row[col] = model.NewDate(year, month, day)
		col++
		if col == 7 {
			rows = append(rows, row)
			row = [7]model.Date{}
			col = 0
		}
	}
	if col > 0 {
		rows = append(rows, row)
	}
	return rows
}

// BrowseStartDay is today, or the next Monday when today falls on a weekend.
func BrowseStartDay(today model.Date) model.Date {
	switch today.Weekday() {
	case time.Saturday:
		return today.AddDays(2)
	case time.Sunday:
		return today.AddDays(1)
	}
	return today
}

// InitialDay picks the day the "my bookings" calendar opens on: the first
// booking on or after today, otherwise the latest booking, otherwise today.
func InitialDay(bookings []model.Booking, today model.Date) model.Date {
	var upcoming, latest model.Date
	for _, b := range bookings {
		if !b.Date.Before(today) && (upcoming.IsZero() || b.Date.Before(upcoming)) {
			upcoming = b.Date
		}
		if latest.IsZero() || b.Date.After(latest) {
			latest = b.Date
		}
	}
	switch {
	case !upcoming.IsZero():
		return upcoming
	case !latest.IsZero():
		return latest
	}
	return today
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

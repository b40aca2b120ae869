// Package schedule orders and groups a user's bookings for list and summary views.
package schedule

import (
	"sort"
	"time"

	"project30/internal/model"
)

// Summary is the home screen pair of bookings. Either side may be nil.
type Summary struct {
	Previous *model.Booking
	Next     *model.Booking
}

// SelectPreviousAndNext picks the past and upcoming bookings shown on the home screen.
//
// Previous is taken as the last element of the past bookings sorted newest
// first, which is the earliest past booking. Next is the soonest booking
// strictly after now. Bookings in the current hour are in neither set.
func SelectPreviousAndNext(bookings []model.Booking, now time.Time) Summary {
	var past, upcoming []model.Booking
	for _, b := range bookings {
		switch {
		case b.IsBefore(now):
			past = append(past, b)
		case b.IsAfter(now):
			upcoming = append(upcoming, b)
		}
	}

	var s Summary
	if len(past) > 0 {
		sort.SliceStable(past, func(i, j int) bool { return past[i].Cell().After(past[j].Cell()) })
		prev := past[len(past)-1]
		s.Previous = &prev
	}
	if len(upcoming) > 0 {
		upcoming = SortChronological(upcoming)
		next := upcoming[0]
		s.Next = &next
	}
	return s
}

// DayGroup is the bookings of one date.
type DayGroup struct {
	Date     model.Date
	Bookings []model.Booking
}

// GroupByDate groups bookings by date. Groups follow the order in which each
// date is first seen; bookings keep their relative order inside a group.
func GroupByDate(bookings []model.Booking) []DayGroup {
	pos := make(map[model.Date]int)
	var groups []DayGroup
	for _, b := range bookings {
		i, ok := pos[b.Date]
		if !ok {
			i = len(groups)
			pos[b.Date] = i
			groups = append(groups, DayGroup{Date: b.Date})
		}
		groups[i].Bookings = append(groups[i].Bookings, b)
	}
	return groups
}

// Index turns groups into a lookup map.
func Index(groups []DayGroup) map[model.Date][]model.Booking {
	out := make(map[model.Date][]model.Booking, len(groups))
	for _, g := range groups {
		out[g.Date] = g.Bookings
	}
	return out
}

// Dates returns the group keys in order.
func Dates(groups []DayGroup) []model.Date {
	out := make([]model.Date, len(groups))
	for i, g := range groups {
		out[i] = g.Date
	}
	return out
}

// SortChronological returns a copy of bookings sorted by (date, hour). Ties keep input order.
func SortChronological(bookings []model.Booking) []model.Booking {
	out := append([]model.Booking(nil), bookings...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cell().Before(out[j].Cell()) })
	return out
}

func OnDate(bookings []model.Booking, day model.Date) []model.Booking {
	var out []model.Booking
	for _, b := range bookings {
		if b.Date == day {
			out = append(out, b)
		}
	}
	return out
}

package slots

import (
	"sort"

	"project30/internal/model"
)

// Layout maps days onto a flat list made of one header row followed by the
// day's item rows.
type Layout struct {
	days   []model.Date
	starts []int
	total  int
}

// NewLayout builds a layout from days in display order and their item counts.
func NewLayout(days []model.Date, rows func(model.Date) int) Layout {
	l := Layout{
		days:   append([]model.Date(nil), days...),
		starts: make([]int, len(days)),
	}
	for i, d := range days {
		l.starts[i] = l.total
		l.total += 1 + rows(d)
	}
	return l
}

// BookingLayout lays out grouped bookings: one row per booking.
func BookingLayout(days []model.Date, byDay map[model.Date][]model.Booking) Layout {
	return NewLayout(days, func(d model.Date) int { return len(byDay[d]) })
}

// Len is the total number of list rows including headers.
func (l Layout) Len() int { return l.total }

// IndexOf returns the header row of day.
func (l Layout) IndexOf(day model.Date) (int, bool) {
	for i, d := range l.days {
		if d == day {
			return l.starts[i], true
		}
	}
	return 0, false
}

// FirstFrom returns the first listed day on or after day.
func (l Layout) FirstFrom(day model.Date) (model.Date, bool) {
	for _, d := range l.days {
		if !d.Before(day) {
			return d, true
		}
	}
	return model.Date{}, false
}

// DayAt returns the day owning list row index.
func (l Layout) DayAt(index int) (model.Date, bool) {
	if index < 0 || index >= l.total {
		return model.Date{}, false
	}
	i := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > index }) - 1
	return l.days[i], true
}

// ScrollSync keeps the selected calendar day and the first visible list row in
// agreement. Scrolls it triggers itself are not reported back as selections.
type ScrollSync struct {
	layout    Layout
	current   model.Date
	scrolling bool
}

func NewScrollSync(layout Layout, current model.Date) *ScrollSync {
	return &ScrollSync{layout: layout, current: current}
}

// Select records a calendar pick and returns the row to scroll to. ok is false
// when the day is not part of the list.
func (s *ScrollSync) Select(day model.Date) (index int, ok bool) {
	s.current = day
	index, ok = s.layout.IndexOf(day)
	if ok {
		s.scrolling = true
	}
	return index, ok
}

// Settled marks the programmatic scroll started by Select as finished.
func (s *ScrollSync) Settled() {
	s.scrolling = false
}

// Visible is fed the first visible row after user scrolling. It returns the
// new current day when it changed.
func (s *ScrollSync) Visible(index int) (model.Date, bool) {
	if s.scrolling {
		return model.Date{}, false
	}
	day, ok := s.layout.DayAt(index)
	if !ok || day == s.current {
		return model.Date{}, false
	}
	s.current = day
	return day, true
}

// Page jumps to the first listed day on or after from and returns the rows
// [start, end) showing at least rows rows. The page is widened so it ends on
// a day boundary; rows <= 0 shows everything to the end. next is the day the
// following page starts with, if any.
func (s *ScrollSync) Page(from model.Date, rows int) (start, end int, next model.Date, more bool) {
	total := s.layout.Len()
	day, ok := s.layout.FirstFrom(from)
	if !ok {
		return total, total, model.Date{}, false
	}
	start, _ = s.Select(day)
	s.Settled()

	if rows <= 0 {
		return start, total, model.Date{}, false
	}
	end = start + rows
	for end < total {
		d, _ := s.layout.DayAt(end)
		if header, _ := s.layout.IndexOf(d); header == end {
			break
		}
		end++
	}
	if end > total {
		end = total
	}
	next, more = s.Visible(end)
	return start, end, next, more
}

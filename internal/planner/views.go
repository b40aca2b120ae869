package planner

import (
	"time"

	"project30/internal/availability"
	"project30/internal/metrics"
	"project30/internal/model"
	"project30/internal/schedule"
	"project30/internal/slots"
)

// CellView is one resolved hour of the board.
type CellView struct {
	Hour   int
	Result availability.Result
}

// DayView is one day of the board.
type DayView struct {
	Date       model.Date
	Selectable bool
	Cells      []CellView
}

// Board resolves every cell of the grid between start and end against the
// current snapshot. The range is clamped to the fetched window; call ExtendWindow first
// to look further ahead. In slots.ModeMine only days holding one of the
// user's bookings are returned.
func (s *Store) Board(mode slots.Mode, start, end model.Date) []DayView {
	from, to := s.window()
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if end.Before(start) {
		return nil
	}

	st := s.State()
	userID := st.User.ID
	now := s.now()

	bookings := mergeBookings(st.AllBookings, st.MyBookings)
	byDay := schedule.Index(schedule.GroupByDate(bookings))
	mineByDay := schedule.Index(schedule.GroupByDate(st.MyBookings))

	grid := slots.GenerateGrid(mode, start, end, s.currentHours())
	days := make([]DayView, 0, grid.Len())
	for _, d := range grid.Days() {
		selectable := slots.Selectable(mode, d, mineByDay)
		if mode == slots.ModeMine && !selectable {
			continue
		}
		day := DayView{Date: d, Selectable: selectable}
		for _, h := range grid.Hours(d) {
			res := availability.ResolveCell(d, h, st.Selection, byDay[d], userID, now)
			s.reportConflicts(model.Cell{Date: d, Hour: h}, userID, res)
			day.Cells = append(day.Cells, CellView{Hour: h, Result: res})
		}
		days = append(days, day)
	}
	return days
}

// Cell resolves a single slot against the current snapshot and selection.
func (s *Store) Cell(cell model.Cell) availability.Result {
	st := s.State()
	bookings := schedule.OnDate(mergeBookings(st.AllBookings, st.MyBookings), cell.Date)
	res := availability.ResolveCell(cell.Date, cell.Hour, st.Selection, bookings, st.User.ID, s.now())
	s.reportConflicts(cell, st.User.ID, res)
	return res
}

func (s *Store) reportConflicts(cell model.Cell, userID string, res availability.Result) {
	if len(res.Conflicts) == 0 {
		return
	}
	metrics.IncOwnBookingConflict()
	s.logger.Warn().
		Str("user_id", userID).
		Stringer("cell", cell).
		Int("extra", len(res.Conflicts)).
		Msg("more than one own booking in a cell")
}

// CalendarDay is one cell of a month calendar. Padding cells hold the zero Date.
type CalendarDay struct {
	Date       model.Date
	Selectable bool
	// Mine counts the user's bookings on Date.
	Mine int
}

// Calendar lays out year/month Monday first and marks the days that can be
// picked in mode.
func (s *Store) Calendar(mode slots.Mode, year int, month time.Month) [][7]CalendarDay {
	mineByDay := schedule.Index(schedule.GroupByDate(s.State().MyBookings))

	weeks := slots.MonthWeeks(year, month)
	out := make([][7]CalendarDay, len(weeks))
	for i, week := range weeks {
		for j, d := range week {
			if d.IsZero() {
				continue
			}
			out[i][j] = CalendarDay{
				Date:       d,
				Selectable: slots.Selectable(mode, d, mineByDay),
				Mine:       len(mineByDay[d]),
			}
		}
	}
	return out
}

// MyDays groups the user's bookings by day in chronological order.
func (s *Store) MyDays() []schedule.DayGroup {
	return schedule.GroupByDate(schedule.SortChronological(s.State().MyBookings))
}

// BookingsOn returns every known booking of day.
func (s *Store) BookingsOn(day model.Date) []model.Booking {
	st := s.State()
	return schedule.OnDate(mergeBookings(st.AllBookings, st.MyBookings), day)
}

package slots

import (
	"project30/internal/model"
)

// DefaultHours are the bookable start hours of a lesson day.
var DefaultHours = []int{14, 15, 16, 17}

// Mode selects how the grid treats days.
type Mode int

const (
	// ModeBrowse lists every weekday for all users; weekends are never generated.
	ModeBrowse Mode = iota
	// ModeMine lists the current user's bookings; no day is excluded structurally.
	ModeMine
)

func (m Mode) String() string {
	if m == ModeMine {
		return "mine"
	}
	return "browse"
}

// Grid is an ordered date -> hours mapping. Days are kept in insertion order,
// which is chronological for grids built by Generator.
type Grid struct {
	days  []model.Date
	hours map[model.Date][]int
}

func (g Grid) Days() []model.Date {
	return append([]model.Date(nil), g.days...)
}

func (g Grid) Hours(d model.Date) []int {
	return append([]int(nil), g.hours[d]...)
}

func (g Grid) Has(d model.Date) bool {
	_, ok := g.hours[d]
	return ok
}

func (g Grid) Len() int { return len(g.days) }

// Last returns the latest covered day.
func (g Grid) Last() (model.Date, bool) {
	if len(g.days) == 0 {
		return model.Date{}, false
	}
	return g.days[len(g.days)-1], true
}

// Cells flattens the grid in (date, hour) order.
func (g Grid) Cells() []model.Cell {
	var cells []model.Cell
	for _, d := range g.days {
		for _, h := range g.hours[d] {
			cells = append(cells, model.Cell{Date: d, Hour: h})
		}
	}
	return cells
}

// Generator grows a grid forward in time. Already covered days are never
// regenerated or reordered.
type Generator struct {
	mode  Mode
	start model.Date
	hours []int
	grid  Grid
}

// NewGenerator creates an empty generator. hours defaults to DefaultHours.
func NewGenerator(mode Mode, start model.Date, hours []int) *Generator {
	if len(hours) == 0 {
		hours = DefaultHours
	}
	return &Generator{
		mode:  mode,
		start: start,
		hours: append([]int(nil), hours...),
		grid:  Grid{hours: make(map[model.Date][]int)},
	}
}

// Extend covers every day up to and including end. It returns false when end
// is not after the last covered day and nothing was added.
func (g *Generator) Extend(end model.Date) bool {
	cursor := g.start
	if last, ok := g.grid.Last(); ok {
		if !end.After(last) {
			return false
		}
		cursor = last.AddDays(1)
	}

	added := false
	for ; !cursor.After(end); cursor = cursor.AddDays(1) {
		if g.mode == ModeBrowse && cursor.IsWeekend() {
			continue
		}
		g.grid.days = append(g.grid.days, cursor)
		g.grid.hours[cursor] = append([]int(nil), g.hours...)
		added = true
	}
	return added
}

// Grid returns a copy of the current grid.
func (g *Generator) Grid() Grid {
	out := Grid{
		days:  append([]model.Date(nil), g.grid.days...),
		hours: make(map[model.Date][]int, len(g.grid.hours)),
	}
	for d, h := range g.grid.hours {
		out.hours[d] = append([]int(nil), h...)
	}
	return out
}

// GenerateGrid builds the grid for [start, end]. An end before start yields an empty grid.
func GenerateGrid(mode Mode, start, end model.Date, hours []int) Grid {
	g := NewGenerator(mode, start, hours)
	g.Extend(end)
	return g.Grid()
}

// BrowseEnd is the coverage target of the browse list: one week past the
// displayed week, or the selected day when it lies further out.
func BrowseEnd(today, selected model.Date) model.Date {
	week := WeekDates(selected)
	end := week[len(week)-1].AddDays(7)
	if selected.After(end) {
		end = selected
	}
	if today.After(end) {
		end = today
	}
	return end
}

// Selectable reports whether day can be picked in the calendar. In ModeMine
// only days holding at least one of the user's bookings qualify.
func Selectable(mode Mode, day model.Date, bookingsByDay map[model.Date][]model.Booking) bool {
	if mode == ModeMine {
		return len(bookingsByDay[day]) > 0
	}
	return !day.IsWeekend()
}

// Package availability decides, for one grid cell, whether the current user
// already holds a booking there or which professors are still free.
package availability

import (
	"time"

	"project30/internal/model"
)

// Kind tells which branch of Result is populated.
type Kind int

const (
	KindAvailable Kind = iota
	KindOwnBooking
)

func (k Kind) String() string {
	if k == KindOwnBooking {
		return "own"
	}
	return "available"
}

// Query is the input of Resolve. Bookings may span several cells; only the
// ones matching Cell are considered.
type Query struct {
	Cell     model.Cell
	Roster   model.Roster
	Bookings []model.Booking
	UserID   string
	Now      time.Time
}

// Result is the availability of one cell.
type Result struct {
	Kind Kind
	// Own is set when Kind is KindOwnBooking.
	Own *model.Booking
	// Available holds, per course, the professors not yet taken in this cell.
	// Courses whose professors are all taken keep an empty list.
	Available model.Roster
	// Reservable is true when the cell has not started yet and a professor is left.
	Reservable bool
	// Conflicts lists further own bookings found in the same cell. The server
	// should never produce them.
	Conflicts []model.Booking
}

// FullyBooked is true when no course has a free professor left.
func (r Result) FullyBooked() bool {
	return r.Kind == KindAvailable && r.Available.IsEmpty()
}

// ResolveCell resolves the cell (date, hour) against the bookings of that date.
func ResolveCell(date model.Date, hour int, roster model.Roster, bookingsOnDate []model.Booking, userID string, now time.Time) Result {
	return Resolve(Query{
		Cell:     model.Cell{Date: date, Hour: hour},
		Roster:   roster,
		Bookings: bookingsOnDate,
		UserID:   userID,
		Now:      now,
	})
}

// Resolve computes the availability of q.Cell. The roster is never modified.
func Resolve(q Query) Result {
	active := make([]model.Booking, 0, len(q.Bookings))
	for _, b := range q.Bookings {
		if b.Cell() == q.Cell && !b.IsDeleted() {
			active = append(active, b)
		}
	}

	var own []model.Booking
	for _, b := range active {
		if b.OwnedBy(q.UserID) {
			own = append(own, b)
		}
	}
	if len(own) > 0 {
		first := own[0]
		return Result{
			Kind:      KindOwnBooking,
			Own:       &first,
			Conflicts: own[1:],
		}
	}

	available := q.Roster.Clone()
	for _, b := range active {
		profs, ok := available[b.CourseID]
		if !ok {
			continue
		}
		available[b.CourseID] = without(profs, b.ProfessorID)
	}

	past := q.Cell.Start(q.Now.Location()).Before(q.Now)
	return Result{
		Kind:       KindAvailable,
		Available:  available,
		Reservable: !past && !available.IsEmpty(),
	}
}

// Filter restricts full to the courses and professors present in selection.
// An empty selection keeps nothing.
func Filter(full, selection model.Roster) model.Roster {
	out := make(model.Roster, len(selection))
	for course := range selection {
		profs, ok := full[course]
		if !ok {
			continue
		}
		kept := make([]model.Professor, 0, len(profs))
		for _, p := range profs {
			if selection.Teaches(course, p.ID) {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			out[course] = kept
		}
	}
	return out
}

func without(profs []model.Professor, id string) []model.Professor {
	out := make([]model.Professor, 0, len(profs))
	for _, p := range profs {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

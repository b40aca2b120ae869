package planner

import (
	"context"
	"fmt"
	"time"

	"project30/internal/api"
	"project30/internal/availability"
	"project30/internal/events"
	"project30/internal/metrics"
	"project30/internal/model"
	"project30/internal/schedule"
)

func (s *Store) Login(ctx context.Context, account, password string) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	s.setLoading()

	user, err := s.backend.Login(ctx, account, password)
	if err != nil {
		return s.fail(ctx, "login", err)
	}
	s.session.Set(user)
	s.commit(ctx, func(st *State) {
		st.User = user
		st.LoggedIn = true
	})
	s.log(ctx).Info().Str("user_id", user.ID).Msg("logged in")
	return nil
}

// Logout clears the session only when the server accepted the logout.
func (s *Store) Logout(ctx context.Context) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	s.setLoading()

	if err := s.backend.Logout(ctx); err != nil {
		return s.fail(ctx, "logout", err)
	}
	s.session.Clear()
	s.commit(ctx, func(st *State) {
		st.User = model.User{}
		st.LoggedIn = false
		st.MyBookings = nil
		st.Home = schedule.Summary{}
		st.LastUpdated = nil
	})
	return nil
}

// LoadCatalog fetches courses and their professors. The selection starts as
// the whole roster and is otherwise narrowed to what still exists.
func (s *Store) LoadCatalog(ctx context.Context) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	s.setLoading()

	courses, err := s.backend.Courses(ctx)
	if err != nil {
		return s.fail(ctx, "load catalog", err)
	}
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	roster, err := s.backend.Roster(ctx, ids)
	if err != nil {
		return s.fail(ctx, "load catalog", err)
	}

	s.commit(ctx, func(st *State) {
		st.Courses = courses
		st.Roster = roster
		if len(st.Selection) == 0 {
			st.Selection = roster.Clone()
		} else {
			st.Selection = availability.Filter(roster, st.Selection)
		}
	})
	return nil
}

// UpdateSelection replaces the course/professor filter and reloads the board bookings.
func (s *Store) UpdateSelection(ctx context.Context, selection model.Roster) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	full := s.State().Roster
	s.commit(ctx, func(st *State) {
		st.Selection = availability.Filter(full, selection)
	})
	return s.loadAllBookings(ctx)
}

func (s *Store) LoadMyBookings(ctx context.Context) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	return s.loadMyBookings(ctx)
}

func (s *Store) LoadAllBookings(ctx context.Context) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	return s.loadAllBookings(ctx)
}

// ExtendWindow widens the fetched range so it reaches end, then reloads both
// booking lists. It is a no-op when end is already covered.
func (s *Store) ExtendWindow(ctx context.Context, end model.Date) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	if _, to := s.window(); !end.After(to) {
		return nil
	}
	s.mu.Lock()
	s.horizon = end
	s.mu.Unlock()

	if err := s.loadAllBookings(ctx); err != nil {
		return err
	}
	if s.session.IsLoggedIn() {
		return s.loadMyBookings(ctx)
	}
	return nil
}

// LoadHome refreshes the user's bookings and the previous/next summary.
func (s *Store) LoadHome(ctx context.Context) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	return s.loadMyBookings(ctx)
}

func (s *Store) loadMyBookings(ctx context.Context) error {
	userID := s.session.UserID()
	if userID == "" {
		return ErrNotLoggedIn
	}
	s.setLoading()

	from, to := s.window()
	mine, err := s.backend.UserBookings(ctx, userID, from, to)
	if err != nil {
		return s.fail(ctx, "load my bookings", err)
	}
	now := s.now()
	s.commit(ctx, func(st *State) {
		st.MyBookings = schedule.SortChronological(mine)
		st.Home = schedule.SelectPreviousAndNext(mine, now)
	})
	return nil
}

func (s *Store) loadAllBookings(ctx context.Context) error {
	s.setLoading()

	from, to := s.window()
	all, err := s.backend.CourseBookings(ctx, s.State().Selection.CourseIDs(), from, to)
	if err != nil {
		return s.fail(ctx, "load all bookings", err)
	}
	s.commit(ctx, func(st *State) {
		st.AllBookings = schedule.SortChronological(all)
	})
	return nil
}

// Reservation is a lesson the user wants to book.
type Reservation struct {
	CourseID    string
	ProfessorID string
	Cell        model.Cell
	Note        string
}

// Reserve books a lesson after checking that the professor is still free in that cell.
func (s *Store) Reserve(ctx context.Context, r Reservation) (model.Booking, error) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	userID := s.session.UserID()
	if userID == "" {
		return model.Booking{}, ErrNotLoggedIn
	}

	// The snapshot holds only the selected courses inside the loaded window.
	s.setLoading()
	taken, err := s.backend.CourseBookings(ctx, []string{r.CourseID}, r.Cell.Date, r.Cell.Date)
	if err != nil {
		return model.Booking{}, s.fail(ctx, "reserve", fmt.Errorf("check cell: %w", err))
	}
	s.clearLoading()

	st := s.State()
	res := availability.Resolve(availability.Query{
		Cell:     r.Cell,
		Roster:   st.Roster,
		Bookings: mergeBookings(taken, st.AllBookings, st.MyBookings),
		UserID:   userID,
		Now:      s.now(),
	})
	if res.Kind == availability.KindOwnBooking {
		return model.Booking{}, fmt.Errorf("%w: already booked %s", ErrNotReservable, r.Cell)
	}
	if !res.Reservable || !res.Available.Teaches(r.CourseID, r.ProfessorID) {
		return model.Booking{}, fmt.Errorf("%w: %s %s/%s", ErrNotReservable, r.Cell, r.CourseID, r.ProfessorID)
	}

	s.setLoading()
	created, err := s.backend.CreateBooking(ctx, api.NewBooking{
		CourseID:    r.CourseID,
		ProfessorID: r.ProfessorID,
		Date:        r.Cell.Date,
		Hour:        r.Cell.Hour,
		Note:        r.Note,
	})
	if err != nil {
		return model.Booking{}, s.fail(ctx, "reserve", err)
	}
	metrics.IncBookingCreated()
	s.log(ctx).Info().
		Str("booking_id", created.ID).
		Str("course_id", r.CourseID).
		Str("professor_id", r.ProfessorID).
		Stringer("cell", r.Cell).
		Msg("booking created")
	s.publish(ctx, events.BookingCreated, created)

	return created, s.refresh(ctx, created)
}

// MarkDone records that a past lesson took place.
func (s *Store) MarkDone(ctx context.Context, bookingID, note string) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	b, err := s.actionable(bookingID, model.Booking.NeedsOutcome)
	if err != nil {
		return err
	}
	return s.updateStatus(ctx, b, model.StatusDone, note)
}

// ReportIssue records that a past lesson did not take place.
func (s *Store) ReportIssue(ctx context.Context, bookingID string, reason model.IssueReason, details string) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	if !reason.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}
	b, err := s.actionable(bookingID, model.Booking.NeedsOutcome)
	if err != nil {
		return err
	}
	return s.updateStatus(ctx, b, model.StatusDeleted, model.IssueNote(reason, details))
}

// Cancel withdraws an upcoming lesson.
func (s *Store) Cancel(ctx context.Context, bookingID string) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	b, err := s.actionable(bookingID, model.Booking.Cancellable)
	if err != nil {
		return err
	}

	s.setLoading()
	if err := s.backend.DeleteBooking(ctx, b.ID); err != nil {
		return s.fail(ctx, "cancel", err)
	}
	metrics.IncBookingCancelled()
	s.log(ctx).Info().Str("booking_id", b.ID).Msg("booking cancelled")
	s.publish(ctx, events.BookingCancelled, b)
	return s.refresh(ctx, b)
}

func (s *Store) updateStatus(ctx context.Context, b model.Booking, status model.Status, note string) error {
	s.setLoading()
	if err := s.backend.UpdateBookingStatus(ctx, b.ID, status, note); err != nil {
		return s.fail(ctx, "update status", err)
	}
	metrics.IncStatusUpdated(string(status))
	s.log(ctx).Info().Str("booking_id", b.ID).Str("status", string(status)).Msg("booking updated")

	b.Status = status
	b.Note = note
	s.publish(ctx, events.BookingUpdated, b)
	return s.refresh(ctx, b)
}

// actionable finds one of the user's bookings and checks it against allowed.
func (s *Store) actionable(bookingID string, allowed func(model.Booking, time.Time) bool) (model.Booking, error) {
	if !s.session.IsLoggedIn() {
		return model.Booking{}, ErrNotLoggedIn
	}
	for _, b := range s.State().MyBookings {
		if b.ID != bookingID {
			continue
		}
		if !allowed(b, s.now()) {
			return model.Booking{}, fmt.Errorf("%w: %s is %s at %s", ErrNotActionable, b.ID, b.Status, b.Cell())
		}
		return b, nil
	}
	return model.Booking{}, fmt.Errorf("%w: %s", ErrUnknownBooking, bookingID)
}

// refresh reloads both booking lists after a mutation and records the touched booking.
func (s *Store) refresh(ctx context.Context, touched model.Booking) error {
	userID := s.session.UserID()
	from, to := s.window()

	all, err := s.backend.CourseBookings(ctx, s.State().Selection.CourseIDs(), from, to)
	if err != nil {
		return s.fail(ctx, "refresh", fmt.Errorf("refresh bookings: %w", err))
	}
	mine, err := s.backend.UserBookings(ctx, userID, from, to)
	if err != nil {
		return s.fail(ctx, "refresh", fmt.Errorf("refresh my bookings: %w", err))
	}

	now := s.now()
	s.commit(ctx, func(st *State) {
		st.AllBookings = schedule.SortChronological(all)
		st.MyBookings = schedule.SortChronological(mine)
		st.Home = schedule.SelectPreviousAndNext(mine, now)
		st.LastUpdated = &touched
	})
	return nil
}

// mergeBookings concatenates lists, skipping ids already seen.
func mergeBookings(lists ...[]model.Booking) []model.Booking {
	seen := make(map[string]bool)
	var out []model.Booking
	for _, list := range lists {
		for _, b := range list {
			if b.ID != "" {
				if seen[b.ID] {
					continue
				}
				seen[b.ID] = true
			}
			out = append(out, b)
		}
	}
	return out
}

// Package planner keeps the client state of the booking app. Every action
// fetches what it needs, builds a new State snapshot and publishes it.
package planner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"project30/internal/api"
	"project30/internal/events"
	"project30/internal/model"
	"project30/internal/schedule"
	"project30/internal/session"
	"project30/internal/slots"
)

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrNotReservable  = errors.New("slot is not reservable")
	ErrNotActionable  = errors.New("booking does not allow this action now")
	ErrUnknownBooking = errors.New("booking not found among the user's bookings")
	ErrInvalidReason  = errors.New("unknown issue reason")
)

// Backend is the remote side the store reads from and writes to.
type Backend interface {
	Login(ctx context.Context, account, password string) (model.User, error)
	Logout(ctx context.Context) error
	Courses(ctx context.Context) ([]model.Course, error)
	Roster(ctx context.Context, courseIDs []string) (model.Roster, error)
	UserBookings(ctx context.Context, userID string, from, to model.Date) ([]model.Booking, error)
	CourseBookings(ctx context.Context, courseIDs []string, from, to model.Date) ([]model.Booking, error)
	CreateBooking(ctx context.Context, nb api.NewBooking) (model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.Status, note string) error
	DeleteBooking(ctx context.Context, id string) error
}

// State is an immutable snapshot. Callers get their own copy.
type State struct {
	User     model.User
	LoggedIn bool

	Courses []model.Course
	// Roster is every course with every professor teaching it.
	Roster model.Roster
	// Selection is the subset of Roster the user filters the board on.
	Selection model.Roster

	MyBookings  []model.Booking
	AllBookings []model.Booking
	Home        schedule.Summary
	LastUpdated *model.Booking

	Loading bool
	Err     error
	Version int64
}

func (s State) clone() State {
	out := s
	out.Courses = append([]model.Course(nil), s.Courses...)
	out.Roster = s.Roster.Clone()
	out.Selection = s.Selection.Clone()
	out.MyBookings = append([]model.Booking(nil), s.MyBookings...)
	out.AllBookings = append([]model.Booking(nil), s.AllBookings...)
	out.Home = schedule.Summary{Previous: copyBooking(s.Home.Previous), Next: copyBooking(s.Home.Next)}
	out.LastUpdated = copyBooking(s.LastUpdated)
	return out
}

func copyBooking(b *model.Booking) *model.Booking {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithHours sets the bookable hours of a day.
func WithHours(hours []int) Option {
	return func(s *Store) {
		if len(hours) > 0 {
			s.hours = append([]int(nil), hours...)
		}
	}
}

type Store struct {
	backend Backend
	session *session.Holder
	bus     *events.EventBus
	logger  zerolog.Logger
	now     func() time.Time
	hours   []int

	// serializes actions so snapshots are built from the latest state
	actionMu sync.Mutex

	mu      sync.RWMutex
	state   State
	horizon model.Date
}

func NewStore(backend Backend, holder *session.Holder, bus *events.EventBus, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		session: holder,
		bus:     bus,
		logger:  logger.With().Str("component", "planner").Logger(),
		now:     time.Now,
		hours:   slots.DefaultHours,
	}
	for _, opt := range opts {
		opt(s)
	}
	if u, ok := holder.Current(); ok {
		s.state.User = u
		s.state.LoggedIn = true
	}
	return s
}

// State returns a copy of the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// window is the range bookings are fetched for: Jan 1 of the current year
// through Dec 31, or through the horizon set by ExtendWindow when later.
func (s *Store) window() (model.Date, model.Date) {
	y := s.now().Year()
	from, to := model.NewDate(y, time.January, 1), model.NewDate(y, time.December, 31)
	s.mu.RLock()
	if s.horizon.After(to) {
		to = s.horizon
	}
	s.mu.RUnlock()
	return from, to
}

func (s *Store) currentHours() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.hours...)
}

// SetHours replaces the bookable hours used by Board. An empty list is ignored.
func (s *Store) SetHours(hours []int) {
	if len(hours) == 0 {
		return
	}
	s.mu.Lock()
	s.hours = append([]int(nil), hours...)
	s.mu.Unlock()
}


func (s *Store) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		ll := l.With().Str("component", "planner").Logger()
		return &ll
	}
	return &s.logger
}

// setLoading marks the snapshot busy without bumping the version.
func (s *Store) setLoading() {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()
}

func (s *Store) clearLoading() {
	s.mu.Lock()
	s.state.Loading = false
	s.mu.Unlock()
}

// commit applies update to a copy of the current state and publishes it.
func (s *Store) commit(ctx context.Context, update func(*State)) State {
	s.mu.Lock()
	next := s.state.clone()
	update(&next)
	next.Loading = false
	next.Err = nil
	next.Version = s.state.Version + 1
	s.state = next
	snapshot := next.clone()
	s.mu.Unlock()

	s.publish(ctx, events.StateChanged, struct {
		Version  int64 `json:"version"`
		LoggedIn bool  `json:"logged_in"`
	}{snapshot.Version, snapshot.LoggedIn})
	return snapshot
}

// fail keeps the previous snapshot and records err.
func (s *Store) fail(ctx context.Context, action string, err error) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Err = err
	s.mu.Unlock()

	s.log(ctx).Error().Err(err).Str("action", action).Msg("action failed")
	return err
}

func (s *Store) publish(ctx context.Context, eventType string, payload any) {
	if s.bus == nil {
		return
	}
	e, err := events.New(eventType, payload)
	if err != nil {
		s.log(ctx).Warn().Err(err).Str("event", eventType).Msg("encode event")
		return
	}
	if err := s.bus.Publish(e); err != nil {
		s.log(ctx).Warn().Err(err).Str("event", eventType).Msg("event handler failed")
	}
}

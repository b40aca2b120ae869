package planner

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"project30/internal/api"
	"project30/internal/availability"
	"project30/internal/events"
	"project30/internal/model"
	"project30/internal/session"
	"project30/internal/slots"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Login(ctx context.Context, account, password string) (model.User, error) {
	args := m.Called(ctx, account, password)
	return args.Get(0).(model.User), args.Error(1)
}
func (m *mockBackend) Logout(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockBackend) Courses(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Course), args.Error(1)
}
func (m *mockBackend) Roster(ctx context.Context, ids []string) (model.Roster, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(model.Roster), args.Error(1)
}
func (m *mockBackend) UserBookings(ctx context.Context, userID string, from, to model.Date) ([]model.Booking, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).([]model.Booking), args.Error(1)
}
func (m *mockBackend) CourseBookings(ctx context.Context, ids []string, from, to model.Date) ([]model.Booking, error) {
	args := m.Called(ctx, ids, from, to)
	return args.Get(0).([]model.Booking), args.Error(1)
}
func (m *mockBackend) CreateBooking(ctx context.Context, nb api.NewBooking) (model.Booking, error) {
	args := m.Called(ctx, nb)
	return args.Get(0).(model.Booking), args.Error(1)
}
func (m *mockBackend) UpdateBookingStatus(ctx context.Context, id string, status model.Status, note string) error {
	return m.Called(ctx, id, status, note).Error(0)
}
func (m *mockBackend) DeleteBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var (
	// friday
	now       = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	yearStart = model.NewDate(2024, time.January, 1)
	yearEnd   = model.NewDate(2024, time.December, 31)

	p1 = model.Professor{ID: "P1", Name: "Mario", Surname: "Rossi"}
	p2 = model.Professor{ID: "P2", Name: "Anna", Surname: "Bianchi"}

	roster = model.Roster{
		"A": {p1, p2},
		"B": {p2},
	}
	user = model.User{ID: "u1", Email: "u1@example.com"}
)

func book(id, user, course, prof string, day model.Date, hour int, status model.Status) model.Booking {
	return model.Booking{ID: id, UserID: user, CourseID: course, ProfessorID: prof, Date: day, Hour: hour, Status: status}
}

type fixture struct {
	backend *mockBackend
	holder  *session.Holder
	bus     *events.EventBus
	store   *Store
	seen    []events.Event
}

func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()
	f := &fixture{
		backend: new(mockBackend),
		holder:  session.NewHolder(),
		bus:     events.NewEventBus(),
	}
	if loggedIn {
		f.holder.Set(user)
	}
	f.bus.Subscribe(events.All, func(e events.Event) error {
		f.seen = append(f.seen, e)
		return nil
	})
	f.store = NewStore(f.backend, f.holder, f.bus, zerolog.New(io.Discard), WithClock(func() time.Time { return now }))
	return f
}

func (f *fixture) types() []string {
	out := make([]string, len(f.seen))
	for i, e := range f.seen {
		out[i] = e.Type
	}
	return out
}

// seed loads catalog and bookings through the backend.
func (f *fixture) seed(t *testing.T, all, mine []model.Booking) {
	t.Helper()
	ctx := context.Background()
	f.backend.On("Courses", mock.Anything).Return([]model.Course{{ID: "A"}, {ID: "B"}}, nil).Once()
	f.backend.On("Roster", mock.Anything, []string{"A", "B"}).Return(roster, nil).Once()
	require.NoError(t, f.store.LoadCatalog(ctx))

	f.backend.On("CourseBookings", mock.Anything, []string{"A", "B"}, yearStart, yearEnd).Return(all, nil).Once()
	require.NoError(t, f.store.LoadAllBookings(ctx))

	if f.holder.IsLoggedIn() {
		f.backend.On("UserBookings", mock.Anything, user.ID, yearStart, yearEnd).Return(mine, nil).Once()
		require.NoError(t, f.store.LoadMyBookings(ctx))
	}
	f.seen = nil
}

func TestStore_LoginLogout(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.backend.On("Login", mock.Anything, "u1@example.com", "bad").Return(model.User{}, api.ErrUserNotFound).Once()
	err := f.store.Login(ctx, "u1@example.com", "bad")
	assert.ErrorIs(t, err, api.ErrUserNotFound)
	st := f.store.State()
	assert.False(t, st.LoggedIn)
	assert.ErrorIs(t, st.Err, api.ErrUserNotFound)
	assert.Equal(t, int64(0), st.Version)

	f.backend.On("Login", mock.Anything, "u1@example.com", "secret").Return(user, nil).Once()
	require.NoError(t, f.store.Login(ctx, "u1@example.com", "secret"))
	st = f.store.State()
	assert.True(t, st.LoggedIn)
	assert.Equal(t, user, st.User)
	assert.Nil(t, st.Err)
	assert.Equal(t, "u1", f.holder.UserID())

	f.backend.On("Logout", mock.Anything).Return(errors.New("offline")).Once()
	assert.Error(t, f.store.Logout(ctx))
	assert.True(t, f.holder.IsLoggedIn(), "failed logout keeps the session")

	f.backend.On("Logout", mock.Anything).Return(nil).Once()
	require.NoError(t, f.store.Logout(ctx))
	assert.False(t, f.holder.IsLoggedIn())
	assert.False(t, f.store.State().LoggedIn)
	assert.Equal(t, []string{events.StateChanged, events.StateChanged}, f.types())

	f.backend.AssertExpectations(t)
}

func TestStore_LoadCatalogAndSelection(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, nil, nil)
	ctx := context.Background()

	st := f.store.State()
	assert.Equal(t, roster, st.Roster)
	assert.Equal(t, roster, st.Selection, "selection defaults to everything")

	sel := model.Roster{"B": {p2}}
	f.backend.On("CourseBookings", mock.Anything, []string{"B"}, yearStart, yearEnd).Return([]model.Booking{}, nil).Once()
	require.NoError(t, f.store.UpdateSelection(ctx, sel))
	assert.Equal(t, sel, f.store.State().Selection)

	// state handed out is a copy
	got := f.store.State()
	got.Selection["A"] = []model.Professor{p1}
	assert.NotContains(t, f.store.State().Selection, "A")

	f.backend.AssertExpectations(t)
}

func TestStore_LoadFailureKeepsSnapshot(t *testing.T) {
	f := newFixture(t, true)
	old := []model.Booking{book("r1", "u1", "A", "P1", model.NewDate(2024, time.March, 4), 14, model.StatusPending)}
	f.seed(t, old, old)
	version := f.store.State().Version

	f.backend.On("UserBookings", mock.Anything, "u1", yearStart, yearEnd).Return([]model.Booking(nil), errors.New("timeout")).Once()
	err := f.store.LoadMyBookings(context.Background())
	require.Error(t, err)

	st := f.store.State()
	assert.Equal(t, old, st.MyBookings)
	assert.Equal(t, version, st.Version)
	assert.EqualError(t, st.Err, "timeout")
	assert.False(t, st.Loading)
	assert.Empty(t, f.seen)
}

func TestStore_LoadHome(t *testing.T) {
	f := newFixture(t, true)
	mine := []model.Booking{
		book("jun", "u1", "A", "P1", model.NewDate(2024, time.June, 1), 14, model.StatusPending),
		book("jan10", "u1", "A", "P1", model.NewDate(2024, time.January, 10), 14, model.StatusDone),
		book("jan05", "u1", "A", "P1", model.NewDate(2024, time.January, 5), 14, model.StatusDone),
	}
	f.backend.On("UserBookings", mock.Anything, "u1", yearStart, yearEnd).Return(mine, nil).Once()

	require.NoError(t, f.store.LoadHome(context.Background()))

	st := f.store.State()
	require.NotNil(t, st.Home.Next)
	assert.Equal(t, "jun", st.Home.Next.ID)
	require.NotNil(t, st.Home.Previous)
	assert.Equal(t, "jan05", st.Home.Previous.ID)
	assert.Equal(t, []string{"jan05", "jan10", "jun"}, ids(st.MyBookings))
}

func TestStore_NotLoggedIn(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	assert.ErrorIs(t, f.store.LoadHome(ctx), ErrNotLoggedIn)
	_, err := f.store.Reserve(ctx, Reservation{CourseID: "A", ProfessorID: "P1"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.ErrorIs(t, f.store.Cancel(ctx, "r1"), ErrNotLoggedIn)
	assert.ErrorIs(t, f.store.MarkDone(ctx, "r1", ""), ErrNotLoggedIn)
	f.backend.AssertNotCalled(t, "UserBookings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_Reserve(t *testing.T) {
	monday := model.NewDate(2024, time.March, 4)
	taken := book("r1", "u9", "A", "P1", monday, 14, model.StatusPending)

	t.Run("success refreshes both lists", func(t *testing.T) {
		f := newFixture(t, true)
		f.seed(t, []model.Booking{taken}, nil)

		nb := api.NewBooking{CourseID: "A", ProfessorID: "P2", Date: monday, Hour: 14, Note: "capitolo 3"}
		created := book("r2", "u1", "A", "P2", monday, 14, model.StatusPending)
		f.backend.On("CourseBookings", mock.Anything, []string{"A"}, monday, monday).
			Return([]model.Booking{taken}, nil).Once()
		f.backend.On("CreateBooking", mock.Anything, nb).Return(created, nil).Once()
		f.backend.On("CourseBookings", mock.Anything, []string{"A", "B"}, yearStart, yearEnd).
			Return([]model.Booking{taken, created}, nil).Once()
		f.backend.On("UserBookings", mock.Anything, "u1", yearStart, yearEnd).
			Return([]model.Booking{created}, nil).Once()

		got, err := f.store.Reserve(context.Background(), Reservation{
			CourseID: "A", ProfessorID: "P2", Cell: model.Cell{Date: monday, Hour: 14}, Note: "capitolo 3",
		})
		require.NoError(t, err)
		assert.Equal(t, created, got)

		st := f.store.State()
		assert.Len(t, st.AllBookings, 2)
		assert.Equal(t, []model.Booking{created}, st.MyBookings)
		require.NotNil(t, st.LastUpdated)
		assert.Equal(t, "r2", st.LastUpdated.ID)
		require.NotNil(t, st.Home.Next)
		assert.Equal(t, "r2", st.Home.Next.ID)
		assert.Equal(t, []string{events.BookingCreated, events.StateChanged}, f.types())

		var payload model.Booking
		require.NoError(t, f.seen[0].Decode(&payload))
		assert.Equal(t, "r2", payload.ID)
		f.backend.AssertExpectations(t)
	})

	rejected := []struct {
		name string
		r    Reservation
		mine []model.Booking
	}{
		{"professor taken", Reservation{CourseID: "A", ProfessorID: "P1", Cell: model.Cell{Date: monday, Hour: 14}}, nil},
		{"professor not teaching course", Reservation{CourseID: "B", ProfessorID: "P1", Cell: model.Cell{Date: monday, Hour: 15}}, nil},
		{"cell in the past", Reservation{CourseID: "A", ProfessorID: "P2", Cell: model.Cell{Date: model.NewDate(2024, time.March, 1), Hour: 11}}, nil},
		{
			"user already booked the cell",
			Reservation{CourseID: "B", ProfessorID: "P2", Cell: model.Cell{Date: monday, Hour: 16}},
			[]model.Booking{book("mine", "u1", "A", "P1", monday, 16, model.StatusPending)},
		},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.seed(t, []model.Booking{taken}, tt.mine)
			f.backend.On("CourseBookings", mock.Anything, []string{tt.r.CourseID}, tt.r.Cell.Date, tt.r.Cell.Date).
				Return(ofCourse([]model.Booking{taken}, tt.r.CourseID), nil).Once()

			_, err := f.store.Reserve(context.Background(), tt.r)
			assert.ErrorIs(t, err, ErrNotReservable)
			f.backend.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestStore_ReserveChecksCourseOutsideSelection(t *testing.T) {
	monday := model.NewDate(2024, time.March, 4)
	taken := book("r1", "u9", "A", "P1", monday, 14, model.StatusPending)
	ctx := context.Background()

	f := newFixture(t, true)
	f.seed(t, []model.Booking{taken}, nil)

	f.backend.On("CourseBookings", mock.Anything, []string{"B"}, yearStart, yearEnd).
		Return([]model.Booking(nil), nil).Once()
	require.NoError(t, f.store.UpdateSelection(ctx, model.Roster{"B": {p2}}))
	require.Empty(t, f.store.State().AllBookings)

	f.backend.On("CourseBookings", mock.Anything, []string{"A"}, monday, monday).
		Return([]model.Booking{taken}, nil).Once()

	_, err := f.store.Reserve(ctx, Reservation{CourseID: "A", ProfessorID: "P1", Cell: model.Cell{Date: monday, Hour: 14}})
	assert.ErrorIs(t, err, ErrNotReservable)
	f.backend.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestStore_ReserveCheckFailure(t *testing.T) {
	monday := model.NewDate(2024, time.March, 4)
	f := newFixture(t, true)
	f.seed(t, nil, nil)

	f.backend.On("CourseBookings", mock.Anything, []string{"A"}, monday, monday).
		Return([]model.Booking(nil), errors.New("503")).Once()

	_, err := f.store.Reserve(context.Background(), Reservation{CourseID: "A", ProfessorID: "P1", Cell: model.Cell{Date: monday, Hour: 14}})
	require.Error(t, err)
	assert.Error(t, f.store.State().Err)
	f.backend.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestStore_ExtendWindow(t *testing.T) {
	ctx := context.Background()
	newYear := model.NewDate(2025, time.January, 8)
	taken := book("r9", "u9", "A", "P1", newYear, 14, model.StatusPending)

	f := newFixture(t, true)
	f.seed(t, nil, nil)

	days := f.store.Board(slots.ModeBrowse, model.NewDate(2024, time.December, 30), newYear)
	require.Len(t, days, 2, "clamped to Dec 31")
	assert.Equal(t, yearEnd, days[1].Date)

	require.NoError(t, f.store.ExtendWindow(ctx, yearEnd))
	f.backend.AssertNotCalled(t, "UserBookings", mock.Anything, mock.Anything, mock.Anything, newYear)

	f.backend.On("CourseBookings", mock.Anything, []string{"A", "B"}, yearStart, newYear).
		Return([]model.Booking{taken}, nil).Once()
	f.backend.On("UserBookings", mock.Anything, "u1", yearStart, newYear).
		Return([]model.Booking(nil), nil).Once()
	require.NoError(t, f.store.ExtendWindow(ctx, newYear))

	from, to := f.store.window()
	assert.Equal(t, yearStart, from)
	assert.Equal(t, newYear, to)

	days = f.store.Board(slots.ModeBrowse, model.NewDate(2024, time.December, 30), newYear)
	require.NotEmpty(t, days)
	last := days[len(days)-1]
	assert.Equal(t, newYear, last.Date)
	assert.Equal(t, []model.Professor{p2}, last.Cells[0].Result.Available["A"])
	f.backend.AssertExpectations(t)
}

func TestStore_Outcomes(t *testing.T) {
	past := book("past", "u1", "A", "P1", model.NewDate(2024, time.February, 27), 15, model.StatusPending)
	future := book("future", "u1", "A", "P1", model.NewDate(2024, time.March, 5), 15, model.StatusPending)
	done := book("done", "u1", "B", "P2", model.NewDate(2024, time.February, 20), 14, model.StatusDone)
	mine := []model.Booking{past, future, done}

	expectRefresh := func(f *fixture) {
		f.backend.On("CourseBookings", mock.Anything, []string{"A", "B"}, yearStart, yearEnd).Return(mine, nil).Once()
		f.backend.On("UserBookings", mock.Anything, "u1", yearStart, yearEnd).Return(mine, nil).Once()
	}

	t.Run("mark done", func(t *testing.T) {
		f := newFixture(t, true)
		f.seed(t, mine, mine)
		f.backend.On("UpdateBookingStatus", mock.Anything, "past", model.StatusDone, "ottima lezione").Return(nil).Once()
		expectRefresh(f)

		require.NoError(t, f.store.MarkDone(context.Background(), "past", "ottima lezione"))
		assert.Equal(t, []string{events.BookingUpdated, events.StateChanged}, f.types())
		assert.Equal(t, "past", f.store.State().LastUpdated.ID)
		f.backend.AssertExpectations(t)
	})

	t.Run("report issue", func(t *testing.T) {
		f := newFixture(t, true)
		f.seed(t, mine, mine)
		f.backend.On("UpdateBookingStatus", mock.Anything, "past", model.StatusDeleted, "Altro:\nsciopero").Return(nil).Once()
		expectRefresh(f)

		require.NoError(t, f.store.ReportIssue(context.Background(), "past", model.IssueOther, "sciopero"))
		f.backend.AssertExpectations(t)
	})

	t.Run("cancel", func(t *testing.T) {
		f := newFixture(t, true)
		f.seed(t, mine, mine)
		f.backend.On("DeleteBooking", mock.Anything, "future").Return(nil).Once()
		expectRefresh(f)

		require.NoError(t, f.store.Cancel(context.Background(), "future"))
		assert.Equal(t, []string{events.BookingCancelled, events.StateChanged}, f.types())
		f.backend.AssertExpectations(t)
	})

	t.Run("gating", func(t *testing.T) {
		f := newFixture(t, true)
		f.seed(t, mine, mine)
		ctx := context.Background()

		assert.ErrorIs(t, f.store.MarkDone(ctx, "future", ""), ErrNotActionable)
		assert.ErrorIs(t, f.store.MarkDone(ctx, "done", ""), ErrNotActionable)
		assert.ErrorIs(t, f.store.Cancel(ctx, "past"), ErrNotActionable)
		assert.ErrorIs(t, f.store.ReportIssue(ctx, "future", model.IssueProfessorAbsent, ""), ErrNotActionable)
		assert.ErrorIs(t, f.store.ReportIssue(ctx, "past", model.IssueReason("meteo"), ""), ErrInvalidReason)
		assert.ErrorIs(t, f.store.Cancel(ctx, "nope"), ErrUnknownBooking)
		f.backend.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.backend.AssertNotCalled(t, "DeleteBooking", mock.Anything, mock.Anything)
	})

	t.Run("refresh failure after mutation", func(t *testing.T) {
		f := newFixture(t, true)
		f.seed(t, mine, mine)
		f.backend.On("DeleteBooking", mock.Anything, "future").Return(nil).Once()
		f.backend.On("CourseBookings", mock.Anything, []string{"A", "B"}, yearStart, yearEnd).
			Return([]model.Booking(nil), errors.New("502")).Once()

		err := f.store.Cancel(context.Background(), "future")
		require.Error(t, err)
		st := f.store.State()
		assert.ElementsMatch(t, mine, st.AllBookings, "previous snapshot is kept")
		assert.Error(t, st.Err)
	})
}

func TestStore_Board(t *testing.T) {
	monday := model.NewDate(2024, time.March, 4)
	tuesday := monday.AddDays(1)
	other := book("r1", "u9", "A", "P1", monday, 14, model.StatusPending)
	own := book("r2", "u1", "B", "P2", monday, 15, model.StatusPending)

	f := newFixture(t, true)
	f.seed(t, []model.Booking{other, own}, []model.Booking{own})

	days := f.store.Board(slots.ModeBrowse, model.NewDate(2024, time.March, 1), tuesday)
	require.Len(t, days, 3, "weekend skipped")
	assert.Equal(t, model.NewDate(2024, time.March, 1), days[0].Date)
	assert.Equal(t, monday, days[1].Date)

	fri := days[0].Cells
	require.Len(t, fri, 4)
	assert.True(t, fri[0].Result.Reservable, "14:00 friday is after noon")

	mon := days[1].Cells
	assert.Equal(t, availability.KindAvailable, mon[0].Result.Kind)
	assert.Equal(t, []model.Professor{p2}, mon[0].Result.Available["A"])
	assert.Equal(t, availability.KindOwnBooking, mon[1].Result.Kind)
	assert.Equal(t, "r2", mon[1].Result.Own.ID)

	mine := f.store.Board(slots.ModeMine, model.NewDate(2024, time.March, 1), tuesday)
	require.Len(t, mine, 1)
	assert.Equal(t, monday, mine[0].Date)
	assert.True(t, mine[0].Selectable)

	groups := f.store.MyDays()
	require.Len(t, groups, 1)
	assert.Equal(t, monday, groups[0].Date)

	assert.Len(t, f.store.BookingsOn(monday), 2)
}

func TestStore_Cell(t *testing.T) {
	monday := model.NewDate(2024, time.March, 4)
	other := book("r1", "u9", "A", "P1", monday, 14, model.StatusPending)
	cancelled := book("r3", "u9", "B", "P2", monday, 14, model.StatusDeleted)
	own := book("r2", "u1", "B", "P2", monday, 15, model.StatusPending)

	f := newFixture(t, true)
	f.seed(t, []model.Booking{other, cancelled, own}, []model.Booking{own})

	free := f.store.Cell(model.Cell{Date: monday, Hour: 14})
	assert.Equal(t, availability.KindAvailable, free.Kind)
	assert.True(t, free.Reservable)
	assert.Equal(t, []model.Professor{p2}, free.Available["A"])
	assert.Equal(t, []model.Professor{p2}, free.Available["B"], "deleted booking frees the professor")

	booked := f.store.Cell(model.Cell{Date: monday, Hour: 15})
	assert.Equal(t, availability.KindOwnBooking, booked.Kind)
	assert.Equal(t, "r2", booked.Own.ID)

	past := f.store.Cell(model.Cell{Date: model.NewDate(2024, time.March, 1), Hour: 9})
	assert.False(t, past.Reservable)
}

func TestStore_SetHours(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, nil, nil)
	monday := model.NewDate(2024, time.March, 4)

	assert.Equal(t, slots.DefaultHours, f.store.currentHours())
	f.store.SetHours(nil)
	assert.Equal(t, slots.DefaultHours, f.store.currentHours())

	f.store.SetHours([]int{9, 10})
	days := f.store.Board(slots.ModeBrowse, monday, monday)
	require.Len(t, days, 1)
	require.Len(t, days[0].Cells, 2)
	assert.Equal(t, 9, days[0].Cells[0].Hour)
}

func TestStore_Calendar(t *testing.T) {
	monday := model.NewDate(2024, time.March, 4)
	own := book("r2", "u1", "B", "P2", monday, 15, model.StatusPending)
	also := book("r3", "u1", "A", "P1", monday, 16, model.StatusPending)

	f := newFixture(t, true)
	f.seed(t, nil, []model.Booking{own, also})

	// March 2024 starts on a Friday.
	weeks := f.store.Calendar(slots.ModeMine, 2024, time.March)
	require.Len(t, weeks, 5)
	assert.True(t, weeks[0][0].Date.IsZero())
	assert.Equal(t, model.NewDate(2024, time.March, 1), weeks[0][4].Date)
	assert.False(t, weeks[0][4].Selectable)

	mon := weeks[1][0]
	assert.Equal(t, monday, mon.Date)
	assert.True(t, mon.Selectable)
	assert.Equal(t, 2, mon.Mine)

	browse := f.store.Calendar(slots.ModeBrowse, 2024, time.March)
	assert.True(t, browse[0][4].Selectable, "friday")
	assert.False(t, browse[0][5].Selectable, "saturday")
}

func ofCourse(bookings []model.Booking, courseID string) []model.Booking {
	var out []model.Booking
	for _, b := range bookings {
		if b.CourseID == courseID {
			out = append(out, b)
		}
	}
	return out
}

func ids(bookings []model.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

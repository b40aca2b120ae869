package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"project30/internal/availability"
	"project30/internal/export"
	"project30/internal/model"
	"project30/internal/planner"
	"project30/internal/schedule"
	"project30/internal/slots"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"profile":  runProfile,
	"courses":  runCourses,
	"grid":     runGrid,
	"calendar": runCalendar,
	"cell":     runCell,
	"home":     runHome,
	"mine":     runMine,
	"reserve":  runReserve,
	"done":     runDone,
	"report":   runReport,
	"cancel":   runCancel,
	"export":   runExport,
	"watch":    runWatch,
}

func today() model.Date { return model.DateOf(time.Now()) }

// dateFlag parses a YYYY-MM-DD flag value, leaving the zero date when unset.
type dateFlag struct{ model.Date }

func (f *dateFlag) String() string {
	if f.IsZero() {
		return ""
	}
	return f.Date.String()
}

func (f *dateFlag) Set(s string) error {
	d, err := model.ParseDate(s)
	if err != nil {
		return err
	}
	f.Date = d
	return nil
}

// filter narrows the board selection.
type filter struct {
	courses   string
	professor string
	exclude   string
}

func (f *filter) register(fs *flag.FlagSet) {
	fs.StringVar(&f.courses, "courses", "", "comma separated course ids to filter on")
	fs.StringVar(&f.professor, "professor", "", "only this professor")
	fs.StringVar(&f.exclude, "exclude-professor", "", "hide this professor")
}

func (f filter) empty() bool {
	return f.courses == "" && f.professor == "" && f.exclude == ""
}

// selection applies the filter to the full roster.
func (f filter) selection(full model.Roster) model.Roster {
	sel := full.Clone()
	if f.courses != "" {
		sel = model.Roster{}
		for _, id := range strings.Split(f.courses, ",") {
			sel = sel.SelectCourse(full, strings.TrimSpace(id))
		}
	}
	if f.professor != "" {
		only := model.Roster{}
		for _, course := range sel.CoursesOf(f.professor) {
			for _, p := range sel[course] {
				if p.ID == f.professor {
					only = only.SelectProfessor(course, p)
				}
			}
		}
		sel = only
	}
	if f.exclude != "" {
		for _, course := range sel.CoursesOf(f.exclude) {
			sel = sel.DeselectProfessor(course, model.Professor{ID: f.exclude})
		}
	}
	return sel
}

// loadBoard fetches the catalog, applies the filter and loads both booking lists.
func loadBoard(ctx context.Context, a *app, f filter) error {
	if err := a.store.LoadCatalog(ctx); err != nil {
		return err
	}
	if !f.empty() {
		if err := a.store.UpdateSelection(ctx, f.selection(a.store.State().Roster)); err != nil {
			return err
		}
	} else if err := a.store.LoadAllBookings(ctx); err != nil {
		return err
	}
	if a.store.State().LoggedIn {
		return a.store.LoadMyBookings(ctx)
	}
	return nil
}

func runProfile(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	_ = fs.Parse(args)

	st := a.store.State()
	if !st.LoggedIn {
		return planner.ErrNotLoggedIn
	}
	fmt.Fprintf(a.out, "id     %s\nemail  %s\n", st.User.ID, st.User.Email)
	return nil
}

func runCourses(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("courses", flag.ExitOnError)
	professors := fs.Bool("professors", false, "list professors instead of courses")
	refresh := fs.Bool("refresh", false, "drop cached reference data first")
	_ = fs.Parse(args)

	if *refresh {
		a.client.InvalidateCache(ctx)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)

	if *professors {
		list, err := a.client.Professors(ctx)
		if err != nil {
			return err
		}
		if err := a.store.LoadCatalog(ctx); err != nil {
			return err
		}
		roster := a.store.State().Roster
		for _, p := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.FullName(), strings.Join(roster.CoursesOf(p.ID), ", "))
		}
		return tw.Flush()
	}

	if err := a.store.LoadCatalog(ctx); err != nil {
		return err
	}
	st := a.store.State()
	for _, c := range st.Courses {
		names := make([]string, 0, len(st.Roster[c.ID]))
		for _, p := range st.Roster[c.ID] {
			names = append(names, fmt.Sprintf("%s (%s)", p.FullName(), p.ID))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Title, strings.Join(names, ", "))
	}
	return tw.Flush()
}

func runGrid(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("grid", flag.ExitOnError)
	mine := fs.Bool("mine", false, "only days holding one of your bookings")
	rows := fs.Int("rows", 0, "rows per page, 0 prints everything")
	var f filter
	f.register(fs)
	var from, to dateFlag
	fs.Var(&from, "from", "first day (YYYY-MM-DD)")
	fs.Var(&to, "to", "last day (YYYY-MM-DD)")
	_ = fs.Parse(args)

	if err := loadBoard(ctx, a, f); err != nil {
		return err
	}

	mode := slots.ModeBrowse
	start, end := from.Date, to.Date
	if *mine {
		mode = slots.ModeMine
		my := a.store.State().MyBookings
		if start.IsZero() {
			start = slots.InitialDay(my, today())
		}
		if end.IsZero() && len(my) > 0 {
			end = my[len(my)-1].Date
		}
	}
	if start.IsZero() {
		start = slots.BrowseStartDay(today())
	}
	if end.IsZero() {
		end = slots.BrowseEnd(today(), start)
		if lookahead := start.AddDays(a.cfg.Grid.LookaheadDays); lookahead.After(end) {
			end = lookahead
		}
	}
	if err := a.store.ExtendWindow(ctx, end); err != nil {
		return err
	}

	board := a.store.Board(mode, start, end)
	days := make([]model.Date, len(board))
	cells := make(map[model.Date]int, len(board))
	for i, day := range board {
		days[i] = day.Date
		cells[day.Date] = len(day.Cells)
	}
	layout := slots.NewLayout(days, func(d model.Date) int { return cells[d] })
	first, last, next, more := slots.NewScrollSync(layout, start).Page(start, *rows)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, day := range board {
		if idx, _ := layout.IndexOf(day.Date); idx < first || idx >= last {
			continue
		}
		fmt.Fprintf(tw, "%s %s\n", day.Date, day.Date.Weekday())
		for _, cell := range day.Cells {
			fmt.Fprintf(tw, "  %02d:00\t%s\n", cell.Hour, describe(cell.Result))
		}
	}
	if more {
		fmt.Fprintf(tw, "next page: -from %s\n", next)
	}
	return tw.Flush()
}

func runCalendar(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	mine := fs.Bool("mine", false, "mark only days holding one of your bookings")
	month := fs.String("month", "", "month to show (YYYY-MM), defaults to the current one")
	_ = fs.Parse(args)

	mode := slots.ModeBrowse
	if *mine {
		mode = slots.ModeMine
		if err := a.store.LoadMyBookings(ctx); err != nil {
			return err
		}
	}
	shown := today()
	if *month != "" {
		d, err := model.ParseDate(*month + "-01")
		if err != nil {
			return fmt.Errorf("month %q: %w", *month, err)
		}
		shown = d
	} else if *mine {
		shown = slots.InitialDay(a.store.State().MyBookings, today())
	}

	fmt.Fprintf(a.out, "%s %d\n Mo  Tu  We  Th  Fr  Sa  Su\n", shown.Month, shown.Year)
	for _, week := range a.store.Calendar(mode, shown.Year, shown.Month) {
		var line strings.Builder
		for _, day := range week {
			switch {
			case day.Date.IsZero():
				line.WriteString("    ")
			case day.Mine > 0:
				fmt.Fprintf(&line, "%3d*", day.Date.Day)
			case day.Selectable:
				fmt.Fprintf(&line, "%3d ", day.Date.Day)
			default:
				fmt.Fprintf(&line, "  - ")
			}
		}
		fmt.Fprintln(a.out, strings.TrimRight(line.String(), " "))
	}
	return nil
}

func runCell(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("cell", flag.ExitOnError)
	var day dateFlag
	fs.Var(&day, "date", "day of the slot (YYYY-MM-DD)")
	hour := fs.Int("hour", -1, "hour of the slot")
	var f filter
	f.register(fs)
	_ = fs.Parse(args)
	if day.IsZero() || *hour < 0 {
		return errors.New("cell needs -date and -hour")
	}

	if err := loadBoard(ctx, a, f); err != nil {
		return err
	}
	if err := a.store.ExtendWindow(ctx, day.Date); err != nil {
		return err
	}
	res := a.store.Cell(model.Cell{Date: day.Date, Hour: *hour})
	fmt.Fprintln(a.out, describe(res))
	for _, course := range res.Available.CourseIDs() {
		for _, p := range res.Available[course] {
			fmt.Fprintf(a.out, "  free   %s\t%s %s\n", course, p.ID, p.FullName())
		}
	}
	for _, b := range a.store.BookingsOn(day.Date) {
		if b.Hour != *hour || b.IsDeleted() {
			continue
		}
		fmt.Fprintf(a.out, "  taken  %s\t%s\n", b.CourseTitle(), b.ProfessorName())
	}
	return nil
}

func describe(res availability.Result) string {
	if res.Kind == availability.KindOwnBooking {
		b := res.Own
		return fmt.Sprintf("booked: %s with %s [%s] id=%s", b.CourseTitle(), b.ProfessorName(), b.Status, b.ID)
	}
	switch {
	case res.Reservable:
		return fmt.Sprintf("free: %d professor(s)", res.Available.FreeCount())
	case res.FullyBooked():
		return "full"
	default:
		return "closed"
	}
}

func runHome(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("home", flag.ExitOnError)
	_ = fs.Parse(args)

	if err := a.store.LoadHome(ctx); err != nil {
		return err
	}
	home := a.store.State().Home
	printLesson(a, "previous", home.Previous)
	printLesson(a, "next", home.Next)
	return nil
}

func printLesson(a *app, label string, b *model.Booking) {
	if b == nil {
		fmt.Fprintf(a.out, "%-8s  none\n", label)
		return
	}
	fmt.Fprintf(a.out, "%-8s  %s %02d:00  %s with %s [%s] id=%s\n",
		label, b.Date, b.Hour, b.CourseTitle(), b.ProfessorName(), b.Status, b.ID)
}

func runMine(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("mine", flag.ExitOnError)
	var from dateFlag
	fs.Var(&from, "from", "first day to show, defaults to the next lesson")
	rows := fs.Int("rows", 0, "rows per page, 0 prints everything")
	_ = fs.Parse(args)

	if err := a.store.LoadMyBookings(ctx); err != nil {
		return err
	}
	groups := a.store.MyDays()
	byDay := schedule.Index(groups)
	layout := slots.BookingLayout(schedule.Dates(groups), byDay)

	start := from.Date
	if start.IsZero() {
		start = slots.InitialDay(a.store.State().MyBookings, today())
	}
	first, last, next, more := slots.NewScrollSync(layout, start).Page(start, *rows)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, group := range groups {
		header, _ := layout.IndexOf(group.Date)
		if header < first || header >= last {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s %s\n", header, group.Date, group.Date.Weekday())
		for i, b := range group.Bookings {
			fmt.Fprintf(tw, "%d\t  %02d:00\t%s\t%s\t%s\t%s\n",
				header+1+i, b.Hour, b.CourseTitle(), b.ProfessorName(), b.Status, b.ID)
		}
	}
	if more {
		fmt.Fprintf(tw, "next page: -from %s\n", next)
	}
	return tw.Flush()
}

func runReserve(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("reserve", flag.ExitOnError)
	course := fs.String("course", "", "course id")
	professor := fs.String("professor", "", "professor id")
	var day dateFlag
	fs.Var(&day, "date", "day of the lesson (YYYY-MM-DD)")
	hour := fs.Int("hour", -1, "hour of the lesson")
	note := fs.String("note", "", "optional note")
	_ = fs.Parse(args)
	if *course == "" || *professor == "" || day.IsZero() || *hour < 0 {
		return errors.New("reserve needs -course, -professor, -date and -hour")
	}

	if err := loadBoard(ctx, a, filter{}); err != nil {
		return err
	}
	b, err := a.store.Reserve(ctx, planner.Reservation{
		CourseID:    *course,
		ProfessorID: *professor,
		Cell:        model.Cell{Date: day.Date, Hour: *hour},
		Note:        *note,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booked %s\n", b.ID)
	return nil
}

func runDone(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("done", flag.ExitOnError)
	id := fs.String("id", "", "booking id")
	note := fs.String("note", "", "optional note")
	_ = fs.Parse(args)
	if *id == "" {
		return errors.New("done needs -id")
	}

	if err := a.store.LoadMyBookings(ctx); err != nil {
		return err
	}
	return a.store.MarkDone(ctx, *id, *note)
}

func runReport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	id := fs.String("id", "", "booking id")
	reasons := make([]string, 0, len(model.IssueReasons()))
	for _, r := range model.IssueReasons() {
		reasons = append(reasons, string(r))
	}
	reason := fs.String("reason", "", "one of "+strings.Join(reasons, ", "))
	details := fs.String("details", "", "free text, used with reason other")
	_ = fs.Parse(args)
	if *id == "" || *reason == "" {
		return errors.New("report needs -id and -reason")
	}

	if err := a.store.LoadMyBookings(ctx); err != nil {
		return err
	}
	return a.store.ReportIssue(ctx, *id, model.IssueReason(*reason), *details)
}

func runCancel(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.String("id", "", "booking id")
	_ = fs.Parse(args)
	if *id == "" {
		return errors.New("cancel needs -id")
	}

	if err := a.store.LoadMyBookings(ctx); err != nil {
		return err
	}
	return a.store.Cancel(ctx, *id)
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	path := fs.String("out", a.cfg.Export.Path, "destination xlsx file")
	_ = fs.Parse(args)

	if err := a.store.LoadMyBookings(ctx); err != nil {
		return err
	}
	f, err := os.Create(*path)
	if err != nil {
		return fmt.Errorf("create %s: %w", *path, err)
	}
	if err := export.WriteBookings(f, a.store.State().MyBookings); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.logger.Info().Str("path", *path).Int("bookings", len(a.store.State().MyBookings)).Msg("bookings exported")
	return nil
}

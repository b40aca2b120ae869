package model

import (
	"strings"
	"time"
)

// Status is the lifecycle tag of a booking.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusDeleted Status = "deleted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDone, StatusDeleted:
		return true
	}
	return false
}

// Booking is a single one-hour lesson reservation.
// Field names on the wire follow the remote API.
type Booking struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"iduser,omitempty"`
	CourseID    string     `json:"idcourse"`
	ProfessorID string     `json:"idprofessor"`
	Course      *Course    `json:"course,omitempty"`
	Professor   *Professor `json:"professor,omitempty"`
	User        *User      `json:"user,omitempty"`
	Date        Date       `json:"date"`
	Hour        int        `json:"time"`
	Status      Status     `json:"status,omitempty"`
	Note        string     `json:"note,omitempty"`
}

func (b Booking) Cell() Cell {
	return Cell{Date: b.Date, Hour: b.Hour}
}

// IsBefore reports whether the booking lies strictly before now at hour granularity.
// A booking in the current hour is neither before nor after.
func (b Booking) IsBefore(now time.Time) bool {
	return b.Cell().Before(CellOf(now))
}

func (b Booking) IsAfter(now time.Time) bool {
	return b.Cell().After(CellOf(now))
}

func (b Booking) IsPersisted() bool { return b.ID != "" }

func (b Booking) IsDeleted() bool { return b.Status == StatusDeleted }

// OwnedBy is false for an empty user id, so anonymous callers never own anything.
func (b Booking) OwnedBy(userID string) bool {
	return userID != "" && b.UserID == userID
}

// NeedsOutcome is true for pending lessons that already took place.
func (b Booking) NeedsOutcome(now time.Time) bool {
	return b.Status == StatusPending && b.IsBefore(now)
}

func (b Booking) Cancellable(now time.Time) bool {
	return b.Status == StatusPending && b.IsAfter(now)
}

func (b Booking) CourseTitle() string {
	if b.Course != nil && b.Course.Title != "" {
		return b.Course.Title
	}
	return b.CourseID
}

func (b Booking) ProfessorName() string {
	if b.Professor != nil {
		if name := b.Professor.FullName(); name != "" {
			return name
		}
	}
	return b.ProfessorID
}

// IssueReason is the answer to "what went wrong" when a lesson did not happen.
type IssueReason string

const (
	IssueProfessorAbsent  IssueReason = "professor_absent"
	IssuePersonalConflict IssueReason = "personal_conflict"
	IssueLessonCancelled  IssueReason = "lesson_cancelled"
	IssueOther            IssueReason = "other"
)

var issueLabels = map[IssueReason]string{
	IssueProfessorAbsent:  "Il professore era assente",
	IssuePersonalConflict: "Ho avuto un contrattempo",
	IssueLessonCancelled:  "La lezione è stata annullata",
	IssueOther:            "Altro",
}

// IssueReasons lists the reasons in display order.
func IssueReasons() []IssueReason {
	return []IssueReason{IssueProfessorAbsent, IssuePersonalConflict, IssueLessonCancelled, IssueOther}
}

func (r IssueReason) Valid() bool {
	_, ok := issueLabels[r]
	return ok
}

func (r IssueReason) Label() string {
	return issueLabels[r]
}

// IssueNote builds the note stored on a booking reported as not held.
// Free text is only kept for IssueOther.
func IssueNote(reason IssueReason, details string) string {
	label := reason.Label()
	if reason != IssueOther {
		return label
	}
	details = strings.TrimSpace(details)
	if details == "" {
		return label
	}
	return label + ":\n" + details
}

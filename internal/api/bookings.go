package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"

	"project30/internal/model"
)

var validate = validator.New()

// NewBooking is what the client sends to reserve a lesson.
type NewBooking struct {
	CourseID    string
	ProfessorID string
	Date        model.Date
	Hour        int
	Note        string
}

type createBookingRequest struct {
	CourseID    string  `json:"idcourse" validate:"required"`
	ProfessorID string  `json:"idprofessor" validate:"required"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Hour        int     `json:"time" validate:"gte=0,lte=23"`
	Note        *string `json:"note"`
}

type updateBookingRequest struct {
	ID   string  `json:"id"`
	Note *string `json:"note"`
}

type bookingsResponse struct {
	Repetitions []model.Booking `json:"repetitions"`
}

// UserBookings lists the bookings of userID in [from, to].
func (c *Client) UserBookings(ctx context.Context, userID string, from, to model.Date) ([]model.Booking, error) {
	if userID == "" {
		return nil, nil
	}
	query := url.Values{
		"userID":    {userID},
		"startDate": {from.String()},
		"endDate":   {to.String()},
	}
	var resp bookingsResponse
	if err := c.doGet(ctx, "users/repetitions", query, &resp); err != nil {
		return nil, fmt.Errorf("user bookings: %w", err)
	}
	return resp.Repetitions, nil
}

// CourseBookings lists the bookings of any user for the given courses in [from, to].
func (c *Client) CourseBookings(ctx context.Context, courseIDs []string, from, to model.Date) ([]model.Booking, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	query := url.Values{
		"courseIDs": courseIDs,
		"startDate": {from.String()},
		"endDate":   {to.String()},
	}
	var resp bookingsResponse
	if err := c.doGet(ctx, "repetitions", query, &resp); err != nil {
		return nil, fmt.Errorf("course bookings: %w", err)
	}
	return resp.Repetitions, nil
}

// CreateBooking reserves a lesson for the logged in user.
func (c *Client) CreateBooking(ctx context.Context, nb NewBooking) (model.Booking, error) {
	req := createBookingRequest{
		CourseID:    nb.CourseID,
		ProfessorID: nb.ProfessorID,
		Hour:        nb.Hour,
		Note:        optional(nb.Note),
	}
	if !nb.Date.IsZero() {
		req.Date = nb.Date.String()
	}
	if err := validate.Struct(req); err != nil {
		return model.Booking{}, fmt.Errorf("invalid booking: %w", err)
	}

	var created model.Booking
	if err := c.doPost(ctx, "repetitions", req, &created); err != nil {
		return model.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return created, nil
}

// UpdateBookingStatus moves a booking to status, replacing its note.
func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status model.Status, note string) error {
	if id == "" {
		return fmt.Errorf("update booking: empty id")
	}
	if !status.Valid() {
		return fmt.Errorf("update booking: unknown status %q", status)
	}
	query := url.Values{"status": {string(status)}}
	body := updateBookingRequest{ID: id, Note: optional(note)}
	if err := c.doJSON(ctx, http.MethodPut, "repetitions", query, body, nil); err != nil {
		return fmt.Errorf("update booking %s: %w", id, err)
	}
	return nil
}

// DeleteBooking cancels a booking. The server keeps it with status deleted.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete booking: empty id")
	}
	query := url.Values{"id": {id}}
	if err := c.doJSON(ctx, http.MethodDelete, "repetitions", query, nil, nil); err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

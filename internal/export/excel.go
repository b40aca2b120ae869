package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"project30/internal/model"
	"project30/internal/schedule"
)

var columns = []string{"Date", "Hour", "Course", "Professor", "Status", "Note"}

// sheetWriter appends rows to the active sheet of an excelize workbook.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
	bold  int
}

func newSheetWriter() (*sheetWriter, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	return &sheetWriter{file: f, bold: bold}, nil
}

func (w *sheetWriter) addSheet(name string) error {
	// Excel caps sheet names at 31 characters.
	if len(name) > 31 {
		name = name[:31]
	}
	if w.sheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.sheet = name
	w.row = 1
	return nil
}

func (w *sheetWriter) writeRow(values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, v); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *sheetWriter) writeHeader() error {
	if err := w.writeRow(toAny(columns)); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	return w.file.SetCellStyle(w.sheet, first, last, w.bold)
}

// WriteBookings renders bookings as an xlsx workbook with one sheet per month,
// rows in chronological order. An empty list yields a single sheet holding
// only the header.
func WriteBookings(out io.Writer, bookings []model.Booking) error {
	w, err := newSheetWriter()
	if err != nil {
		return err
	}
	defer w.file.Close()

	sorted := schedule.SortChronological(bookings)
	if len(sorted) == 0 {
		if err := w.addSheet("Bookings"); err != nil {
			return err
		}
		if err := w.writeHeader(); err != nil {
			return err
		}
		return w.file.Write(out)
	}

	current := ""
	for _, b := range sorted {
		name := SheetName(b.Date)
		if name != current {
			if err := w.addSheet(name); err != nil {
				return err
			}
			if err := w.writeHeader(); err != nil {
				return err
			}
			current = name
		}
		if err := w.writeRow(bookingRow(b)); err != nil {
			return fmt.Errorf("write booking %s: %w", b.ID, err)
		}
	}
	return w.file.Write(out)
}

// SheetName is the sheet a booking on d lands in.
func SheetName(d model.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

func bookingRow(b model.Booking) []any {
	return []any{
		b.Date.String(),
		fmt.Sprintf("%02d:00", b.Hour),
		b.CourseTitle(),
		b.ProfessorName(),
		string(b.Status),
		b.Note,
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

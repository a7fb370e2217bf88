package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/timetable"
)

var headerCounter uint64

var referenceTime = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ---------------------------- Header fixtures ----------------------------

// HeaderFixture represents a deterministic timetable header record.
type HeaderFixture struct {
	ID            string
	InstituteID   string
	Session       string
	Year          int
	CurrentStatus bool
	Visibility    bool
	BreakStart    string
	BreakEnd      string
	CreatedAt     time.Time
}

// HeaderOption configures the generated header fixture.
type HeaderOption func(*HeaderFixture)

// NewHeaderFixture returns a deterministic header fixture with optional
// overrides.
func NewHeaderFixture(opts ...HeaderOption) HeaderFixture {
	idx := atomic.AddUint64(&headerCounter, 1)
	fixture := HeaderFixture{
		ID:          fmt.Sprintf("tt-%03d", idx),
		InstituteID: "inst-001",
		Session:     "Spring",
		Year:        2026,
		BreakStart:  "10:00",
		BreakEnd:    "10:30",
		CreatedAt:   referenceTime.Add(time.Duration(idx) * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithHeaderID overrides the generated header ID.
func WithHeaderID(id string) HeaderOption {
	return func(f *HeaderFixture) {
		f.ID = id
	}
}

// WithHeaderInstitute overrides the institute the header belongs to.
func WithHeaderInstitute(instituteID string) HeaderOption {
	return func(f *HeaderFixture) {
		f.InstituteID = instituteID
	}
}

// WithHeaderSession sets the session label and year.
func WithHeaderSession(session string, year int) HeaderOption {
	return func(f *HeaderFixture) {
		f.Session = session
		f.Year = year
	}
}

// WithHeaderCurrent marks the header as the institute's current timetable.
func WithHeaderCurrent(current bool) HeaderOption {
	return func(f *HeaderFixture) {
		f.CurrentStatus = current
	}
}

// WithHeaderVisibility sets the visibility flag.
func WithHeaderVisibility(visible bool) HeaderOption {
	return func(f *HeaderFixture) {
		f.Visibility = visible
	}
}

// WithHeaderBreakWindow sets the stored break window.
func WithHeaderBreakWindow(start, end string) HeaderOption {
	return func(f *HeaderFixture) {
		f.BreakStart = start
		f.BreakEnd = end
	}
}

// WithHeaderCreatedAt sets the creation timestamp.
func WithHeaderCreatedAt(t time.Time) HeaderOption {
	return func(f *HeaderFixture) {
		f.CreatedAt = t
	}
}

// Application returns the fixture as an application.TimetableHeader value.
func (f HeaderFixture) Application() application.TimetableHeader {
	return application.TimetableHeader{
		ID:            f.ID,
		InstituteID:   f.InstituteID,
		Session:       f.Session,
		Year:          f.Year,
		CurrentStatus: f.CurrentStatus,
		Visibility:    f.Visibility,
		BreakStart:    f.BreakStart,
		BreakEnd:      f.BreakEnd,
		CreatedAt:     f.CreatedAt,
	}
}

// --------------------------- Schedule fixtures ---------------------------

// ScheduleFixture describes a detail set that can be materialised into the
// sparse cell records a backend would return.
type ScheduleFixture struct {
	Classes    []string
	Times      []string
	BreakStart string
	BreakEnd   string
	// Fill decides the content of each position. Returning an empty
	// CellContent leaves the position vacant.
	Fill func(class, day, slot string) timetable.CellContent
}

// ScheduleOption configures the generated schedule fixture.
type ScheduleOption func(*ScheduleFixture)

// NewScheduleFixture returns a schedule fixture that fills every position
// with deterministic content, subject to overrides.
func NewScheduleFixture(opts ...ScheduleOption) ScheduleFixture {
	fixture := ScheduleFixture{
		Classes:    []string{"BSCS-1", "BSSE-2"},
		Times:      []string{"08:00-09:00", "09:00-10:00"},
		BreakStart: "10:00",
		BreakEnd:   "10:30",
		Fill:       SequentialFill(),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithScheduleClasses overrides the class list.
func WithScheduleClasses(classes ...string) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.Classes = classes
	}
}

// WithScheduleTimes overrides the slot labels.
func WithScheduleTimes(times ...string) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.Times = times
	}
}

// WithScheduleBreakWindow overrides the break window stamped on every cell.
func WithScheduleBreakWindow(start, end string) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.BreakStart = start
		f.BreakEnd = end
	}
}

// WithScheduleFill overrides the content function.
func WithScheduleFill(fill func(class, day, slot string) timetable.CellContent) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.Fill = fill
	}
}

// SequentialFill returns a fill function that numbers courses, rooms, and
// instructors in visiting order.
func SequentialFill() func(class, day, slot string) timetable.CellContent {
	var n int
	return func(class, day, slot string) timetable.CellContent {
		n++
		return timetable.CellContent{
			Course:         fmt.Sprintf("Course %d", n),
			RoomNumber:     fmt.Sprintf("R-%d", n),
			InstructorName: fmt.Sprintf("Instructor %d", n),
		}
	}
}

// Cells materialises the fixture into sparse records, omitting positions the
// fill function left empty.
func (f ScheduleFixture) Cells() []timetable.Cell {
	var cells []timetable.Cell
	for _, class := range f.Classes {
		for _, day := range timetable.Weekdays {
			for _, slot := range f.Times {
				content := f.Fill(class, day, slot)
				if content.Empty() {
					continue
				}
				cells = append(cells, timetable.Cell{
					Class:          class,
					Day:            day,
					Time:           slot,
					Course:         content.Course,
					RoomNumber:     content.RoomNumber,
					InstructorName: content.InstructorName,
					BreakStart:     f.BreakStart,
					BreakEnd:       f.BreakEnd,
				})
			}
		}
	}
	return cells
}

package application

import "time"

// TimetableHeader identifies one generated timetable instance. Headers are
// owned by the backend; the console holds a read/write cache of the selected
// one only.
type TimetableHeader struct {
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

// HeaderPatch is a partial header update. Nil fields are left unchanged by
// the backend.
type HeaderPatch struct {
	Visibility    *bool
	CurrentStatus *bool
	BreakStart    *string
	BreakEnd      *string
}

// Course is a lookup entry used to populate the cell edit dialog.
type Course struct {
	ID   string
	Name string
}

// Room is a lookup entry used to populate the cell edit dialog.
type Room struct {
	ID     string
	Number string
}

// Teacher is a lookup entry used to populate the cell edit dialog.
type Teacher struct {
	ID   string
	Name string
}

// Class is a lookup entry scoped to an institute.
type Class struct {
	ID   string
	Name string
}

// Lookups bundles the dropdown data for the single-cell edit dialog.
type Lookups struct {
	Courses  []Course
	Rooms    []Room
	Teachers []Teacher
	Classes  []Class
}

// Profile is the institute account shown on the profile screen.
type Profile struct {
	InstituteID string
	Name        string
	Email       string
	Phone       string
	Address     string
}

// ProfileInput captures caller provided profile fields.
type ProfileInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// PasswordChange captures the password change form.
type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

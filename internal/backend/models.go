package backend

import (
	"time"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/timetable"
)

type headerWire struct {
	ID            string `json:"id"`
	InstituteID   string `json:"institute_id"`
	Session       string `json:"session"`
	Year          int    `json:"year"`
	CurrentStatus bool   `json:"current_status"`
	Visibility    bool   `json:"visibility"`
	BreakStart    string `json:"break_start"`
	BreakEnd      string `json:"break_end"`
	CreatedAt     string `json:"created_at"`
}

func (h headerWire) toHeader() application.TimetableHeader {
	createdAt, _ := time.Parse(time.RFC3339, h.CreatedAt)
	return application.TimetableHeader{
		ID:            h.ID,
		InstituteID:   h.InstituteID,
		Session:       h.Session,
		Year:          h.Year,
		CurrentStatus: h.CurrentStatus,
		Visibility:    h.Visibility,
		BreakStart:    h.BreakStart,
		BreakEnd:      h.BreakEnd,
		CreatedAt:     createdAt,
	}
}

type cellWire struct {
	Class          string `json:"class"`
	Day            string `json:"day"`
	Time           string `json:"time"`
	Course         string `json:"course"`
	RoomNumber     string `json:"room_number"`
	InstructorName string `json:"instructor_name"`
	BreakStart     string `json:"break_start"`
	BreakEnd       string `json:"break_end"`
}

func (w cellWire) toCell() timetable.Cell {
	return timetable.Cell{
		Class:          w.Class,
		Day:            w.Day,
		Time:           w.Time,
		Course:         w.Course,
		RoomNumber:     w.RoomNumber,
		InstructorName: w.InstructorName,
		BreakStart:     w.BreakStart,
		BreakEnd:       w.BreakEnd,
	}
}

func toCellWire(cell timetable.Cell) cellWire {
	return cellWire{
		Class:          cell.Class,
		Day:            cell.Day,
		Time:           cell.Time,
		Course:         cell.Course,
		RoomNumber:     cell.RoomNumber,
		InstructorName: cell.InstructorName,
		BreakStart:     cell.BreakStart,
		BreakEnd:       cell.BreakEnd,
	}
}

type headerPatchWire struct {
	Visibility    *bool   `json:"visibility,omitempty"`
	CurrentStatus *bool   `json:"current_status,omitempty"`
	BreakStart    *string `json:"break_start,omitempty"`
	BreakEnd      *string `json:"break_end,omitempty"`
}

type courseWire struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type roomWire struct {
	ID     string `json:"id"`
	Number string `json:"room_number"`
}

type teacherWire struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type classWire struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type profileWire struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (p profileWire) toProfile(instituteID string) application.Profile {
	return application.Profile{
		InstituteID: instituteID,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
	}
}

type passwordWire struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

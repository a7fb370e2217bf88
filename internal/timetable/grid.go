// Package timetable implements the in-memory editing model for a generated
// timetable: materializing a dense grid from sparse stored records, relocating
// cells through a staging swap box, click-driven selection swaps, and
// regenerating the time axis from schedule settings.
package timetable

import (
	"sort"
)

// Weekdays is the fixed ordered set of teaching days covered by every grid.
var Weekdays = [5]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// CellContent carries the assignable portion of a cell. A cell with an empty
// Course is considered unassigned.
type CellContent struct {
	Course         string
	RoomNumber     string
	InstructorName string
}

// Empty reports whether the content represents an unassigned slot.
func (c CellContent) Empty() bool {
	return c.Course == ""
}

// Cell is the atomic schedulable unit: one (class, day, time) coordinate and
// its assignment. The break window is shared per timetable and duplicated
// onto every cell, mirroring the stored record shape.
type Cell struct {
	Class          string
	Day            string
	Time           string
	Course         string
	RoomNumber     string
	InstructorName string
	BreakStart     string
	BreakEnd       string
}

// Content returns the assignable portion of the cell.
func (c Cell) Content() CellContent {
	return CellContent{Course: c.Course, RoomNumber: c.RoomNumber, InstructorName: c.InstructorName}
}

// Empty reports whether the cell has no course assigned.
func (c Cell) Empty() bool {
	return c.Course == ""
}

func (c *Cell) setContent(content CellContent) {
	c.Course = content.Course
	c.RoomNumber = content.RoomNumber
	c.InstructorName = content.InstructorName
}

func (c *Cell) clearContent() {
	c.setContent(CellContent{})
}

// Grid is the dense editable working copy of one timetable: every
// (class, weekday, time) combination, in class-major order with the fixed
// weekday order and lexicographically sorted time labels.
type Grid struct {
	Cells   []Cell
	Classes []string
	Times   []string
}

// Materialize expands a sparse record list into a dense grid covering the
// Cartesian product of observed classes, the fixed weekday set, and observed
// time labels. Missing combinations get synthesized empty cells carrying the
// shared break window taken from any stored record.
//
// Time labels sort lexicographically, which orders them chronologically only
// because slot labels are zero-padded HH:MM-HH:MM strings.
func Materialize(records []Cell) Grid {
	classSet := make(map[string]struct{})
	timeSet := make(map[string]struct{})
	byCoordinate := make(map[coordinate]Cell, len(records))

	var breakStart, breakEnd string
	for _, record := range records {
		classSet[record.Class] = struct{}{}
		timeSet[record.Time] = struct{}{}
		byCoordinate[coordinate{record.Class, record.Day, record.Time}] = record
		if breakStart == "" && breakEnd == "" {
			breakStart = record.BreakStart
			breakEnd = record.BreakEnd
		}
	}

	classes := sortedKeys(classSet)
	times := sortedKeys(timeSet)

	cells := make([]Cell, 0, len(classes)*len(Weekdays)*len(times))
	for _, class := range classes {
		for _, day := range Weekdays {
			for _, slot := range times {
				if stored, ok := byCoordinate[coordinate{class, day, slot}]; ok {
					cells = append(cells, stored)
					continue
				}
				cells = append(cells, Cell{
					Class:      class,
					Day:        day,
					Time:       slot,
					BreakStart: breakStart,
					BreakEnd:   breakEnd,
				})
			}
		}
	}

	return Grid{Cells: cells, Classes: classes, Times: times}
}

// Flatten returns the record list to persist: every cell of the grid,
// including empty ones. It is the inverse of Materialize.
func (g Grid) Flatten() []Cell {
	out := make([]Cell, len(g.Cells))
	copy(out, g.Cells)
	return out
}

// OccupiedCount reports how many cells carry an assignment.
func (g Grid) OccupiedCount() int {
	count := 0
	for _, cell := range g.Cells {
		if !cell.Empty() {
			count++
		}
	}
	return count
}

// CellAt returns the cell at the given dense index.
func (g Grid) CellAt(index int) (Cell, bool) {
	if index < 0 || index >= len(g.Cells) {
		return Cell{}, false
	}
	return g.Cells[index], true
}

// HasClass reports whether the grid already covers the named class.
func (g Grid) HasClass(name string) bool {
	for _, class := range g.Classes {
		if class == name {
			return true
		}
	}
	return false
}

// AddClass appends one empty row block (every weekday and time slot) for a
// new class. The grid must already have a time axis; callers reject the
// operation on a zero-slot grid before mutating anything.
func (g *Grid) AddClass(name string) {
	breakStart, breakEnd := g.breakWindow()
	for _, day := range Weekdays {
		for _, slot := range g.Times {
			g.Cells = append(g.Cells, Cell{
				Class:      name,
				Day:        day,
				Time:       slot,
				BreakStart: breakStart,
				BreakEnd:   breakEnd,
			})
		}
	}
	g.Classes = append(g.Classes, name)
	sort.Strings(g.Classes)
	g.reorder()
}

// RemoveClass drops every cell belonging to the named class.
func (g *Grid) RemoveClass(name string) {
	kept := g.Cells[:0]
	for _, cell := range g.Cells {
		if cell.Class != name {
			kept = append(kept, cell)
		}
	}
	g.Cells = kept

	classes := g.Classes[:0]
	for _, class := range g.Classes {
		if class != name {
			classes = append(classes, class)
		}
	}
	g.Classes = classes
}

// SetBreakWindow stamps the shared break window onto every cell.
func (g *Grid) SetBreakWindow(start, end string) {
	for i := range g.Cells {
		g.Cells[i].BreakStart = start
		g.Cells[i].BreakEnd = end
	}
}

func (g Grid) breakWindow() (string, string) {
	if len(g.Cells) == 0 {
		return "", ""
	}
	return g.Cells[0].BreakStart, g.Cells[0].BreakEnd
}

// reorder restores class-major, weekday, time-label ordering after a
// structural change. Indices held by callers are invalidated.
func (g *Grid) reorder() {
	dayRank := make(map[string]int, len(Weekdays))
	for i, day := range Weekdays {
		dayRank[day] = i
	}
	timeRank := make(map[string]int, len(g.Times))
	for i, slot := range g.Times {
		timeRank[slot] = i
	}
	sort.SliceStable(g.Cells, func(i, j int) bool {
		a, b := g.Cells[i], g.Cells[j]
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if a.Day != b.Day {
			return dayRank[a.Day] < dayRank[b.Day]
		}
		return timeRank[a.Time] < timeRank[b.Time]
	})
}

type coordinate struct {
	class string
	day   string
	time  string
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

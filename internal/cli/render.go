package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/timetable"
)

// Color definitions for consistent styling across the console.
var (
	colorHeader  = color.New(color.Bold)
	colorCurrent = color.New(color.FgGreen)
	colorCourse  = color.New(color.FgCyan)
	colorMuted   = color.New(color.FgWhite, color.Faint)
)

func disableColor() {
	color.NoColor = true
}

const cellWidth = 22

// renderHeaders prints the header list one row per timetable.
func renderHeaders(w io.Writer, headers []application.TimetableHeader) {
	if len(headers) == 0 {
		fmt.Fprintln(w, "No timetables found.")
		return
	}
	fmt.Fprintf(w, "%s\n", colorHeader.Sprintf("%-12s %-14s %-8s %-10s %-13s", "ID", "SESSION", "CURRENT", "VISIBLE", "BREAK"))
	for _, header := range headers {
		current := "-"
		if header.CurrentStatus {
			current = colorCurrent.Sprint("yes")
		}
		visible := "hidden"
		if header.Visibility {
			visible = "visible"
		}
		breakWindow := "-"
		if header.BreakStart != "" && header.BreakEnd != "" {
			breakWindow = header.BreakStart + "-" + header.BreakEnd
		}
		fmt.Fprintf(w, "%-12s %-14s %-8s %-10s %-13s\n",
			header.ID,
			fmt.Sprintf("%s %d", header.Session, header.Year),
			current,
			visible,
			breakWindow,
		)
	}
}

// renderGrid prints one weekly table per class: time slots as rows, weekdays
// as columns.
func renderGrid(w io.Writer, grid timetable.Grid) {
	if len(grid.Classes) == 0 || len(grid.Times) == 0 {
		fmt.Fprintln(w, "The timetable is empty.")
		return
	}

	for _, class := range grid.Classes {
		fmt.Fprintf(w, "\n%s\n", colorHeader.Sprintf("CLASS %s", class))
		fmt.Fprintln(w, strings.Repeat("─", 14+cellWidth*len(timetable.Weekdays)))

		header := fmt.Sprintf("%-13s ", "TIME")
		for _, day := range timetable.Weekdays {
			header += pad(day, cellWidth)
		}
		fmt.Fprintln(w, colorHeader.Sprint(strings.TrimRight(header, " ")))

		for _, slot := range grid.Times {
			row := fmt.Sprintf("%-13s ", slot)
			for _, day := range timetable.Weekdays {
				row += pad(cellText(grid, class, day, slot), cellWidth)
			}
			fmt.Fprintln(w, strings.TrimRight(row, " "))
		}
	}
}

func cellText(grid timetable.Grid, class, day, slot string) string {
	for _, cell := range grid.Cells {
		if cell.Class == class && cell.Day == day && cell.Time == slot {
			if cell.Empty() {
				return colorMuted.Sprint("-")
			}
			text := cell.Course
			if cell.RoomNumber != "" {
				text += " (" + cell.RoomNumber + ")"
			}
			return colorCourse.Sprint(text)
		}
	}
	return colorMuted.Sprint("-")
}

// pad right-pads to width counting visible runes, not color escape bytes.
func pad(s string, width int) string {
	visible := len([]rune(stripEscapes(s)))
	if visible >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-visible)
}

func stripEscapes(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

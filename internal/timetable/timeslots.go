package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TimeSettings are the schedule parameters the regenerator consumes. They are
// transient: derived from the loaded grid when the settings dialog opens and
// never stored directly.
type TimeSettings struct {
	StartTime       string // zero-padded HH:MM
	EndTime         string // zero-padded HH:MM
	LectureDuration int    // minutes
	HasBreak        bool
	BreakAfter      int // lecture number the break follows
	BreakDuration   int // minutes
}

// BreakWindow is the shared non-teaching interval applied to every cell of a
// timetable. Zero values mean no break.
type BreakWindow struct {
	Start string
	End   string
}

// ErrNoTimeSlots is returned when slot generation produces an empty axis.
var ErrNoTimeSlots = errors.New("timetable: no time slots")

// MinLectureDuration is the shortest lecture the regenerator accepts, in
// minutes.
const MinLectureDuration = 30

// ParseClock converts a zero-padded HH:MM label into minutes since midnight.
func ParseClock(label string) (int, error) {
	hoursText, minutesText, ok := strings.Cut(label, ":")
	if !ok {
		return 0, fmt.Errorf("timetable: invalid clock label %q", label)
	}
	hours, err := strconv.Atoi(hoursText)
	if err != nil {
		return 0, fmt.Errorf("timetable: invalid clock label %q", label)
	}
	minutes, err := strconv.Atoi(minutesText)
	if err != nil {
		return 0, fmt.Errorf("timetable: invalid clock label %q", label)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("timetable: invalid clock label %q", label)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as a zero-padded HH:MM label.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseSlot splits an HH:MM-HH:MM slot label into its bounds in minutes.
func ParseSlot(label string) (int, int, error) {
	startText, endText, ok := strings.Cut(label, "-")
	if !ok {
		return 0, 0, fmt.Errorf("timetable: invalid slot label %q", label)
	}
	start, err := ParseClock(startText)
	if err != nil {
		return 0, 0, fmt.Errorf("timetable: invalid slot label %q", label)
	}
	end, err := ParseClock(endText)
	if err != nil {
		return 0, 0, fmt.Errorf("timetable: invalid slot label %q", label)
	}
	return start, end, nil
}

func formatSlot(start, end int) string {
	return FormatClock(start) + "-" + FormatClock(end)
}

// GenerateSlots produces the ordered slot labels for the settings, inserting
// the configured break after the chosen lecture. The break end is clamped to
// the overall end time, and the cursor advances by the actual break span.
// Callers validate the settings first; GenerateSlots only reports structural
// failures it can see itself.
func (s TimeSettings) GenerateSlots() ([]string, BreakWindow, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return nil, BreakWindow{}, err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return nil, BreakWindow{}, err
	}
	if s.LectureDuration <= 0 {
		return nil, BreakWindow{}, fmt.Errorf("timetable: lecture duration must be positive")
	}

	var slots []string
	var window BreakWindow
	cursor := start
	emitted := 0
	for cursor+s.LectureDuration <= end {
		slots = append(slots, formatSlot(cursor, cursor+s.LectureDuration))
		cursor += s.LectureDuration
		emitted++

		// If the window closes before the break position is reached the
		// break silently degrades to none; validation only bounds the
		// position against the theoretical maximum.
		if s.HasBreak && emitted == s.BreakAfter {
			breakEnd := min(cursor+s.BreakDuration, end)
			window = BreakWindow{Start: FormatClock(cursor), End: FormatClock(breakEnd)}
			cursor = breakEnd
		}
	}

	if len(slots) == 0 {
		return nil, BreakWindow{}, ErrNoTimeSlots
	}
	return slots, window, nil
}

// Regenerate rebuilds the grid against the slot axis generated from the
// settings, carrying content forward by slot position rather than by label:
// the first Monday lecture of a class stays the first Monday lecture even
// though every label changes. Content at positions beyond the new axis is
// dropped; new positions beyond the old axis start empty. The input grid is
// not modified.
func Regenerate(grid Grid, settings TimeSettings) (Grid, BreakWindow, error) {
	slots, window, err := settings.GenerateSlots()
	if err != nil {
		return Grid{}, BreakWindow{}, err
	}

	oldIndex := make(map[string]int, len(grid.Times))
	for i, slot := range grid.Times {
		oldIndex[slot] = i
	}

	type slotKey struct {
		class string
		day   string
		slot  int
	}
	content := make(map[slotKey]CellContent, len(grid.Cells))
	for _, cell := range grid.Cells {
		position, ok := oldIndex[cell.Time]
		if !ok {
			continue
		}
		content[slotKey{cell.Class, cell.Day, position}] = cell.Content()
	}

	classes := make([]string, len(grid.Classes))
	copy(classes, grid.Classes)

	cells := make([]Cell, 0, len(classes)*len(Weekdays)*len(slots))
	for _, class := range classes {
		for _, day := range Weekdays {
			for position, slot := range slots {
				cell := Cell{
					Class:      class,
					Day:        day,
					Time:       slot,
					BreakStart: window.Start,
					BreakEnd:   window.End,
				}
				if carried, ok := content[slotKey{class, day, position}]; ok {
					cell.setContent(carried)
				}
				cells = append(cells, cell)
			}
		}
	}

	times := make([]string, len(slots))
	copy(times, slots)

	return Grid{Cells: cells, Classes: classes, Times: times}, window, nil
}

// DeriveSettings reconstructs schedule parameters from a loaded grid, the
// best-effort prefill for the settings dialog. The lecture duration comes
// from the first slot and a break is inferred from the first gap between
// consecutive slots. A grid without a time axis derives the zero value.
func DeriveSettings(grid Grid) TimeSettings {
	if len(grid.Times) == 0 {
		return TimeSettings{}
	}

	var settings TimeSettings

	firstStart, firstEnd, err := ParseSlot(grid.Times[0])
	if err != nil {
		return TimeSettings{}
	}
	settings.StartTime = FormatClock(firstStart)
	settings.LectureDuration = firstEnd - firstStart

	previousEnd := firstEnd
	for i := 1; i < len(grid.Times); i++ {
		start, end, err := ParseSlot(grid.Times[i])
		if err != nil {
			return TimeSettings{}
		}
		if !settings.HasBreak && start > previousEnd {
			settings.HasBreak = true
			settings.BreakAfter = i
			settings.BreakDuration = start - previousEnd
		}
		previousEnd = end
	}
	settings.EndTime = FormatClock(previousEnd)

	return settings
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/timetable"
)

func (a *App) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply scripted edits to a timetable",
		Long: `Apply scripted edits to a timetable.

Each subcommand opens an editing session, applies one change, and saves the
whole grid back to the backend. Cells are addressed as DAY@SLOT, for example
Monday@08:00-09:00.`,
	}
	cmd.AddCommand(a.editMoveCmd())
	cmd.AddCommand(a.editSwapCmd())
	cmd.AddCommand(a.editSetCmd())
	cmd.AddCommand(a.editAddClassCmd())
	cmd.AddCommand(a.editRemoveClassCmd())
	cmd.AddCommand(a.editRetimeCmd())
	return cmd
}

// withSession opens an editing session, runs one edit, and saves. A failed
// edit cancels the session so nothing reaches the backend.
func (a *App) withSession(ctx context.Context, headerID string, fn func(*application.EditorSession) error) error {
	header, err := a.findHeader(ctx, headerID)
	if err != nil {
		return err
	}
	session, err := a.services.Editor.Begin(ctx, header)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		a.services.Editor.Cancel(session)
		return err
	}
	if !session.Dirty {
		return nil
	}
	return a.services.Editor.Save(ctx, session)
}

func (a *App) editMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "move <timetable-id> <class> <from> <to>",
		Short:   "Move a cell to a vacant position in the same class",
		Example: `  timetable edit move tt-001 BSCS-1 Monday@08:00-09:00 Tuesday@09:00-10:00`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			headerID, class := args[0], args[1]
			return a.withSession(cmd.Context(), headerID, func(session *application.EditorSession) error {
				from, err := resolveCellRef(session.Editor.Grid, class, args[2])
				if err != nil {
					return err
				}
				to, err := resolveCellRef(session.Editor.Grid, class, args[3])
				if err != nil {
					return err
				}
				cell, _ := session.Editor.Grid.CellAt(from)
				if cell.Empty() {
					return fmt.Errorf("source cell %s is vacant", args[2])
				}
				transfer := timetable.Transfer{
					Source:  timetable.TransferFromGrid,
					Class:   class,
					Index:   from,
					Content: cell.Content(),
				}
				if !session.Place(to, transfer) {
					return fmt.Errorf("target cell %s is occupied", args[3])
				}
				fmt.Fprintf(a.out, "Moved %s from %s to %s.\n", cell.Course, args[2], args[3])
				return nil
			})
		},
	}
}

func (a *App) editSwapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <timetable-id> <class> <first> <second>",
		Short: "Exchange two cells of the same class",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			headerID, class := args[0], args[1]
			return a.withSession(cmd.Context(), headerID, func(session *application.EditorSession) error {
				first, err := resolveCellRef(session.Editor.Grid, class, args[2])
				if err != nil {
					return err
				}
				second, err := resolveCellRef(session.Editor.Grid, class, args[3])
				if err != nil {
					return err
				}
				if first == second {
					return fmt.Errorf("cannot swap a cell with itself")
				}
				if !session.ToggleSelect(first) || !session.ToggleSelect(second) {
					return fmt.Errorf("cells could not be selected")
				}
				if !session.SwapSelected() {
					return fmt.Errorf("swap failed")
				}
				fmt.Fprintf(a.out, "Swapped %s and %s.\n", args[2], args[3])
				return nil
			})
		},
	}
}

func (a *App) editSetCmd() *cobra.Command {
	var (
		course     string
		room       string
		instructor string
		clear      bool
	)

	cmd := &cobra.Command{
		Use:   "set <timetable-id> <class> <cell>",
		Short: "Assign or clear a single cell",
		Long: `Assign a course, room, and instructor to one cell, or clear it.

The course, room, and instructor must exist in the institute's catalog.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			headerID, class := args[0], args[1]

			content := timetable.CellContent{}
			if !clear {
				if course == "" {
					return fmt.Errorf("--course is required unless --clear is given")
				}
				if err := a.validateAssignment(ctx, course, room, instructor); err != nil {
					return err
				}
				content = timetable.CellContent{Course: course, RoomNumber: room, InstructorName: instructor}
			}

			return a.withSession(ctx, headerID, func(session *application.EditorSession) error {
				index, err := resolveCellRef(session.Editor.Grid, class, args[2])
				if err != nil {
					return err
				}
				if !session.SetCell(index, content) {
					return fmt.Errorf("cell %s could not be updated", args[2])
				}
				if clear {
					fmt.Fprintf(a.out, "Cleared %s.\n", args[2])
				} else {
					fmt.Fprintf(a.out, "Assigned %s to %s.\n", course, args[2])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&course, "course", "", "Course name")
	cmd.Flags().StringVar(&room, "room", "", "Room number")
	cmd.Flags().StringVar(&instructor, "instructor", "", "Instructor name")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the cell instead of assigning")
	return cmd
}

func (a *App) editAddClassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-class <timetable-id> <class>",
		Short: "Add an empty row block for a new class",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), args[0], func(session *application.EditorSession) error {
				if err := a.services.Editor.AddClass(session, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Added class %s.\n", args[1])
				return nil
			})
		},
	}
}

func (a *App) editRemoveClassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-class <timetable-id> <class>",
		Short: "Remove a class and all of its cells",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), args[0], func(session *application.EditorSession) error {
				if err := a.services.Editor.RemoveClass(session, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Removed class %s.\n", args[1])
				return nil
			})
		},
	}
}

func (a *App) editRetimeCmd() *cobra.Command {
	var (
		start         string
		end           string
		duration      int
		breakAfter    int
		breakDuration int
	)

	cmd := &cobra.Command{
		Use:   "retime <timetable-id>",
		Short: "Regenerate the time axis",
		Long: `Regenerate the timetable's time slots from schedule settings.

Cell assignments keep their slot position: the first lecture of a day stays
the first lecture on the new axis. Slots that no longer exist lose their
assignments.`,
		Example: `  timetable edit retime tt-001 --start 08:00 --end 13:00 --duration 60
  timetable edit retime tt-001 --start 08:00 --end 10:30 --duration 30 --break-after 2 --break-duration 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := timetable.TimeSettings{
				StartTime:       start,
				EndTime:         end,
				LectureDuration: duration,
				HasBreak:        breakAfter > 0 || breakDuration > 0,
				BreakAfter:      breakAfter,
				BreakDuration:   breakDuration,
			}
			return a.withSession(cmd.Context(), args[0], func(session *application.EditorSession) error {
				if err := a.services.Editor.Regenerate(cmd.Context(), session, settings); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Generated %d slots: %s\n",
					len(session.Editor.Grid.Times), strings.Join(session.Editor.Grid.Times, ", "))
				if session.Header.BreakStart != "" {
					fmt.Fprintf(a.out, "Break: %s-%s\n", session.Header.BreakStart, session.Header.BreakEnd)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Day start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "Day end time (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Lecture duration in minutes")
	cmd.Flags().IntVar(&breakAfter, "break-after", 0, "Insert a break after this many lectures")
	cmd.Flags().IntVar(&breakDuration, "break-duration", 0, "Break duration in minutes")
	return cmd
}

// validateAssignment checks the assignment against the institute's catalog.
func (a *App) validateAssignment(ctx context.Context, course, room, instructor string) error {
	if a.services.Lookups == nil {
		return nil
	}
	lookups, err := a.services.Lookups.Lookups(ctx, a.instituteID())
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	if !containsCourse(lookups.Courses, course) {
		return fmt.Errorf("unknown course %q", course)
	}
	if room != "" && !containsRoom(lookups.Rooms, room) {
		return fmt.Errorf("unknown room %q", room)
	}
	if instructor != "" && !containsTeacher(lookups.Teachers, instructor) {
		return fmt.Errorf("unknown instructor %q", instructor)
	}
	return nil
}

func containsCourse(courses []application.Course, name string) bool {
	for _, course := range courses {
		if course.Name == name {
			return true
		}
	}
	return false
}

func containsRoom(rooms []application.Room, number string) bool {
	for _, room := range rooms {
		if room.Number == number {
			return true
		}
	}
	return false
}

func containsTeacher(teachers []application.Teacher, name string) bool {
	for _, teacher := range teachers {
		if teacher.Name == name {
			return true
		}
	}
	return false
}

// resolveCellRef turns a DAY@SLOT reference into a dense grid index.
func resolveCellRef(grid timetable.Grid, class, ref string) (int, error) {
	day, slot, ok := strings.Cut(ref, "@")
	if !ok {
		return 0, fmt.Errorf("cell reference must be DAY@SLOT, got %q", ref)
	}
	if !grid.HasClass(class) {
		return 0, fmt.Errorf("unknown class %q", class)
	}
	for index, cell := range grid.Cells {
		if cell.Class == class && cell.Day == day && cell.Time == slot {
			return index, nil
		}
	}
	return 0, fmt.Errorf("no cell %s for class %s", ref, class)
}

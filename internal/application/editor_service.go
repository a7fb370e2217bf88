package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/timetable-console/internal/timetable"
)

// DetailStore captures the backend interactions needed by the editor.
type DetailStore interface {
	GetDetails(ctx context.Context, headerID string) ([]timetable.Cell, error)
	ReplaceDetails(ctx context.Context, headerID string, cells []timetable.Cell) error
	PatchHeader(ctx context.Context, headerID string, patch HeaderPatch) error
}

// EditorService opens, saves, and regenerates editing sessions. Gesture level
// mutations live on EditorSession; the service owns everything that talks to
// the backend.
type EditorService struct {
	store  DetailStore
	logger *slog.Logger
}

// NewEditorService wires dependencies for editing operations.
func NewEditorService(store DetailStore, logger *slog.Logger) *EditorService {
	return &EditorService{store: store, logger: defaultLogger(logger)}
}

// EditorSession is the complete editing state for one header: the editor
// (grid, swap box, selection), the derived time settings, and a dirty flag.
// It is discarded wholesale on cancel and replaces the server copy on save.
type EditorSession struct {
	Header   TimetableHeader
	Editor   *timetable.Editor
	Settings timetable.TimeSettings
	Dirty    bool
}

// Begin fetches the header's details and materializes the editable grid.
func (s *EditorService) Begin(ctx context.Context, header TimetableHeader) (*EditorSession, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("detail store not configured")
	}

	records, err := s.store.GetDetails(ctx, header.ID)
	if err != nil {
		return nil, err
	}

	editor := timetable.NewEditor(records)
	return &EditorSession{
		Header:   header,
		Editor:   editor,
		Settings: timetable.DeriveSettings(editor.Grid),
	}, nil
}

// Save replaces the header's detail set with the edited grid, empty cells
// included, and clears the session's staging state.
func (s *EditorService) Save(ctx context.Context, session *EditorSession) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("detail store not configured")
	}
	if session == nil || session.Editor == nil {
		return fmt.Errorf("no editing session")
	}

	if err := s.store.ReplaceDetails(ctx, session.Header.ID, session.Editor.Grid.Flatten()); err != nil {
		return err
	}

	session.Editor.Reset()
	session.Dirty = false
	return nil
}

// Cancel discards staged state. The grid itself dies with the session; the
// server copy was never touched.
func (s *EditorService) Cancel(session *EditorSession) {
	if session == nil || session.Editor == nil {
		return
	}
	session.Editor.Reset()
	session.Dirty = false
}

// Regenerate validates the settings, rebuilds the session grid on the new
// time axis, and best-effort persists the resulting break window onto the
// header. A failed header patch is logged and swallowed; it never rolls back
// the local grid change.
func (s *EditorService) Regenerate(ctx context.Context, session *EditorSession, settings timetable.TimeSettings) error {
	if s == nil {
		return fmt.Errorf("EditorService is nil")
	}
	if session == nil || session.Editor == nil {
		return fmt.Errorf("no editing session")
	}

	vErr := &ValidationError{}
	validateTimeSettings(settings, vErr)
	if vErr.HasErrors() {
		return vErr
	}

	grid, window, err := timetable.Regenerate(session.Editor.Grid, settings)
	if err != nil {
		vErr.add("time", "settings produce no time slots")
		return vErr
	}

	session.Editor.Grid = grid
	session.Editor.Reset()
	session.Settings = settings
	session.Header.BreakStart = window.Start
	session.Header.BreakEnd = window.End
	session.Dirty = true

	if s.store != nil {
		patch := HeaderPatch{BreakStart: &window.Start, BreakEnd: &window.End}
		if err := s.store.PatchHeader(ctx, session.Header.ID, patch); err != nil {
			serviceLogger(ctx, s.logger, "editor", "persist_break_window", "header_id", session.Header.ID).
				WarnContext(ctx, "break window not persisted", "error", err, "error_kind", ErrorKind(err))
		}
	}

	return nil
}

// AddClass appends an empty row block for a new class. It refuses to operate
// on a grid without a time axis rather than produce a malformed grid.
func (s *EditorService) AddClass(session *EditorSession, name string) error {
	if session == nil || session.Editor == nil {
		return fmt.Errorf("no editing session")
	}

	vErr := &ValidationError{}
	name = strings.TrimSpace(name)
	if name == "" {
		vErr.add("class", "class name is required")
	} else if session.Editor.Grid.HasClass(name) {
		vErr.add("class", "class already exists")
	}
	if len(session.Editor.Grid.Times) == 0 {
		vErr.add("time", "no time slots; generate time slots first")
	}
	if vErr.HasErrors() {
		return vErr
	}

	session.Editor.Grid.AddClass(name)
	session.Editor.Reset()
	session.Dirty = true
	return nil
}

// RemoveClass drops a class and all of its cells from the session grid.
func (s *EditorService) RemoveClass(session *EditorSession, name string) error {
	if session == nil || session.Editor == nil {
		return fmt.Errorf("no editing session")
	}
	if !session.Editor.Grid.HasClass(name) {
		vErr := &ValidationError{}
		vErr.add("class", "class does not exist")
		return vErr
	}
	session.Editor.Grid.RemoveClass(name)
	session.Editor.Reset()
	session.Dirty = true
	return nil
}

// Remove stages a grid cell into the swap box. Malformed transfers are a
// silent no-op, mirroring a corrupted drag payload.
func (e *EditorSession) Remove(transfer timetable.Transfer) bool {
	if e == nil || e.Editor == nil {
		return false
	}
	if e.Editor.RemoveToSwapBox(transfer) {
		e.Dirty = true
		return true
	}
	return false
}

// Place drops a transferred payload onto an empty cell.
func (e *EditorSession) Place(targetIndex int, transfer timetable.Transfer) bool {
	if e == nil || e.Editor == nil {
		return false
	}
	if e.Editor.PlaceAt(targetIndex, transfer) {
		e.Dirty = true
		return true
	}
	return false
}

// ToggleSelect handles one click in selection mode.
func (e *EditorSession) ToggleSelect(index int) bool {
	if e == nil || e.Editor == nil {
		return false
	}
	return e.Editor.ToggleSelect(index)
}

// SwapSelected exchanges the two selected cells.
func (e *EditorSession) SwapSelected() bool {
	if e == nil || e.Editor == nil {
		return false
	}
	if e.Editor.SwapSelected() {
		e.Dirty = true
		return true
	}
	return false
}

// SetCell overwrites one cell's assignment, the edit dialog path.
func (e *EditorSession) SetCell(index int, content timetable.CellContent) bool {
	if e == nil || e.Editor == nil {
		return false
	}
	if e.Editor.SetCell(index, content) {
		e.Dirty = true
		return true
	}
	return false
}

// validateTimeSettings runs every regeneration check before any mutation.
func validateTimeSettings(settings timetable.TimeSettings, vErr *ValidationError) {
	start, startErr := timetable.ParseClock(settings.StartTime)
	if settings.StartTime == "" {
		vErr.add("start_time", "start time is required")
	} else if startErr != nil {
		vErr.add("start_time", "start time must be HH:MM")
	}

	end, endErr := timetable.ParseClock(settings.EndTime)
	if settings.EndTime == "" {
		vErr.add("end_time", "end time is required")
	} else if endErr != nil {
		vErr.add("end_time", "end time must be HH:MM")
	}

	if settings.LectureDuration <= 0 {
		vErr.add("lecture_duration", "lecture duration is required")
	} else if settings.LectureDuration < timetable.MinLectureDuration {
		vErr.add("lecture_duration", fmt.Sprintf("lecture duration must be at least %d minutes", timetable.MinLectureDuration))
	}

	if settings.HasBreak {
		if settings.BreakAfter <= 0 {
			vErr.add("break_after", "break position must be a positive lecture number")
		}
		if settings.BreakDuration <= 0 {
			vErr.add("break_duration", "break duration must be positive")
		}
	}

	if startErr != nil || endErr != nil || vErr.HasErrors() {
		return
	}

	if start >= end {
		vErr.add("time", "start time must be before end time")
		return
	}

	window := end - start
	if settings.HasBreak {
		window -= settings.BreakDuration
	}
	if window < settings.LectureDuration {
		vErr.add("time", "window is too small for a single lecture")
		return
	}

	if settings.HasBreak {
		maxLectures := window / settings.LectureDuration
		if maxLectures < settings.BreakAfter {
			vErr.add("break_after", "break position exceeds the possible lecture count")
		}
	}
}

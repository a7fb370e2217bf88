package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/timetable-console/internal/timetable"
)

type detailStoreStub struct {
	details    []timetable.Cell
	detailsErr error

	replaced   []timetable.Cell
	replaceErr error

	patches  []HeaderPatch
	patchErr error
}

func (s *detailStoreStub) GetDetails(ctx context.Context, headerID string) ([]timetable.Cell, error) {
	if s.detailsErr != nil {
		return nil, s.detailsErr
	}
	out := make([]timetable.Cell, len(s.details))
	copy(out, s.details)
	return out, nil
}

func (s *detailStoreStub) ReplaceDetails(ctx context.Context, headerID string, cells []timetable.Cell) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = cells
	return nil
}

func (s *detailStoreStub) PatchHeader(ctx context.Context, headerID string, patch HeaderPatch) error {
	if s.patchErr != nil {
		return s.patchErr
	}
	s.patches = append(s.patches, patch)
	return nil
}

func sparseDetails() []timetable.Cell {
	return []timetable.Cell{
		{Class: "BSCS-1", Day: "Monday", Time: "08:00-09:00", Course: "Algebra", RoomNumber: "R-1", InstructorName: "Dr. Khan"},
		{Class: "BSCS-1", Day: "Tuesday", Time: "09:00-10:00", Course: "Physics", RoomNumber: "R-2", InstructorName: "Dr. Ali"},
	}
}

func testHeader() TimetableHeader {
	return TimetableHeader{ID: "header-1", InstituteID: "inst-1", Session: "Fall", Year: 2025}
}

func TestEditorService_Begin_MaterializesGrid(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{details: sparseDetails()}
	svc := NewEditorService(store, nil)

	session, err := svc.Begin(context.Background(), testHeader())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	grid := session.Editor.Grid
	if got, want := len(grid.Cells), 1*len(timetable.Weekdays)*2; got != want {
		t.Fatalf("grid size = %d, want %d", got, want)
	}
	if session.Settings.StartTime != "08:00" || session.Settings.LectureDuration != 60 {
		t.Fatalf("derived settings = %+v", session.Settings)
	}
	if session.Dirty {
		t.Fatal("fresh session marked dirty")
	}
}

func TestEditorService_Begin_PropagatesFetchError(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{detailsErr: ErrBackendUnavailable}
	svc := NewEditorService(store, nil)

	if _, err := svc.Begin(context.Background(), testHeader()); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestEditorService_Save_FlattensFullGrid(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{details: sparseDetails()}
	svc := NewEditorService(store, nil)

	session, err := svc.Begin(context.Background(), testHeader())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	session.Dirty = true

	if err := svc.Save(context.Background(), session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got, want := len(store.replaced), len(session.Editor.Grid.Cells); got != want {
		t.Fatalf("replaced %d cells, want %d (empty cells included)", got, want)
	}
	if session.Dirty {
		t.Fatal("session still dirty after save")
	}
}

func TestEditorService_Regenerate_ValidationFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		settings timetable.TimeSettings
		field    string
	}{
		{
			name:     "end before start",
			settings: timetable.TimeSettings{StartTime: "13:00", EndTime: "08:00", LectureDuration: 60},
			field:    "time",
		},
		{
			name:     "end equals start",
			settings: timetable.TimeSettings{StartTime: "08:00", EndTime: "08:00", LectureDuration: 60},
			field:    "time",
		},
		{
			name:     "duration below minimum",
			settings: timetable.TimeSettings{StartTime: "08:00", EndTime: "13:00", LectureDuration: 20},
			field:    "lecture_duration",
		},
		{
			name:     "missing start",
			settings: timetable.TimeSettings{EndTime: "13:00", LectureDuration: 60},
			field:    "start_time",
		},
		{
			name:     "unparsable end",
			settings: timetable.TimeSettings{StartTime: "08:00", EndTime: "late", LectureDuration: 60},
			field:    "end_time",
		},
		{
			name: "break position zero",
			settings: timetable.TimeSettings{
				StartTime: "08:00", EndTime: "13:00", LectureDuration: 60,
				HasBreak: true, BreakDuration: 30,
			},
			field: "break_after",
		},
		{
			name: "break duration zero",
			settings: timetable.TimeSettings{
				StartTime: "08:00", EndTime: "13:00", LectureDuration: 60,
				HasBreak: true, BreakAfter: 2,
			},
			field: "break_duration",
		},
		{
			name:     "window smaller than one lecture",
			settings: timetable.TimeSettings{StartTime: "08:00", EndTime: "08:25", LectureDuration: 30},
			field:    "time",
		},
		{
			name: "break after theoretical maximum",
			settings: timetable.TimeSettings{
				StartTime: "08:00", EndTime: "11:00", LectureDuration: 60,
				HasBreak: true, BreakAfter: 4, BreakDuration: 30,
			},
			field: "break_after",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &detailStoreStub{details: sparseDetails()}
			svc := NewEditorService(store, nil)
			session, err := svc.Begin(context.Background(), testHeader())
			if err != nil {
				t.Fatalf("Begin: %v", err)
			}
			before := session.Editor.Grid.Flatten()

			err = svc.Regenerate(context.Background(), session, tc.settings)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Fatalf("field errors = %v, want %q", vErr.FieldErrors, tc.field)
			}
			for i, cell := range session.Editor.Grid.Cells {
				if cell != before[i] {
					t.Fatalf("grid changed on failed validation at %d", i)
				}
			}
			if len(store.patches) != 0 {
				t.Fatal("header patched despite failed validation")
			}
		})
	}
}

func TestEditorService_Regenerate_RebuildsGridAndPatchesBreakWindow(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{details: sparseDetails()}
	svc := NewEditorService(store, nil)
	session, err := svc.Begin(context.Background(), testHeader())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	settings := timetable.TimeSettings{
		StartTime: "08:00", EndTime: "13:00", LectureDuration: 60,
		HasBreak: true, BreakAfter: 2, BreakDuration: 30,
	}
	if err := svc.Regenerate(context.Background(), session, settings); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	if got, want := len(session.Editor.Grid.Times), 4; got != want {
		t.Fatalf("time axis = %v, want %d slots", session.Editor.Grid.Times, want)
	}
	if !session.Dirty {
		t.Fatal("session not marked dirty")
	}
	if session.Header.BreakStart != "10:00" || session.Header.BreakEnd != "10:30" {
		t.Fatalf("session break window = %q-%q", session.Header.BreakStart, session.Header.BreakEnd)
	}

	if len(store.patches) != 1 {
		t.Fatalf("patches = %d, want 1", len(store.patches))
	}
	patch := store.patches[0]
	if patch.BreakStart == nil || *patch.BreakStart != "10:00" || patch.BreakEnd == nil || *patch.BreakEnd != "10:30" {
		t.Fatalf("patch = %+v, want break window 10:00-10:30", patch)
	}
	if patch.Visibility != nil || patch.CurrentStatus != nil {
		t.Fatalf("patch touched unrelated fields: %+v", patch)
	}
}

func TestEditorService_Regenerate_PatchFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{details: sparseDetails(), patchErr: ErrBackendUnavailable}
	svc := NewEditorService(store, nil)
	session, err := svc.Begin(context.Background(), testHeader())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	settings := timetable.TimeSettings{StartTime: "09:00", EndTime: "12:00", LectureDuration: 60}
	if err := svc.Regenerate(context.Background(), session, settings); err != nil {
		t.Fatalf("Regenerate returned %v, want patch failure swallowed", err)
	}
	if len(session.Editor.Grid.Times) != 3 {
		t.Fatalf("grid not regenerated: %v", session.Editor.Grid.Times)
	}
}

func TestEditorService_Regenerate_PreservesContentByPosition(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{details: sparseDetails()}
	svc := NewEditorService(store, nil)
	session, err := svc.Begin(context.Background(), testHeader())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	settings := timetable.TimeSettings{StartTime: "10:00", EndTime: "12:00", LectureDuration: 60}
	if err := svc.Regenerate(context.Background(), session, settings); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	for _, cell := range session.Editor.Grid.Cells {
		if cell.Day == "Monday" && cell.Time == "10:00-11:00" {
			if cell.Course != "Algebra" {
				t.Fatalf("first Monday lecture = %+v, want Algebra", cell)
			}
			return
		}
	}
	t.Fatal("first Monday slot missing from regenerated grid")
}

func TestEditorService_AddClass(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{details: sparseDetails()}
	svc := NewEditorService(store, nil)
	session, err := svc.Begin(context.Background(), testHeader())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if err := svc.AddClass(session, "BSSE-2"); err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	if !session.Editor.Grid.HasClass("BSSE-2") {
		t.Fatal("class not added")
	}
	if !session.Dirty {
		t.Fatal("session not marked dirty")
	}

	var vErr *ValidationError
	if err := svc.AddClass(session, "BSSE-2"); !errors.As(err, &vErr) {
		t.Fatalf("duplicate class err = %v, want ValidationError", err)
	}
	if err := svc.AddClass(session, "  "); !errors.As(err, &vErr) {
		t.Fatalf("blank class err = %v, want ValidationError", err)
	}
}

func TestEditorService_AddClass_RefusesZeroSlotGrid(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{}
	svc := NewEditorService(store, nil)
	session, err := svc.Begin(context.Background(), testHeader())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	err = svc.AddClass(session, "BSCS-1")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := vErr.FieldErrors["time"]; !ok {
		t.Fatalf("field errors = %v, want time entry", vErr.FieldErrors)
	}
	if len(session.Editor.Grid.Cells) != 0 {
		t.Fatal("grid mutated by refused AddClass")
	}
}

func TestEditorSession_GestureWrappersTrackDirty(t *testing.T) {
	t.Parallel()

	store := &detailStoreStub{details: sparseDetails()}
	svc := NewEditorService(store, nil)
	session, err := svc.Begin(context.Background(), testHeader())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	var source int = -1
	for i, cell := range session.Editor.Grid.Cells {
		if cell.Course == "Algebra" {
			source = i
			break
		}
	}
	if source < 0 {
		t.Fatal("seed cell missing")
	}

	if session.Remove(timetable.Transfer{Source: timetable.TransferFromGrid, Class: "BSCS-1", Index: source}) == false {
		t.Fatal("removal rejected")
	}
	if !session.Dirty {
		t.Fatal("removal did not mark session dirty")
	}

	session.Dirty = false
	if session.Remove(timetable.Transfer{Class: "BSCS-1", Index: source}) {
		t.Fatal("malformed transfer accepted")
	}
	if session.Dirty {
		t.Fatal("no-op gesture marked session dirty")
	}
}

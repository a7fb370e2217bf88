package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/example/timetable-console/internal/timetable"
)

// TimetableStore captures the backend interactions needed for header management.
type TimetableStore interface {
	ListHeaders(ctx context.Context, instituteID string) ([]TimetableHeader, error)
	GetDetails(ctx context.Context, headerID string) ([]timetable.Cell, error)
	PatchHeader(ctx context.Context, headerID string, patch HeaderPatch) error
	DeleteHeader(ctx context.Context, headerID string) error
}

// SnapshotWriter receives successfully fetched data for the offline cache.
// Writes are best-effort: failures are logged and swallowed.
type SnapshotWriter interface {
	SaveHeaders(ctx context.Context, instituteID string, headers []TimetableHeader) error
	SaveDetails(ctx context.Context, headerID string, cells []timetable.Cell) error
}

// HeaderService manages the timetable list screen: listing, selecting, and
// the admin toggles on individual headers.
type HeaderService struct {
	store     TimetableStore
	snapshots SnapshotWriter
	logger    *slog.Logger

	mu         sync.Mutex
	generation uint64
	selectedID string
}

// NewHeaderService wires dependencies for header operations. The snapshot
// writer may be nil when no offline cache is configured.
func NewHeaderService(store TimetableStore, snapshots SnapshotWriter, logger *slog.Logger) *HeaderService {
	return &HeaderService{
		store:     store,
		snapshots: snapshots,
		logger:    defaultLogger(logger),
	}
}

// ListHeaders fetches the institute's headers and re-sorts them for display:
// current-flagged first, then descending by year.
func (s *HeaderService) ListHeaders(ctx context.Context, instituteID string) ([]TimetableHeader, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("header store not configured")
	}

	headers, err := s.store.ListHeaders(ctx, instituteID)
	if err != nil {
		return nil, err
	}

	ordered := make([]TimetableHeader, len(headers))
	copy(ordered, headers)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CurrentStatus != ordered[j].CurrentStatus {
			return ordered[i].CurrentStatus
		}
		return ordered[i].Year > ordered[j].Year
	})

	s.saveHeaderSnapshot(ctx, instituteID, ordered)

	return ordered, nil
}

// SelectHeader fetches the detail set for a header. Each call is tagged with
// a generation; if another selection starts before this one's response
// arrives, the slower response is discarded with ErrStaleResponse.
func (s *HeaderService) SelectHeader(ctx context.Context, headerID string) ([]timetable.Cell, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("header store not configured")
	}

	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	cells, err := s.store.GetDetails(ctx, headerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return nil, ErrStaleResponse
	}
	s.selectedID = headerID
	s.mu.Unlock()

	s.saveDetailSnapshot(ctx, headerID, cells)

	return cells, nil
}

// SelectedHeaderID returns the header whose details were loaded last.
func (s *HeaderService) SelectedHeaderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// SetVisibility toggles whether students and teachers can see the timetable.
// The update is optimistic: a failure is reported to the caller but any
// cached header reference is corrected by the next list refresh.
func (s *HeaderService) SetVisibility(ctx context.Context, headerID string, visible bool) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("header store not configured")
	}
	return s.store.PatchHeader(ctx, headerID, HeaderPatch{Visibility: &visible})
}

// SetCurrent flags or unflags the header as the institute's current timetable.
func (s *HeaderService) SetCurrent(ctx context.Context, headerID string, current bool) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("header store not configured")
	}
	return s.store.PatchHeader(ctx, headerID, HeaderPatch{CurrentStatus: &current})
}

// DeleteHeader removes a generated timetable.
func (s *HeaderService) DeleteHeader(ctx context.Context, headerID string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("header store not configured")
	}
	return s.store.DeleteHeader(ctx, headerID)
}

func (s *HeaderService) saveHeaderSnapshot(ctx context.Context, instituteID string, headers []TimetableHeader) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveHeaders(ctx, instituteID, headers); err != nil {
		serviceLogger(ctx, s.logger, "header", "snapshot_headers", "institute_id", instituteID).
			WarnContext(ctx, "snapshot write failed", "error", err)
	}
}

func (s *HeaderService) saveDetailSnapshot(ctx context.Context, headerID string, cells []timetable.Cell) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveDetails(ctx, headerID, cells); err != nil {
		serviceLogger(ctx, s.logger, "header", "snapshot_details", "header_id", headerID).
			WarnContext(ctx, "snapshot write failed", "error", err)
	}
}

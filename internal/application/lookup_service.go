package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// LookupDirectory exposes the institute-scoped lookup endpoints used to
// populate selection choices in the cell edit dialog.
type LookupDirectory interface {
	ListCourses(ctx context.Context, instituteID string) ([]Course, error)
	ListRooms(ctx context.Context, instituteID string) ([]Room, error)
	ListTeachers(ctx context.Context, instituteID string) ([]Teacher, error)
	ListClasses(ctx context.Context, instituteID string) ([]Class, error)
}

// LookupService fetches and caches dropdown data per institute for the
// lifetime of the console session.
type LookupService struct {
	directory LookupDirectory
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[string]Lookups
}

// NewLookupService wires dependencies for lookup operations.
func NewLookupService(directory LookupDirectory, logger *slog.Logger) *LookupService {
	return &LookupService{
		directory: directory,
		logger:    defaultLogger(logger),
		cache:     make(map[string]Lookups),
	}
}

// Lookups returns the dropdown data for an institute, fetching on first use.
func (s *LookupService) Lookups(ctx context.Context, instituteID string) (Lookups, error) {
	if s == nil || s.directory == nil {
		return Lookups{}, fmt.Errorf("lookup directory not configured")
	}

	s.mu.Lock()
	cached, ok := s.cache[instituteID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	courses, err := s.directory.ListCourses(ctx, instituteID)
	if err != nil {
		return Lookups{}, err
	}
	rooms, err := s.directory.ListRooms(ctx, instituteID)
	if err != nil {
		return Lookups{}, err
	}
	teachers, err := s.directory.ListTeachers(ctx, instituteID)
	if err != nil {
		return Lookups{}, err
	}
	classes, err := s.directory.ListClasses(ctx, instituteID)
	if err != nil {
		return Lookups{}, err
	}

	lookups := Lookups{Courses: courses, Rooms: rooms, Teachers: teachers, Classes: classes}

	s.mu.Lock()
	s.cache[instituteID] = lookups
	s.mu.Unlock()

	return lookups, nil
}

// Invalidate drops the cached lookups for an institute.
func (s *LookupService) Invalidate(instituteID string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.cache, instituteID)
	s.mu.Unlock()
}

// Package backend implements the REST client for the timetable backend. It
// satisfies the data-access interfaces consumed by the application services
// so the editing logic never touches the network directly.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/logging"
	"github.com/example/timetable-console/internal/timetable"
)

// Options configures the client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *slog.Logger

	// HTTPClient overrides the default transport, used by tests.
	HTTPClient *http.Client
	// Now overrides the clock used for token expiry checks.
	Now func() time.Time
	// NewRequestID overrides request ID generation.
	NewRequestID func() string
}

// Client talks to the timetable backend. All methods map HTTP failures onto
// the application error taxonomy.
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
	newRequestID func() string
}

// New constructs a client from options, applying defaults for optional fields.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newRequestID := opts.NewRequestID
	if newRequestID == nil {
		newRequestID = uuid.NewString
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		token:        opts.Token,
		httpClient:   httpClient,
		logger:       logger,
		now:          now,
		newRequestID: newRequestID,
	}
}

// ListHeaders fetches the institute's timetable headers.
func (c *Client) ListHeaders(ctx context.Context, instituteID string) ([]application.TimetableHeader, error) {
	var wire []headerWire
	path := fmt.Sprintf("/institutes/%s/timetables", url.PathEscape(instituteID))
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	headers := make([]application.TimetableHeader, 0, len(wire))
	for _, h := range wire {
		headers = append(headers, h.toHeader())
	}
	return headers, nil
}

// GetDetails fetches the sparse detail set for a header.
func (c *Client) GetDetails(ctx context.Context, headerID string) ([]timetable.Cell, error) {
	var wire []cellWire
	path := fmt.Sprintf("/timetables/%s/details", url.PathEscape(headerID))
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	cells := make([]timetable.Cell, 0, len(wire))
	for _, w := range wire {
		cells = append(cells, w.toCell())
	}
	return cells, nil
}

// ReplaceDetails persists the full edited grid, empty cells included, as the
// header's new detail set.
func (c *Client) ReplaceDetails(ctx context.Context, headerID string, cells []timetable.Cell) error {
	wire := make([]cellWire, 0, len(cells))
	for _, cell := range cells {
		wire = append(wire, toCellWire(cell))
	}
	path := fmt.Sprintf("/timetables/%s/details", url.PathEscape(headerID))
	return c.do(ctx, http.MethodPut, path, wire, nil)
}

// PatchHeader applies a partial header update; nil fields are omitted from
// the request body and left unchanged server-side.
func (c *Client) PatchHeader(ctx context.Context, headerID string, patch application.HeaderPatch) error {
	body := headerPatchWire{
		Visibility:    patch.Visibility,
		CurrentStatus: patch.CurrentStatus,
		BreakStart:    patch.BreakStart,
		BreakEnd:      patch.BreakEnd,
	}
	path := fmt.Sprintf("/timetables/%s", url.PathEscape(headerID))
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// DeleteHeader removes a generated timetable.
func (c *Client) DeleteHeader(ctx context.Context, headerID string) error {
	path := fmt.Sprintf("/timetables/%s", url.PathEscape(headerID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListCourses fetches the course lookup for dropdowns.
func (c *Client) ListCourses(ctx context.Context, instituteID string) ([]application.Course, error) {
	var wire []courseWire
	path := fmt.Sprintf("/institutes/%s/courses", url.PathEscape(instituteID))
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	courses := make([]application.Course, 0, len(wire))
	for _, w := range wire {
		courses = append(courses, application.Course{ID: w.ID, Name: w.Name})
	}
	return courses, nil
}

// ListRooms fetches the room lookup for dropdowns.
func (c *Client) ListRooms(ctx context.Context, instituteID string) ([]application.Room, error) {
	var wire []roomWire
	path := fmt.Sprintf("/institutes/%s/rooms", url.PathEscape(instituteID))
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(wire))
	for _, w := range wire {
		rooms = append(rooms, application.Room{ID: w.ID, Number: w.Number})
	}
	return rooms, nil
}

// ListTeachers fetches institute users filtered to teachers.
func (c *Client) ListTeachers(ctx context.Context, instituteID string) ([]application.Teacher, error) {
	var wire []teacherWire
	path := fmt.Sprintf("/institutes/%s/users?role=teacher", url.PathEscape(instituteID))
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	teachers := make([]application.Teacher, 0, len(wire))
	for _, w := range wire {
		teachers = append(teachers, application.Teacher{ID: w.ID, Name: w.Name})
	}
	return teachers, nil
}

// ListClasses fetches the institute's class lookup.
func (c *Client) ListClasses(ctx context.Context, instituteID string) ([]application.Class, error) {
	var wire []classWire
	path := fmt.Sprintf("/institutes/%s/classes", url.PathEscape(instituteID))
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	classes := make([]application.Class, 0, len(wire))
	for _, w := range wire {
		classes = append(classes, application.Class{ID: w.ID, Name: w.Name})
	}
	return classes, nil
}

// GetProfile fetches the institute account.
func (c *Client) GetProfile(ctx context.Context, instituteID string) (application.Profile, error) {
	var wire profileWire
	path := fmt.Sprintf("/institutes/%s/profile", url.PathEscape(instituteID))
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return application.Profile{}, err
	}
	return wire.toProfile(instituteID), nil
}

// UpdateProfile submits the profile form and returns the stored result.
func (c *Client) UpdateProfile(ctx context.Context, instituteID string, input application.ProfileInput) (application.Profile, error) {
	body := profileWire{Name: input.Name, Email: input.Email, Phone: input.Phone, Address: input.Address}
	var wire profileWire
	path := fmt.Sprintf("/institutes/%s/profile", url.PathEscape(instituteID))
	if err := c.do(ctx, http.MethodPut, path, body, &wire); err != nil {
		return application.Profile{}, err
	}
	return wire.toProfile(instituteID), nil
}

// ChangePassword submits a password change.
func (c *Client) ChangePassword(ctx context.Context, instituteID string, current, updated string) error {
	body := passwordWire{CurrentPassword: current, NewPassword: updated}
	path := fmt.Sprintf("/institutes/%s/password", url.PathEscape(instituteID))
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.httpClient == nil {
		return fmt.Errorf("backend client not configured")
	}
	if err := c.checkToken(); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := c.newRequestID()
	req.Header.Set("X-Request-ID", requestID)

	logger := c.requestLogger(ctx, method, path, requestID)
	started := c.now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "backend request failed", "error", err)
		return fmt.Errorf("%w: %v", application.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	logger.DebugContext(ctx, "backend request completed",
		"status", resp.StatusCode,
		"duration_ms", c.now().Sub(started).Milliseconds())

	if resp.StatusCode >= 400 {
		return mapStatusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

func (c *Client) requestLogger(ctx context.Context, method, path, requestID string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = c.logger
	}
	return logger.With("method", method, "path", path, "request_id", requestID)
}

func mapStatusError(resp *http.Response) error {
	message := decodeErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return application.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return application.ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", application.ErrBackendUnavailable, resp.StatusCode)
	default:
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("backend: %s", message)
	}
}

func decodeErrorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

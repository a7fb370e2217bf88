package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/timetable"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Options{
		BaseURL:      server.URL,
		Token:        "opaque-token",
		HTTPClient:   server.Client(),
		NewRequestID: func() string { return "req-1" },
	})
	return client, server
}

func TestClient_ListHeaders(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/institutes/inst-1/timetables" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer opaque-token" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("X-Request-ID"); got != "req-1" {
			t.Errorf("request id = %q", got)
		}
		io.WriteString(w, `[
			{"id":"h-1","institute_id":"inst-1","session":"Fall","year":2025,"current_status":true,"visibility":false,"created_at":"2025-09-01T10:00:00Z"}
		]`)
	})

	headers, err := client.ListHeaders(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("ListHeaders: %v", err)
	}
	if len(headers) != 1 {
		t.Fatalf("headers = %+v", headers)
	}
	header := headers[0]
	if header.ID != "h-1" || header.Session != "Fall" || header.Year != 2025 || !header.CurrentStatus || header.Visibility {
		t.Fatalf("header = %+v", header)
	}
	if header.CreatedAt.IsZero() {
		t.Fatal("created_at not parsed")
	}
}

func TestClient_GetDetails(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timetables/h-1/details" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `[
			{"class":"BSCS-1","day":"Monday","time":"08:00-09:00","course":"Algebra","room_number":"R-1","instructor_name":"Dr. Khan","break_start":"10:00","break_end":"10:30"}
		]`)
	})

	cells, err := client.GetDetails(context.Background(), "h-1")
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	want := timetable.Cell{
		Class: "BSCS-1", Day: "Monday", Time: "08:00-09:00",
		Course: "Algebra", RoomNumber: "R-1", InstructorName: "Dr. Khan",
		BreakStart: "10:00", BreakEnd: "10:30",
	}
	if len(cells) != 1 || cells[0] != want {
		t.Fatalf("cells = %+v, want %+v", cells, want)
	}
}

func TestClient_ReplaceDetails_SendsEveryCell(t *testing.T) {
	t.Parallel()

	var received []cellWire
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/timetables/h-1/details" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	cells := []timetable.Cell{
		{Class: "BSCS-1", Day: "Monday", Time: "08:00-09:00", Course: "Algebra"},
		{Class: "BSCS-1", Day: "Monday", Time: "09:00-10:00"}, // empty cells included
	}
	if err := client.ReplaceDetails(context.Background(), "h-1", cells); err != nil {
		t.Fatalf("ReplaceDetails: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("received %d cells, want 2", len(received))
	}
	if received[1].Course != "" {
		t.Fatalf("empty cell mangled: %+v", received[1])
	}
}

func TestClient_PatchHeader_OmitsUnsetFields(t *testing.T) {
	t.Parallel()

	var raw map[string]json.RawMessage
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/timetables/h-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	visible := true
	if err := client.PatchHeader(context.Background(), "h-1", application.HeaderPatch{Visibility: &visible}); err != nil {
		t.Fatalf("PatchHeader: %v", err)
	}

	if _, ok := raw["visibility"]; !ok {
		t.Fatalf("body = %v, want visibility", raw)
	}
	for _, field := range []string{"current_status", "break_start", "break_end"} {
		if _, ok := raw[field]; ok {
			t.Fatalf("unset field %q sent: %v", field, raw)
		}
	}
}

func TestClient_StatusErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, application.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{}`, application.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{}`, application.ErrNotFound},
		{"server error", http.StatusInternalServerError, `{}`, application.ErrBackendUnavailable},
		{"bad gateway", http.StatusBadGateway, `{}`, application.ErrBackendUnavailable},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})

			err := client.DeleteHeader(context.Background(), "h-1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestClient_ClientErrorCarriesBackendMessage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message":"year is required"}`)
	})

	err := client.DeleteHeader(context.Background(), "h-1")
	if err == nil || err.Error() != "backend: year is required" {
		t.Fatalf("err = %v, want backend message", err)
	}
}

func TestClient_ConnectionFailureIsBackendUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := New(Options{BaseURL: server.URL, HTTPClient: server.Client()})
	server.Close()

	_, err := client.ListHeaders(context.Background(), "inst-1")
	if !errors.Is(err, application.ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestClient_ExpiredTokenShortCircuits(t *testing.T) {
	t.Parallel()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	t.Cleanup(server.Close)

	client := New(Options{BaseURL: server.URL, Token: signed, HTTPClient: server.Client()})

	_, err = client.ListHeaders(context.Background(), "inst-1")
	if !errors.Is(err, application.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if requests != 0 {
		t.Fatalf("backend hit %d times, want short circuit", requests)
	}
}

func TestClient_UnexpiredJWTPassesThrough(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	client.token = signed

	if _, err := client.ListHeaders(context.Background(), "inst-1"); err != nil {
		t.Fatalf("ListHeaders: %v", err)
	}
}

func TestClient_ChangePasswordBody(t *testing.T) {
	t.Parallel()

	var body passwordWire
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/institutes/inst-1/password" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.ChangePassword(context.Background(), "inst-1", "old", "new-secret-1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if body.CurrentPassword != "old" || body.NewPassword != "new-secret-1" {
		t.Fatalf("body = %+v", body)
	}
}

func TestClient_ListTeachersFiltersByRole(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/institutes/inst-1/users" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("role"); got != "teacher" {
			t.Errorf("role = %q", got)
		}
		io.WriteString(w, `[{"id":"t-1","name":"Dr. Khan"}]`)
	})

	teachers, err := client.ListTeachers(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("ListTeachers: %v", err)
	}
	if len(teachers) != 1 || teachers[0].Name != "Dr. Khan" {
		t.Fatalf("teachers = %+v", teachers)
	}
}

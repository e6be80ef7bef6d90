package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Germanaz0/phpconfar/internal/app"
	"github.com/Germanaz0/phpconfar/internal/domain"
)

func TestHandleImport(t *testing.T) {
	t.Parallel()

	cfg := app.ImportConfig{URLs: map[domain.Source]string{domain.SourceEvenbrite: "http://feed.test"}}
	summary := domain.ImportSummary{
		Imported: 2,
		Ignored:  1,
		Sources: map[domain.Source]domain.SourceSummary{
			domain.SourceEvenbrite: {Fetched: 3, Imported: 2, Ignored: 1},
		},
	}

	tests := []struct {
		name           string
		method         string
		cfg            app.ImportConfig
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			method:         http.MethodPost,
			cfg:            cfg,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"imported":2,"ignored":1`,
		},
		{
			name:           "wrong method",
			method:         http.MethodGet,
			cfg:            cfg,
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "no sources",
			method:         http.MethodPost,
			expectedStatus: http.StatusServiceUnavailable,
			expectedSubstr: codeNoSourcesConfigured,
		},
		{
			name:           "store failure",
			method:         http.MethodPost,
			cfg:            cfg,
			serviceErr:     errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAttendeeService{summary: summary, err: tt.serviceErr}
			req := httptest.NewRequest(tt.method, "/admin/import", nil)
			rec := httptest.NewRecorder()

			HandleImport(svc, tt.cfg).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		rows           []domain.Attendee
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "matches",
			rows:           []domain.Attendee{{ID: 1, Code: "A199001", Role: domain.RoleAttendee}},
			expectedStatus: http.StatusOK,
			expectedBody:   `"code":"A199001"`,
		},
		{
			name:           "blank query",
			rows:           []domain.Attendee{},
			expectedStatus: http.StatusOK,
			expectedBody:   "[]",
		},
		{
			name:           "no match",
			serviceErr:     domain.ErrNoMatch,
			expectedStatus: http.StatusNotFound,
			expectedBody:   codeNoMatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAttendeeService{rows: tt.rows, err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodGet, "/attendees/search?q=ana", nil)
			rec := httptest.NewRecorder()

			HandleSearch(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
			if svc.lastSearch != "ana" {
				t.Fatalf("expected search text forwarded, got %q", svc.lastSearch)
			}
		})
	}
}

func TestHandleEligible_Projection(t *testing.T) {
	t.Parallel()

	svc := &stubAttendeeService{rows: []domain.Attendee{
		{ID: 7, Code: "EZ-1", Email: "bo@example.com", FirstName: "Bo", Role: domain.RoleAttendee},
	}}
	req := httptest.NewRequest(http.MethodGet, "/attendees/eligible?fields=code,email&limit=5", nil)
	rec := httptest.NewRecorder()

	HandleEligible(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.lastOpts.Limit != 5 || len(svc.lastOpts.Fields) != 2 {
		t.Fatalf("unexpected options forwarded: %+v", svc.lastOpts)
	}

	var got []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || len(got[0]) != 2 || got[0]["code"] != "EZ-1" || got[0]["email"] != "bo@example.com" {
		t.Fatalf("expected only code and email, got %v", got)
	}
}

func TestHandleEligible_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		code string
	}{
		{name: "unknown field", url: "/attendees/eligible?fields=password", code: codeInvalidField},
		{name: "bad limit", url: "/attendees/eligible?limit=ten", code: codeInvalidLimit},
		{name: "negative limit", url: "/attendees/eligible?limit=-1", code: codeInvalidLimit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			HandleEligible(&stubAttendeeService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.code) {
				t.Fatalf("expected code %q, got %q", tt.code, rec.Body.String())
			}
		})
	}
}

func TestHandleByRole(t *testing.T) {
	t.Parallel()

	svc := &stubAttendeeService{rows: []domain.Attendee{{ID: 3, Code: "S1", Role: domain.RoleSpeaker}}}
	req := httptest.NewRequest(http.MethodGet, "/attendees/roles?role=speaker,organizer&role=Speaker", nil)
	rec := httptest.NewRecorder()

	HandleByRole(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if len(svc.lastRoles) != 2 || svc.lastRoles[0] != domain.RoleSpeaker || svc.lastRoles[1] != domain.RoleOrganizer {
		t.Fatalf("unexpected roles forwarded: %v", svc.lastRoles)
	}
}

func TestHandleLookup(t *testing.T) {
	t.Parallel()

	found := &stubAttendeeService{one: &domain.Attendee{ID: 1, Code: "EZ-1", Source: domain.SourceEventioz}}
	rec := httptest.NewRecorder()
	HandleLookup(found).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendees/lookup?code=EZ-1&source=eventioz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if found.lastSource != domain.SourceEventioz {
		t.Fatalf("expected source forwarded, got %q", found.lastSource)
	}

	rec = httptest.NewRecorder()
	HandleLookup(&stubAttendeeService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendees/lookup?code=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HandleLookup(&stubAttendeeService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendees/lookup", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleRaffle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		url            string
		winner         *domain.Attendee
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "winner",
			method:         http.MethodPost,
			url:            "/raffle?role=attendee",
			winner:         &domain.Attendee{ID: 9, Code: "A199002", FirstName: "Ana"},
			expectedStatus: http.StatusOK,
			expectedSubstr: `"code":"A199002"`,
		},
		{
			name:           "no candidates",
			method:         http.MethodPost,
			url:            "/raffle?role=speaker",
			expectedStatus: http.StatusNotFound,
			expectedSubstr: codeNoCandidates,
		},
		{
			name:           "roles required",
			method:         http.MethodPost,
			url:            "/raffle",
			serviceErr:     domain.ErrRolesRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeRolesRequired,
		},
		{
			name:           "wrong method",
			method:         http.MethodGet,
			url:            "/raffle?role=attendee",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAttendeeService{one: tt.winner, err: tt.serviceErr}
			rec := httptest.NewRecorder()

			HandleRaffle(svc).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.url, nil))

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleTickets(t *testing.T) {
	t.Parallel()

	svc := &stubAttendeeService{rows: []domain.Attendee{{ID: 1, Code: "A"}, {ID: 2, Code: "B"}}}
	rec := httptest.NewRecorder()
	HandleTickets(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendees", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var got []attendeeResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(got))
	}
}

type stubAttendeeService struct {
	summary domain.ImportSummary
	rows    []domain.Attendee
	one     *domain.Attendee
	err     error

	lastSearch string
	lastSource domain.Source
	lastRoles  []domain.Role
	lastOpts   domain.ListOptions
}

func (s *stubAttendeeService) Import(_ context.Context, _ app.ImportConfig) (domain.ImportSummary, error) {
	return s.summary, s.err
}

func (s *stubAttendeeService) FindOneByCode(_ context.Context, _ string, src domain.Source) (*domain.Attendee, error) {
	s.lastSource = src
	return s.one, s.err
}

func (s *stubAttendeeService) Tickets(_ context.Context) ([]domain.Attendee, error) {
	return s.rows, s.err
}

func (s *stubAttendeeService) FindTicket(_ context.Context, search string) ([]domain.Attendee, error) {
	s.lastSearch = search
	return s.rows, s.err
}

func (s *stubAttendeeService) Eligible(_ context.Context, opts domain.ListOptions) ([]domain.Attendee, error) {
	s.lastOpts = opts
	return s.rows, s.err
}

func (s *stubAttendeeService) FindByRole(_ context.Context, roles []domain.Role, opts domain.ListOptions) ([]domain.Attendee, error) {
	s.lastRoles = roles
	s.lastOpts = opts
	return s.rows, s.err
}

func (s *stubAttendeeService) Raffle(_ context.Context, _ []domain.Role) (*domain.Attendee, error) {
	return s.one, s.err
}

package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Germanaz0/phpconfar/internal/app"
	"github.com/Germanaz0/phpconfar/internal/domain"
)

// AttendeeService is the surface the attendee endpoints need.
type AttendeeService interface {
	Import(ctx context.Context, cfg app.ImportConfig) (domain.ImportSummary, error)
	FindOneByCode(ctx context.Context, code string, src domain.Source) (*domain.Attendee, error)
	Tickets(ctx context.Context) ([]domain.Attendee, error)
	FindTicket(ctx context.Context, search string) ([]domain.Attendee, error)
	Eligible(ctx context.Context, opts domain.ListOptions) ([]domain.Attendee, error)
	FindByRole(ctx context.Context, roles []domain.Role, opts domain.ListOptions) ([]domain.Attendee, error)
	Raffle(ctx context.Context, roles []domain.Role) (*domain.Attendee, error)
}

// HandleImport runs an import against the configured feed URLs.
func HandleImport(svc AttendeeService, cfg app.ImportConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if len(cfg.URLs) == 0 {
			writeError(w, http.StatusServiceUnavailable, codeNoSourcesConfigured, "no ticket sources configured")
			return
		}

		summary, err := svc.Import(r.Context(), cfg)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := importResponse{
			Imported: summary.Imported,
			Ignored:  summary.Ignored,
			Sources:  make(map[string]sourceSummaryResponse, len(summary.Sources)),
		}
		for src, s := range summary.Sources {
			resp.Sources[string(src)] = sourceSummaryResponse{
				Fetched:  s.Fetched,
				Imported: s.Imported,
				Ignored:  s.Ignored,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleTickets lists every attendee that is not soft-deleted.
func HandleTickets(svc AttendeeService) http.HandlerFunc {
	return getOnly(func(w http.ResponseWriter, r *http.Request) {
		tickets, err := svc.Tickets(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttendeeResponses(tickets, nil))
	})
}

// HandleSearch serves free-text search over code, email and names.
// A blank query returns an empty list; no match is a 404.
func HandleSearch(svc AttendeeService) http.HandlerFunc {
	return getOnly(func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.FindTicket(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttendeeResponses(found, nil))
	})
}

func HandleLookup(svc AttendeeService) http.HandlerFunc {
	return getOnly(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		code := strings.TrimSpace(q.Get("code"))
		if code == "" {
			writeError(w, http.StatusBadRequest, codeCodeRequired, "code is required")
			return
		}

		a, err := svc.FindOneByCode(r.Context(), code, domain.Source(strings.TrimSpace(q.Get("source"))))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if a == nil {
			writeError(w, http.StatusNotFound, codeAttendeeNotFound, "attendee not found")
			return
		}
		writeJSON(w, http.StatusOK, toAttendeeResponse(*a, nil))
	})
}

func HandleEligible(svc AttendeeService) http.HandlerFunc {
	return getOnly(func(w http.ResponseWriter, r *http.Request) {
		opts, err := parseListOptions(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		rows, err := svc.Eligible(r.Context(), opts)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttendeeResponses(rows, opts.Fields))
	})
}

func HandleByRole(svc AttendeeService) http.HandlerFunc {
	return getOnly(func(w http.ResponseWriter, r *http.Request) {
		roles, err := parseRoles(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		opts, err := parseListOptions(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		rows, err := svc.FindByRole(r.Context(), roles, opts)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttendeeResponses(rows, opts.Fields))
	})
}

// HandleRaffle draws one random attendee among the requested roles.
func HandleRaffle(svc AttendeeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		roles, err := parseRoles(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		winner, err := svc.Raffle(r.Context(), roles)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if winner == nil {
			writeError(w, http.StatusNotFound, codeNoCandidates, "no attendees match the requested roles")
			return
		}
		writeJSON(w, http.StatusOK, toAttendeeResponse(*winner, nil))
	}
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		next(w, r)
	}
}

// splitParam collects a repeatable, comma-separated query parameter.
func splitParam(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseRoles(r *http.Request) ([]domain.Role, error) {
	return domain.ParseRoles(splitParam(r, "role"))
}

func parseListOptions(r *http.Request) (domain.ListOptions, error) {
	fields, err := domain.ParseFields(splitParam(r, "fields"))
	if err != nil {
		return domain.ListOptions{}, err
	}
	opts := domain.ListOptions{Fields: fields}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return domain.ListOptions{}, domain.ErrInvalidLimit
		}
		opts.Limit = n
	}
	return opts, nil
}

type importResponse struct {
	Imported int                              `json:"imported"`
	Ignored  int                              `json:"ignored"`
	Sources  map[string]sourceSummaryResponse `json:"sources"`
}

type sourceSummaryResponse struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
	Ignored  int `json:"ignored"`
}

type attendeeResponse struct {
	ID         int64      `json:"id,omitempty"`
	Code       string     `json:"code,omitempty"`
	Source     string     `json:"source,omitempty"`
	Email      string     `json:"email,omitempty"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	Role       string     `json:"role,omitempty"`
	ImportedAt *time.Time `json:"imported_at,omitempty"`
}

// toAttendeeResponse copies the projected fields of a; nil fields means all.
func toAttendeeResponse(a domain.Attendee, fields []domain.Field) attendeeResponse {
	if len(fields) == 0 {
		fields = domain.AllFields
	}
	var resp attendeeResponse
	for _, f := range fields {
		switch f {
		case domain.FieldID:
			resp.ID = a.ID
		case domain.FieldCode:
			resp.Code = a.Code
		case domain.FieldSource:
			resp.Source = string(a.Source)
		case domain.FieldEmail:
			resp.Email = a.Email
		case domain.FieldFirstName:
			resp.FirstName = a.FirstName
		case domain.FieldLastName:
			resp.LastName = a.LastName
		case domain.FieldRole:
			resp.Role = string(a.Role)
		case domain.FieldImportedAt:
			if !a.ImportedAt.IsZero() {
				t := a.ImportedAt
				resp.ImportedAt = &t
			}
		}
	}
	return resp
}

func toAttendeeResponses(rows []domain.Attendee, fields []domain.Field) []attendeeResponse {
	resp := make([]attendeeResponse, 0, len(rows))
	for _, a := range rows {
		resp = append(resp, toAttendeeResponse(a, fields))
	}
	return resp
}

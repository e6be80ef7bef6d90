package app

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/Germanaz0/phpconfar/internal/clock"
	"github.com/Germanaz0/phpconfar/internal/domain"
	"github.com/Germanaz0/phpconfar/internal/metrics"
	"github.com/Germanaz0/phpconfar/internal/source"
)

type AttendeeRepository interface {
	FindOneByCode(ctx context.Context, code string, src domain.Source) (*domain.Attendee, error)
	CreateAttendee(ctx context.Context, attendee domain.Attendee) (int64, error)
	ListTickets(ctx context.Context) ([]domain.Attendee, error)
	Search(ctx context.Context, tokens []string) ([]domain.Attendee, error)
	FindByRole(ctx context.Context, roles []domain.Role, opts domain.ListOptions) ([]domain.Attendee, error)
	RandomByRole(ctx context.Context, roles []domain.Role) (*domain.Attendee, error)
}

// Fetcher retrieves a raw feed payload.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type AttendeeService struct {
	repo    AttendeeRepository
	fetcher Fetcher
	clock   clock.Clock
	feeds   []source.Feed
	logger  *log.Logger
	metrics *metrics.Import
}

func NewAttendeeService(repo AttendeeRepository, fetcher Fetcher, clk clock.Clock, opts ...AttendeeServiceOption) *AttendeeService {
	svc := &AttendeeService{
		repo:    repo,
		fetcher: fetcher,
		clock:   clk,
		feeds:   source.Feeds(),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type AttendeeServiceOption func(*AttendeeService)

// WithLogger sets the logger used to report swallowed feed failures.
func WithLogger(logger *log.Logger) AttendeeServiceOption {
	return func(s *AttendeeService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records import counters on m.
func WithMetrics(m *metrics.Import) AttendeeServiceOption {
	return func(s *AttendeeService) {
		s.metrics = m
	}
}

// WithFeeds replaces the default feed list.
func WithFeeds(feeds ...source.Feed) AttendeeServiceOption {
	return func(s *AttendeeService) {
		s.feeds = feeds
	}
}

// ImportConfig maps each feed to the URL its payload is fetched from.
// Feeds without a URL are skipped.
type ImportConfig struct {
	URLs map[domain.Source]string
}

// Import pulls every configured feed and inserts tickets whose
// (code, source) pair is not stored yet. Feed failures count as an empty
// feed; only store errors are returned.
func (s *AttendeeService) Import(ctx context.Context, cfg ImportConfig) (domain.ImportSummary, error) {
	summary := domain.ImportSummary{Sources: make(map[domain.Source]domain.SourceSummary)}
	now := s.clock.Now()

	for _, feed := range s.feeds {
		url := strings.TrimSpace(cfg.URLs[feed.Source])
		if url == "" {
			continue
		}

		tickets := s.fetchFeed(ctx, feed, url)
		feedSummary := domain.SourceSummary{Fetched: len(tickets)}

		for _, ticket := range tickets {
			existing, err := s.repo.FindOneByCode(ctx, ticket.Code, ticket.Source)
			if err != nil {
				return summary, err
			}
			if existing != nil {
				feedSummary.Ignored++
				continue
			}

			ticket.ImportedAt = now
			if _, err := s.repo.CreateAttendee(ctx, ticket); err != nil {
				// Lost a race with a concurrent import.
				if errors.Is(err, domain.ErrDuplicateAttendee) {
					feedSummary.Ignored++
					continue
				}
				return summary, err
			}
			feedSummary.Imported++
		}

		summary.Imported += feedSummary.Imported
		summary.Ignored += feedSummary.Ignored
		summary.Sources[feed.Source] = feedSummary
		s.record(feed.Source, feedSummary)
	}

	s.logger.Printf("import finished imported=%d ignored=%d", summary.Imported, summary.Ignored)
	return summary, nil
}

func (s *AttendeeService) fetchFeed(ctx context.Context, feed source.Feed, url string) []domain.Attendee {
	payload, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Printf("WARN: import source=%s: %v", feed.Source, err)
		s.recordFailure(feed.Source)
		return nil
	}
	tickets, err := feed.Decode(payload)
	if err != nil {
		s.logger.Printf("WARN: import source=%s: %v", feed.Source, err)
		s.recordFailure(feed.Source)
		return nil
	}
	return tickets
}

func (s *AttendeeService) record(src domain.Source, sum domain.SourceSummary) {
	if s.metrics == nil {
		return
	}
	s.metrics.Imported.WithLabelValues(string(src)).Add(float64(sum.Imported))
	s.metrics.Ignored.WithLabelValues(string(src)).Add(float64(sum.Ignored))
}

func (s *AttendeeService) recordFailure(src domain.Source) {
	if s.metrics == nil {
		return
	}
	s.metrics.FetchErrors.WithLabelValues(string(src)).Inc()
}

// FindOneByCode returns the attendee holding code, or nil when none does.
// An empty src matches any source.
func (s *AttendeeService) FindOneByCode(ctx context.Context, code string, src domain.Source) (*domain.Attendee, error) {
	return s.repo.FindOneByCode(ctx, code, src)
}

// Tickets lists every attendee that has not been soft-deleted.
func (s *AttendeeService) Tickets(ctx context.Context) ([]domain.Attendee, error) {
	return s.repo.ListTickets(ctx)
}

// FindTicket matches each whitespace-separated word against code, email and
// names. Blank input returns an empty list; no rows returns ErrNoMatch.
func (s *AttendeeService) FindTicket(ctx context.Context, search string) ([]domain.Attendee, error) {
	tokens := strings.Fields(search)
	if len(tokens) == 0 {
		return []domain.Attendee{}, nil
	}

	found, err := s.repo.Search(ctx, tokens)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.ErrNoMatch
	}
	return found, nil
}

// Eligible lists attendees with the plain attendee role.
func (s *AttendeeService) Eligible(ctx context.Context, opts domain.ListOptions) ([]domain.Attendee, error) {
	return s.FindByRole(ctx, []domain.Role{domain.RoleAttendee}, opts)
}

func (s *AttendeeService) FindByRole(ctx context.Context, roles []domain.Role, opts domain.ListOptions) ([]domain.Attendee, error) {
	if len(roles) == 0 {
		return nil, domain.ErrRolesRequired
	}
	if err := validateListOptions(opts); err != nil {
		return nil, err
	}
	s.warnCustomRoles(roles)
	return s.repo.FindByRole(ctx, roles, opts)
}

// Raffle picks one random attendee among roles, or nil when none match.
func (s *AttendeeService) Raffle(ctx context.Context, roles []domain.Role) (*domain.Attendee, error) {
	if len(roles) == 0 {
		return nil, domain.ErrRolesRequired
	}
	s.warnCustomRoles(roles)
	return s.repo.RandomByRole(ctx, roles)
}

// warnCustomRoles logs filters on roles outside the predefined set, which
// usually means a typo in the request.
func (s *AttendeeService) warnCustomRoles(roles []domain.Role) {
	for _, r := range roles {
		if !r.Known() {
			s.logger.Printf("WARN: filtering on custom role %q", r)
		}
	}
}

func validateListOptions(opts domain.ListOptions) error {
	if opts.Limit < 0 {
		return domain.ErrInvalidLimit
	}
	for _, f := range opts.Fields {
		if !f.Valid() {
			return domain.ErrInvalidField
		}
	}
	return nil
}

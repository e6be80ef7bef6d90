// Package sqlite provides a SQLite-backed attendee store for single-host
// deployments and local runs.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Germanaz0/phpconfar/internal/domain"
	"github.com/Germanaz0/phpconfar/internal/storage/query"
	"github.com/Germanaz0/phpconfar/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

func init() {
	msqlite.MustRegisterDeterministicScalarFunction(query.FoldFunc, 1, fold)
}

// fold lowercases text with Unicode case mapping; SQLite's lower() only
// handles ASCII.
func fold(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Store persists attendees in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) FindOneByCode(ctx context.Context, code string, src domain.Source) (*domain.Attendee, error) {
	q := query.NewSelect(query.SQLite).Eq(domain.FieldCode, code)
	if src != "" {
		q.Eq(domain.FieldSource, string(src))
	}
	a, err := s.one(ctx, q.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("find attendee by code: %w", err)
	}
	return a, nil
}

func (s *Store) CreateAttendee(ctx context.Context, attendee domain.Attendee) (int64, error) {
	stmt, args := query.Insert(query.SQLite, attendee)
	var id int64
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateAttendee
		}
		return 0, fmt.Errorf("create attendee: %w", err)
	}
	return id, nil
}

func (s *Store) ListTickets(ctx context.Context) ([]domain.Attendee, error) {
	q := query.NewSelect(query.SQLite).
		NotEq(domain.FieldRole, string(domain.RoleDeleted)).
		OrderBy(domain.FieldID, domain.FieldFirstName, domain.FieldLastName)
	tickets, err := s.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *Store) Search(ctx context.Context, tokens []string) ([]domain.Attendee, error) {
	found, err := s.list(ctx, query.NewSelect(query.SQLite).ContainsAny(query.SearchFields, tokens))
	if err != nil {
		return nil, fmt.Errorf("search attendees: %w", err)
	}
	return found, nil
}

func (s *Store) FindByRole(ctx context.Context, roles []domain.Role, opts domain.ListOptions) ([]domain.Attendee, error) {
	q := query.NewSelect(query.SQLite, opts.Fields...).
		In(domain.FieldRole, query.RoleArgs(roles)...).
		Limit(opts.Limit)
	found, err := s.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find attendees by role: %w", err)
	}
	return found, nil
}

func (s *Store) RandomByRole(ctx context.Context, roles []domain.Role) (*domain.Attendee, error) {
	q := query.NewSelect(query.SQLite).
		In(domain.FieldRole, query.RoleArgs(roles)...).
		OrderRandom().
		Limit(1)
	a, err := s.one(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("raffle attendee: %w", err)
	}
	return a, nil
}

func (s *Store) one(ctx context.Context, q *query.Select) (*domain.Attendee, error) {
	stmt, args := q.Build()
	var a domain.Attendee
	err := s.db.QueryRowContext(ctx, stmt, args...).Scan(query.Targets(&a, q.Fields(), millis)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) list(ctx context.Context, q *query.Select) ([]domain.Attendee, error) {
	stmt, args := q.Build()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []domain.Attendee
	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(query.Targets(&a, q.Fields(), millis)...); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendees: %w", err)
	}
	return attendees, nil
}

// millisTime scans a unix-millisecond column into a time.Time.
type millisTime struct {
	t *time.Time
}

func millis(t *time.Time) any {
	return millisTime{t: t}
}

func (m millisTime) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*m.t = time.UnixMilli(v).UTC()
	case nil:
		*m.t = time.Time{}
	default:
		return fmt.Errorf("unsupported imported_at type %T", src)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
}

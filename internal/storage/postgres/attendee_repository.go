package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Germanaz0/phpconfar/internal/domain"
	"github.com/Germanaz0/phpconfar/internal/storage/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttendeeRepository struct {
	pool *pgxpool.Pool
}

func NewAttendeeRepository(pool *pgxpool.Pool) *AttendeeRepository {
	return &AttendeeRepository{pool: pool}
}

func (r *AttendeeRepository) FindOneByCode(ctx context.Context, code string, src domain.Source) (*domain.Attendee, error) {
	q := query.NewSelect(query.Postgres).Eq(domain.FieldCode, code)
	if src != "" {
		q.Eq(domain.FieldSource, string(src))
	}
	a, err := r.one(ctx, q.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("find attendee by code: %w", err)
	}
	return a, nil
}

func (r *AttendeeRepository) CreateAttendee(ctx context.Context, attendee domain.Attendee) (int64, error) {
	stmt, args := query.Insert(query.Postgres, attendee)
	var id int64
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateAttendee
		}
		return 0, fmt.Errorf("create attendee: %w", err)
	}
	return id, nil
}

func (r *AttendeeRepository) ListTickets(ctx context.Context) ([]domain.Attendee, error) {
	q := query.NewSelect(query.Postgres).
		NotEq(domain.FieldRole, string(domain.RoleDeleted)).
		OrderBy(domain.FieldID, domain.FieldFirstName, domain.FieldLastName)
	tickets, err := r.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (r *AttendeeRepository) Search(ctx context.Context, tokens []string) ([]domain.Attendee, error) {
	q := query.NewSelect(query.Postgres).ContainsAny(query.SearchFields, tokens)
	found, err := r.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search attendees: %w", err)
	}
	return found, nil
}

func (r *AttendeeRepository) FindByRole(ctx context.Context, roles []domain.Role, opts domain.ListOptions) ([]domain.Attendee, error) {
	q := query.NewSelect(query.Postgres, opts.Fields...).
		In(domain.FieldRole, query.RoleArgs(roles)...).
		Limit(opts.Limit)
	found, err := r.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find attendees by role: %w", err)
	}
	return found, nil
}

func (r *AttendeeRepository) RandomByRole(ctx context.Context, roles []domain.Role) (*domain.Attendee, error) {
	q := query.NewSelect(query.Postgres).
		In(domain.FieldRole, query.RoleArgs(roles)...).
		OrderRandom().
		Limit(1)
	a, err := r.one(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("raffle attendee: %w", err)
	}
	return a, nil
}

func (r *AttendeeRepository) one(ctx context.Context, q *query.Select) (*domain.Attendee, error) {
	sql, args := q.Build()
	var a domain.Attendee
	err := r.pool.QueryRow(ctx, sql, args...).Scan(query.Targets(&a, q.Fields(), nil)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttendeeRepository) list(ctx context.Context, q *query.Select) ([]domain.Attendee, error) {
	sql, args := q.Build()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []domain.Attendee
	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(query.Targets(&a, q.Fields(), nil)...); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate attendees: %w", rows.Err())
	}
	return attendees, nil
}

// Package query assembles parameterized SQL for the attendees table.
//
// Identifiers only come from domain.Field constants and the Table constant;
// every value is bound through a placeholder.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Germanaz0/phpconfar/internal/domain"
)

// Table is the attendees table name.
const Table = "attendees"

// Dialect selects placeholder and matching syntax.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// FoldFunc names the SQL function a SQLite connection must provide to
// lowercase text with Unicode case folding.
const FoldFunc = "attendee_fold"

// like renders a case-insensitive substring match of f against the bound
// placeholder. SQLite LIKE only folds ASCII, so both sides go through
// FoldFunc there.
func (d Dialect) like(f domain.Field, placeholder string) string {
	if d == Postgres {
		return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, f, placeholder)
	}
	return fmt.Sprintf(`%s(%s) LIKE %s ESCAPE '\'`, FoldFunc, f, placeholder)
}

func (d Dialect) pattern(token string) string {
	if d == SQLite {
		token = strings.ToLower(token)
	}
	return "%" + escapeLike(token) + "%"
}

// Select builds a SELECT statement over Table.
type Select struct {
	dialect Dialect
	fields  []domain.Field
	where   []string
	args    []any
	orderBy []domain.Field
	random  bool
	limit   int
}

// NewSelect starts a statement projecting fields, or every column when
// fields is empty.
func NewSelect(d Dialect, fields ...domain.Field) *Select {
	if len(fields) == 0 {
		fields = domain.AllFields
	}
	return &Select{dialect: d, fields: fields}
}

// Fields returns the projected columns in order.
func (s *Select) Fields() []domain.Field {
	return s.fields
}

func (s *Select) bind(v any) string {
	s.args = append(s.args, v)
	return s.dialect.placeholder(len(s.args))
}

// Eq adds "field = value".
func (s *Select) Eq(f domain.Field, v any) *Select {
	s.where = append(s.where, string(f)+" = "+s.bind(v))
	return s
}

// NotEq adds "field != value".
func (s *Select) NotEq(f domain.Field, v any) *Select {
	s.where = append(s.where, string(f)+" != "+s.bind(v))
	return s
}

// In adds "field IN (...)". values must not be empty.
func (s *Select) In(f domain.Field, values ...any) *Select {
	marks := make([]string, 0, len(values))
	for _, v := range values {
		marks = append(marks, s.bind(v))
	}
	s.where = append(s.where, string(f)+" IN ("+strings.Join(marks, ", ")+")")
	return s
}

// ContainsAny adds one predicate that holds when any token is a
// case-insensitive substring of any of fields.
func (s *Select) ContainsAny(fields []domain.Field, tokens []string) *Select {
	var terms []string
	for _, token := range tokens {
		pattern := s.dialect.pattern(token)
		for _, f := range fields {
			terms = append(terms, s.dialect.like(f, s.bind(pattern)))
		}
	}
	if len(terms) > 0 {
		s.where = append(s.where, "("+strings.Join(terms, " OR ")+")")
	}
	return s
}

// OrderBy sorts ascending by fields.
func (s *Select) OrderBy(fields ...domain.Field) *Select {
	s.orderBy = append(s.orderBy, fields...)
	return s
}

// OrderRandom sorts rows in store-side random order.
func (s *Select) OrderRandom() *Select {
	s.random = true
	return s
}

// Limit caps the row count; n <= 0 leaves it uncapped.
func (s *Select) Limit(n int) *Select {
	s.limit = n
	return s
}

// Build renders the statement and its arguments.
func (s *Select) Build() (string, []any) {
	cols := make([]string, len(s.fields))
	for i, f := range s.fields {
		cols[i] = string(f)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(Table)
	if len(s.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(s.where, " AND "))
	}

	switch {
	case s.random:
		b.WriteString(" ORDER BY RANDOM()")
	case len(s.orderBy) > 0:
		order := make([]string, len(s.orderBy))
		for i, f := range s.orderBy {
			order[i] = string(f) + " ASC"
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(order, ", "))
	}

	args := s.args
	if s.limit > 0 {
		args = append(append([]any{}, s.args...), s.limit)
		b.WriteString(" LIMIT ")
		b.WriteString(s.dialect.placeholder(len(args)))
	}
	return b.String(), args
}

// Insert renders an INSERT of a into Table, returning the new id.
func Insert(d Dialect, a domain.Attendee) (string, []any) {
	values := []any{a.Code, string(a.Source), a.Email, a.FirstName, a.LastName, string(a.Role)}
	cols := []domain.Field{
		domain.FieldCode,
		domain.FieldSource,
		domain.FieldEmail,
		domain.FieldFirstName,
		domain.FieldLastName,
		domain.FieldRole,
		domain.FieldImportedAt,
	}
	values = append(values, importedAtValue(d, a))

	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, f := range cols {
		names[i] = string(f)
		marks[i] = d.placeholder(i + 1)
	}
	stmt := "INSERT INTO " + Table + " (" + strings.Join(names, ", ") + ")" +
		" VALUES (" + strings.Join(marks, ", ") + ") RETURNING id"
	return stmt, values
}

// SQLite stores timestamps as unix milliseconds.
func importedAtValue(d Dialect, a domain.Attendee) any {
	if d == SQLite {
		return a.ImportedAt.UTC().UnixMilli()
	}
	return a.ImportedAt.UTC()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

package query

import (
	"time"

	"github.com/Germanaz0/phpconfar/internal/domain"
)

// Targets returns Scan destinations on a for fields, in order. timeDest
// wraps the imported_at destination for stores that do not scan into
// time.Time directly; nil uses &a.ImportedAt.
func Targets(a *domain.Attendee, fields []domain.Field, timeDest func(*time.Time) any) []any {
	dest := make([]any, 0, len(fields))
	for _, f := range fields {
		switch f {
		case domain.FieldID:
			dest = append(dest, &a.ID)
		case domain.FieldCode:
			dest = append(dest, &a.Code)
		case domain.FieldSource:
			dest = append(dest, &a.Source)
		case domain.FieldEmail:
			dest = append(dest, &a.Email)
		case domain.FieldFirstName:
			dest = append(dest, &a.FirstName)
		case domain.FieldLastName:
			dest = append(dest, &a.LastName)
		case domain.FieldRole:
			dest = append(dest, &a.Role)
		case domain.FieldImportedAt:
			if timeDest != nil {
				dest = append(dest, timeDest(&a.ImportedAt))
			} else {
				dest = append(dest, &a.ImportedAt)
			}
		}
	}
	return dest
}

// SearchFields are the columns matched by free-text search.
var SearchFields = []domain.Field{
	domain.FieldCode,
	domain.FieldEmail,
	domain.FieldFirstName,
	domain.FieldLastName,
}

// RoleArgs converts roles to bind arguments.
func RoleArgs(roles []domain.Role) []any {
	args := make([]any, len(roles))
	for i, r := range roles {
		args[i] = string(r)
	}
	return args
}

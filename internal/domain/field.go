package domain

import "strings"

// Field names a projectable attendee column.
type Field string

const (
	FieldID         Field = "id"
	FieldCode       Field = "code"
	FieldSource     Field = "source"
	FieldEmail      Field = "email"
	FieldFirstName  Field = "first_name"
	FieldLastName   Field = "last_name"
	FieldRole       Field = "role"
	FieldImportedAt Field = "imported_at"
)

// AllFields is the full column set in table order.
var AllFields = []Field{
	FieldID,
	FieldCode,
	FieldSource,
	FieldEmail,
	FieldFirstName,
	FieldLastName,
	FieldRole,
	FieldImportedAt,
}

func (f Field) Valid() bool {
	for _, known := range AllFields {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFields validates column names. An empty input returns nil, meaning
// every column.
func ParseFields(names []string) ([]Field, error) {
	var fields []Field
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f := Field(strings.ToLower(name))
		if !f.Valid() {
			return nil, ErrInvalidField
		}
		fields = append(fields, f)
	}
	return fields, nil
}

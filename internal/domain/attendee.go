package domain

import "time"

// Source identifies the ticketing feed an attendee was imported from.
type Source string

const (
	SourceEvenbrite Source = "evenbrite"
	SourceEventioz  Source = "eventioz"
)

// Sources lists the known feeds in import order.
func Sources() []Source {
	return []Source{SourceEvenbrite, SourceEventioz}
}

// Attendee is a single ticket holder. Code is unique per Source.
type Attendee struct {
	ID         int64
	Code       string
	Source     Source
	Email      string
	FirstName  string
	LastName   string
	Role       Role
	ImportedAt time.Time
}

// ListOptions narrows the columns and row count of a listing.
// Zero Fields selects every column; zero Limit returns every row.
type ListOptions struct {
	Fields []Field
	Limit  int
}

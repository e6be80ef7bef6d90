package domain

import "errors"

var (
	ErrNoMatch           = errors.New("no matching attendees")
	ErrInvalidField      = errors.New("invalid field")
	ErrInvalidLimit      = errors.New("invalid limit")
	ErrInvalidRole       = errors.New("invalid role")
	ErrRolesRequired     = errors.New("at least one role required")
	ErrDuplicateAttendee = errors.New("attendee already exists")
)

package domain

import "strings"

type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleDeleted   Role = "deleted"
	RoleSpeaker   Role = "speaker"
	RoleOrganizer Role = "organizer"
	RoleSponsor   Role = "sponsor"
	RoleStaff     Role = "staff"
)

var knownRoles = map[Role]struct{}{
	RoleAttendee:  {},
	RoleDeleted:   {},
	RoleSpeaker:   {},
	RoleOrganizer: {},
	RoleSponsor:   {},
	RoleStaff:     {},
}

// ParseRole normalizes a role tag. Tags outside the known set are kept as
// custom roles so externally assigned values still filter correctly.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return "", ErrInvalidRole
	}
	return Role(s), nil
}

// ParseRoles parses every tag, dropping duplicates while keeping order.
func ParseRoles(tags []string) ([]Role, error) {
	roles := make([]Role, 0, len(tags))
	seen := make(map[Role]struct{}, len(tags))
	for _, tag := range tags {
		role, err := ParseRole(tag)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles, nil
}

// Known reports whether r is one of the predefined roles.
func (r Role) Known() bool {
	_, ok := knownRoles[r]
	return ok
}

package domain

import "testing"

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Role
		known   bool
		wantErr error
	}{
		{in: "attendee", want: RoleAttendee, known: true},
		{in: "  Speaker ", want: RoleSpeaker, known: true},
		{in: "mentor", want: Role("mentor"), known: false},
		{in: "", wantErr: ErrInvalidRole},
		{in: "two words", wantErr: ErrInvalidRole},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRole(tt.in)
			if err != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected role %q, got %q", tt.want, got)
			}
			if err == nil && got.Known() != tt.known {
				t.Fatalf("expected known=%v for %q", tt.known, got)
			}
		})
	}
}

func TestParseRoles_DropsDuplicates(t *testing.T) {
	t.Parallel()

	roles, err := ParseRoles([]string{"speaker", "SPEAKER", "organizer"})
	if err != nil {
		t.Fatalf("parse roles: %v", err)
	}
	if len(roles) != 2 || roles[0] != RoleSpeaker || roles[1] != RoleOrganizer {
		t.Fatalf("unexpected roles: %v", roles)
	}
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	fields, err := ParseFields([]string{"code", " Email ", ""})
	if err != nil {
		t.Fatalf("parse fields: %v", err)
	}
	if len(fields) != 2 || fields[0] != FieldCode || fields[1] != FieldEmail {
		t.Fatalf("unexpected fields: %v", fields)
	}

	if _, err := ParseFields([]string{"code; DROP TABLE attendees"}); err != ErrInvalidField {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}

	fields, err = ParseFields(nil)
	if err != nil || fields != nil {
		t.Fatalf("expected nil fields, got %v (%v)", fields, err)
	}
}

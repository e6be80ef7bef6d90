package source

import (
	"encoding/json"
	"fmt"

	"github.com/Germanaz0/phpconfar/internal/domain"
)

type eventiozEntry struct {
	Registration *eventiozRegistration `json:"registration"`
}

type eventiozRegistration struct {
	AccreditationCode text   `json:"accreditation_code"`
	PurchasedAt       text   `json:"purchased_at"`
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
}

// DecodeEventioz emits one ticket per purchased registration, keyed by its
// accreditation code. Unpurchased registrations are skipped, and so are
// registrations without an accreditation code: the code is the dedup key,
// so an empty one would collide with every other codeless registration.
func DecodeEventioz(payload []byte) ([]domain.Attendee, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode eventioz payload: %w", err)
	}

	var tickets []domain.Attendee
	for _, raw := range entries {
		var entry eventiozEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		r := entry.Registration
		if r == nil || r.PurchasedAt == "" || r.AccreditationCode == "" {
			continue
		}
		tickets = append(tickets, domain.Attendee{
			Code:      string(r.AccreditationCode),
			Source:    domain.SourceEventioz,
			Email:     r.Email,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Role:      domain.RoleAttendee,
		})
	}
	return tickets, nil
}

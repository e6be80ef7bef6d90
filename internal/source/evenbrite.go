package source

import (
	"encoding/json"
	"fmt"

	"github.com/Germanaz0/phpconfar/internal/domain"
)

// MaxQuantity bounds the tickets a single purchase may expand into.
const MaxQuantity = 1000

type evenbritePayload struct {
	Attendees []json.RawMessage `json:"attendees"`
}

type evenbriteEntry struct {
	Attendee *evenbriteAttendee `json:"attendee"`
}

type evenbriteAttendee struct {
	ID        text   `json:"id"`
	TicketID  text   `json:"ticket_id"`
	OrderID   text   `json:"order_id"`
	Quantity  count  `json:"quantity"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (a *evenbriteAttendee) valid() bool {
	return a != nil && a.TicketID != "" && a.OrderID != "" && a.Quantity > 0 && a.Quantity <= MaxQuantity
}

// DecodeEvenbrite expands each purchase into one ticket per unit of
// quantity. The ticket code is order_id + attendee id + a 3-digit sequence.
// Entries that fail to decode, lack ticket_id or order_id, or carry a
// quantity outside 1..MaxQuantity are skipped.
func DecodeEvenbrite(payload []byte) ([]domain.Attendee, error) {
	var p evenbritePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode evenbrite payload: %w", err)
	}

	var tickets []domain.Attendee
	for _, raw := range p.Attendees {
		var entry evenbriteEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		a := entry.Attendee
		if !a.valid() {
			continue
		}
		for seq := 1; seq <= int(a.Quantity); seq++ {
			tickets = append(tickets, domain.Attendee{
				Code:      fmt.Sprintf("%s%s%03d", a.OrderID, a.ID, seq),
				Source:    domain.SourceEvenbrite,
				Email:     a.Email,
				FirstName: a.FirstName,
				LastName:  a.LastName,
				Role:      domain.RoleAttendee,
			})
		}
	}
	return tickets, nil
}

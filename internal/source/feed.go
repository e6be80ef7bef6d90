package source

import "github.com/Germanaz0/phpconfar/internal/domain"

// Decoder turns a raw feed payload into canonical tickets.
type Decoder func(payload []byte) ([]domain.Attendee, error)

// Feed pairs a source with its payload decoder.
type Feed struct {
	Source domain.Source
	Decode Decoder
}

// Feeds returns the known feeds in import order.
func Feeds() []Feed {
	return []Feed{
		{Source: domain.SourceEvenbrite, Decode: DecodeEvenbrite},
		{Source: domain.SourceEventioz, Decode: DecodeEventioz},
	}
}

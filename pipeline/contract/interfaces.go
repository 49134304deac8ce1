package contract

import (
	"context"

	recordx "deckpilot/pipeline/record"
)

// Source fetches every row of the external company database, already mapped
// into flat records.
type Source interface {
	Records(ctx context.Context) ([]recordx.Record, error)
}

// Store is the staging contract between the fetch operation and the lookup
// operation. Refresh overwrites the durable cache; Lookup only ever reads it.
type Store interface {
	Refresh(ctx context.Context) ([]recordx.Record, error)
	Lookup(companyName string) (recordx.Record, error)
	AttachPresentation(companyName, presentationID string) error
}

// Deck assembles presentations from records.
type Deck interface {
	BuildDeck(ctx context.Context, rec recordx.Record) (string, error)
	AppendCustomSlide(ctx context.Context, presentationID, title, body string) error
}

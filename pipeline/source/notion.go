// Package source wraps the external company database behind the
// contract.Source interface. It is a thin, typed pass-through: one query
// client, cursor pagination, no retries.
package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	contractx "deckpilot/pipeline/contract"
	recordx "deckpilot/pipeline/record"
)

const queryPageSize = 100

type Config struct {
	Token      string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	DatabaseID string        `envconfig:"DATABASE_ID" split_words:"true" required:"true"`
	Timeout    time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Database queries a single Notion database and maps every row through the
// record formatter.
type Database struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
}

var _ contractx.Source = (*Database)(nil)

func NewDatabase(cfg Config) (*Database, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("%w: notion token", contractx.ErrMissingInput)
	}
	databaseID := strings.TrimSpace(cfg.DatabaseID)
	if databaseID == "" {
		return nil, fmt.Errorf("%w: notion database id", contractx.ErrMissingInput)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := notionapi.NewClient(
		notionapi.Token(token),
		notionapi.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	return &Database{
		client:     client,
		databaseID: notionapi.DatabaseID(databaseID),
	}, nil
}

func MustNewDatabase(cfg Config) *Database {
	db, err := NewDatabase(cfg)
	if err != nil {
		panic(err)
	}
	return db
}

// Records fetches all rows, formatted. A failing page fetch aborts the whole
// read; partial sets are never returned.
func (d *Database) Records(ctx context.Context) ([]recordx.Record, error) {
	var (
		records []recordx.Record
		cursor  notionapi.Cursor
	)

	for {
		req := &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    queryPageSize,
		}
		resp, err := d.client.Database.Query(ctx, d.databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("%w: query notion database: %v", contractx.ErrUpstreamUnavailable, err)
		}

		for _, page := range resp.Results {
			records = append(records, recordx.FromPage(page))
		}

		if !resp.HasMore || resp.NextCursor == "" {
			return records, nil
		}
		cursor = resp.NextCursor
	}
}

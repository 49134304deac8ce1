// Package store is the record store bridge: it stages the formatted company
// table as a flat CSV cache and answers name lookups against it.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "deckpilot/pipeline/contract"
	recordx "deckpilot/pipeline/record"
)

// FileStore keeps the cache in one CSV file, overwritten wholesale on every
// refresh. The file is unguarded shared state; the single-operator assumption
// holds because tool invocations are strictly sequential.
type FileStore struct {
	source contractx.Source
	path   string
}

var _ contractx.Store = (*FileStore)(nil)

func NewFileStore(source contractx.Source, path string) (*FileStore, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: source", contractx.ErrMissingInput)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: cache path", contractx.ErrMissingInput)
	}
	return &FileStore{source: source, path: path}, nil
}

// Refresh fetches all rows from the source, overwrites the cache, and returns
// the formatted set. Upstream failures are reported, never retried.
func (s *FileStore) Refresh(ctx context.Context) ([]recordx.Record, error) {
	records, err := s.source.Records(ctx)
	if err != nil {
		return nil, err
	}

	warnDuplicates(records)

	if err := writeRecords(s.path, records); err != nil {
		return nil, fmt.Errorf("write record cache: %w", err)
	}
	return records, nil
}

// Lookup scans the cached table for a case-insensitive, whitespace-trimmed
// exact match on the company name. The first match in source order wins.
func (s *FileStore) Lookup(companyName string) (recordx.Record, error) {
	records, err := readRecords(s.path)
	if err != nil {
		return recordx.Record{}, err
	}

	want := strings.TrimSpace(companyName)
	for _, rec := range records {
		if strings.EqualFold(strings.TrimSpace(rec.CompanyName), want) {
			return rec, nil
		}
	}
	return recordx.Record{}, fmt.Errorf("%w: company %q", contractx.ErrNotFound, companyName)
}

// AttachPresentation rewrites the cached row for the named company with the
// presentation identifier. The source database is never written.
func (s *FileStore) AttachPresentation(companyName, presentationID string) error {
	records, err := readRecords(s.path)
	if err != nil {
		return err
	}

	want := strings.TrimSpace(companyName)
	for i := range records {
		if strings.EqualFold(strings.TrimSpace(records[i].CompanyName), want) {
			records[i].PresentationID = presentationID
			return writeRecords(s.path, records)
		}
	}
	return fmt.Errorf("%w: company %q", contractx.ErrNotFound, companyName)
}

// Duplicate company names have no defined resolution upstream; lookup takes
// the first row, and the refresh warns so the source table can be cleaned.
func warnDuplicates(records []recordx.Record) {
	seen := make(map[string]int, len(records))
	for _, rec := range records {
		key := strings.ToLower(strings.TrimSpace(rec.CompanyName))
		if key == "" {
			continue
		}
		seen[key]++
		if seen[key] == 2 {
			log.Warn().Str("company", rec.CompanyName).Msg("duplicate company name in source table; lookup returns the first row")
		}
	}
}

package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "deckpilot/pipeline/contract"
	recordx "deckpilot/pipeline/record"
)

type fakeSource struct {
	records []recordx.Record
	err     error
	calls   int
}

func (f *fakeSource) Records(ctx context.Context) ([]recordx.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func sampleRecords() []recordx.Record {
	return []recordx.Record{
		{CompanyName: "Acme", Location: "Austin, TX", FoundingYear: 2015, Revenue: 4500000, Industry: "Robotics"},
		{CompanyName: "Globex", Location: "Berlin", FoundingYear: 2019, Revenue: 900000, Industry: "Energy"},
	}
}

func newTestStore(t *testing.T, src contractx.Source) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.csv")
	s, err := NewFileStore(src, path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s, path
}

func TestRefreshWritesCacheAndReturnsSet(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t, &fakeSource{records: sampleRecords()})

	got, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Refresh() returned %d records, want 2", len(got))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if !strings.Contains(string(raw), "company_name") {
		t.Fatalf("cache header missing, got: %s", raw)
	}
	if !strings.Contains(string(raw), "Globex") {
		t.Fatalf("cache rows missing, got: %s", raw)
	}
}

func TestRefreshOverwritesPriorCache(t *testing.T) {
	t.Parallel()

	src := &fakeSource{records: sampleRecords()}
	s, _ := newTestStore(t, src)
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}

	src.records = []recordx.Record{{CompanyName: "Initech"}}
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}

	if _, err := s.Lookup("Acme"); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("Lookup(Acme) error = %v, want ErrNotFound after overwrite", err)
	}
	if _, err := s.Lookup("Initech"); err != nil {
		t.Fatalf("Lookup(Initech) error = %v", err)
	}
}

func TestRefreshReportsUpstreamFailure(t *testing.T) {
	t.Parallel()

	wrapped := errors.New("connection refused")
	s, path := newTestStore(t, &fakeSource{err: wrapped})

	if _, err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected upstream error")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("failed refresh must not stage a cache file")
	}
}

func TestLookupIsCaseAndWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakeSource{records: sampleRecords()})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	rec, err := s.Lookup("  acme  ")
	if err != nil {
		t.Fatalf("Lookup(\"  acme  \") error = %v", err)
	}
	if rec.CompanyName != "Acme" {
		t.Fatalf("Lookup matched %q, want Acme", rec.CompanyName)
	}
	if rec.Location != "Austin, TX" || rec.FoundingYear != 2015 {
		t.Fatalf("Lookup returned mangled record: %+v", rec)
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakeSource{records: sampleRecords()})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if _, err := s.Lookup("Initech"); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("Lookup(Initech) error = %v, want ErrNotFound", err)
	}
}

func TestLookupAgainstAbsentCacheIsNotStaged(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakeSource{records: sampleRecords()})

	if _, err := s.Lookup("Acme"); !errors.Is(err, contractx.ErrNotStaged) {
		t.Fatalf("Lookup() error = %v, want ErrNotStaged", err)
	}
}

func TestLookupDuplicateNamesFirstMatchWins(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakeSource{records: []recordx.Record{
		{CompanyName: "Acme", Location: "Austin, TX"},
		{CompanyName: "acme", Location: "Boston, MA"},
	}})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	rec, err := s.Lookup("ACME")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if rec.Location != "Austin, TX" {
		t.Fatalf("Lookup returned %q, want the first row in source order", rec.Location)
	}
}

// Not parallel: swaps the global logger.
func TestRefreshWarnsOnDuplicateNames(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	s, _ := newTestStore(t, &fakeSource{records: []recordx.Record{
		{CompanyName: "Acme", Location: "Austin, TX"},
		{CompanyName: " acme ", Location: "Boston, MA"},
	}})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "duplicate company name") {
		t.Fatalf("no duplicate warning logged, got: %s", logged)
	}
	if !strings.Contains(logged, "acme") {
		t.Fatalf("warning must name the duplicate, got: %s", logged)
	}
}

func TestAttachPresentation(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakeSource{records: sampleRecords()})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if err := s.AttachPresentation("acme", "pres-123"); err != nil {
		t.Fatalf("AttachPresentation() error = %v", err)
	}

	rec, err := s.Lookup("Acme")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if rec.PresentationID != "pres-123" {
		t.Fatalf("PresentationID = %q, want pres-123", rec.PresentationID)
	}

	other, err := s.Lookup("Globex")
	if err != nil {
		t.Fatalf("Lookup(Globex) error = %v", err)
	}
	if other.PresentationID != "" {
		t.Fatalf("Globex row must be untouched, got %+v", other)
	}
}

func TestAttachPresentationUnknownCompany(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakeSource{records: sampleRecords()})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if err := s.AttachPresentation("Initech", "pres-404"); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("AttachPresentation() error = %v, want ErrNotFound", err)
	}
}

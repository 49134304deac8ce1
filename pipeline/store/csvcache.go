package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gocarina/gocsv"

	contractx "deckpilot/pipeline/contract"
	recordx "deckpilot/pipeline/record"
)

// writeRecords overwrites the cache file. An empty set still writes the
// header row, so a refreshed-but-empty table is distinguishable from an
// unstaged one.
func writeRecords(path string, records []recordx.Record) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	return nil
}

func readRecords(path string) ([]recordx.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: cache file %s does not exist; run fetch-data first", contractx.ErrNotStaged, path)
		}
		return nil, err
	}
	defer f.Close()

	records := []recordx.Record{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, fmt.Errorf("%w: cache file %s is empty", contractx.ErrNotStaged, path)
		}
		return nil, fmt.Errorf("unmarshal csv: %w", err)
	}
	return records, nil
}

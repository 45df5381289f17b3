// Package metadata persists accepted catalog records as a CSV file.
package metadata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/formharvest/internal/catalog"
	"github.com/jonesrussell/formharvest/internal/logger"
)

const dirPerm = 0o755

// csvHeader lists the metadata columns in write order.
var csvHeader = []string{
	"product_number",
	"title",
	"revision_date",
	"posted_date",
	"artifact_url",
	"filename",
	"scraped_at",
}

// Writer persists the accepted records of a run to a fixed file path.
type Writer struct {
	path   string
	logger logger.Interface
}

// NewWriter creates a writer for the given metadata file path.
func NewWriter(path string, log logger.Interface) *Writer {
	return &Writer{
		path:   path,
		logger: log,
	}
}

// Path returns the metadata file path.
func (w *Writer) Path() string {
	return w.path
}

// Write serializes records to the metadata file, replacing any previous
// file. A run that accepted no records leaves the previous file untouched.
func (w *Writer) Write(records []catalog.FormRecord) error {
	if len(records) == 0 {
		w.logger.Warn("No records to save, metadata file left untouched", "path", w.path)
		return nil
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeErr := cw.Write(csvHeader); writeErr != nil {
		return fmt.Errorf("failed to write metadata header: %w", writeErr)
	}
	for i := range records {
		if writeErr := cw.Write(recordRow(&records[i])); writeErr != nil {
			return fmt.Errorf("failed to write metadata row: %w", writeErr)
		}
	}

	cw.Flush()
	if flushErr := cw.Error(); flushErr != nil {
		return fmt.Errorf("failed to flush metadata file: %w", flushErr)
	}

	w.logger.Info("Saved metadata", "records", len(records), "path", w.path)

	return nil
}

// Load reads a previously written metadata file back into records. A
// missing file is not an error and yields no records.
func (w *Writer) Load() ([]catalog.FormRecord, error) {
	f, err := os.Open(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]catalog.FormRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(csvHeader) {
			continue
		}
		records = append(records, rowRecord(row))
	}

	return records, nil
}

// recordRow flattens a record into a CSV row, timestamps in RFC 3339.
func recordRow(rec *catalog.FormRecord) []string {
	return []string{
		rec.ProductNumber,
		rec.Title,
		rec.RevisionDate,
		rec.PostedDate,
		rec.ArtifactURL,
		rec.Filename,
		rec.ScrapedAt.Format(time.RFC3339),
	}
}

// rowRecord rebuilds a record from a CSV row. An unparseable timestamp
// leaves ScrapedAt zero rather than dropping the record.
func rowRecord(row []string) catalog.FormRecord {
	rec := catalog.FormRecord{
		ProductNumber: row[0],
		Title:         row[1],
		RevisionDate:  row[2],
		PostedDate:    row[3],
		ArtifactURL:   row[4],
		Filename:      row[5],
	}
	if ts, err := time.Parse(time.RFC3339, row[6]); err == nil {
		rec.ScrapedAt = ts
	}

	return rec
}

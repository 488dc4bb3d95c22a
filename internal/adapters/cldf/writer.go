package cldf

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFiltered emits a copy of the dataset into outDir, keeping only form
// rows whose ID is in keep and cognate rows whose form reference is in keep.
// The metadata document and every other table copy through byte-for-byte.
// This is the one path that always reads every table.
func (d *Dataset) WriteFiltered(outDir string, keep map[string]struct{}) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, d.metaName), d.metaRaw, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	if err := d.Forms.load(); err != nil {
		return err
	}
	id := d.Forms.columnIndex(termID, "ID")
	if id < 0 {
		return fmt.Errorf("form table %s: missing id column", d.Forms.URL)
	}
	if err := d.writeTable(outDir, d.Forms, func(row []string) bool {
		_, ok := keep[row[id]]
		return ok
	}); err != nil {
		return err
	}

	if d.Cognates != nil {
		if err := d.Cognates.load(); err != nil {
			return err
		}
		form := d.Cognates.columnIndex(termFormRef, "Form_ID")
		if form < 0 {
			return fmt.Errorf("cognate table %s: missing form column", d.Cognates.URL)
		}
		if err := d.writeTable(outDir, d.Cognates, func(row []string) bool {
			_, ok := keep[row[form]]
			return ok
		}); err != nil {
			return err
		}
	}

	for _, t := range d.Others {
		if err := d.writeTable(outDir, t, nil); err != nil {
			return err
		}
	}
	return nil
}

// writeTable writes one table under outDir, keeping rows that pass the
// filter. A nil filter keeps everything.
func (d *Dataset) writeTable(outDir string, t *Table, filter func([]string) bool) error {
	if err := t.load(); err != nil {
		return err
	}
	path := filepath.Join(outDir, filepath.FromSlash(t.URL))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write table %s: %w", t.URL, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		return fmt.Errorf("write table %s: %w", t.URL, err)
	}
	for _, row := range t.rows {
		if filter != nil && !filter(row) {
			continue
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write table %s: %w", t.URL, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write table %s: %w", t.URL, err)
	}
	return f.Close()
}

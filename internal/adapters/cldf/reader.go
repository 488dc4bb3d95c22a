// Package cldf loads and writes CLDF wordlist datasets: a CSVW metadata
// document describing a set of CSV tables. Only the columns the core needs
// (form ID, language, meaning, cognate set) are interpreted; everything else
// is carried through untouched so filtered output loses no information.
//
// Load reads the metadata document only. Table contents are read lazily on
// first access, so callers that hit the aggregate cache never pay for CSV
// parsing: Fingerprint stats the table files without opening them.
package cldf

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/cormacl/synprune/internal/ports"
)

// CLDF ontology term suffixes used to locate columns regardless of how a
// dataset names them.
const (
	termID          = "#id"
	termLanguageRef = "#languageReference"
	termMeaningRef  = "#parameterReference"
	termFormRef     = "#formReference"
	termCognsetRef  = "#cognatesetReference"
)

// ErrNoFormTable is returned when the metadata describes no form table.
var ErrNoFormTable = errors.New("dataset has no FormTable")

type metaColumn struct {
	Name        string `json:"name"`
	PropertyURL string `json:"propertyUrl"`
}

type metaTable struct {
	URL         string `json:"url"`
	ConformsTo  string `json:"dc:conformsTo"`
	TableSchema struct {
		Columns []metaColumn `json:"columns"`
	} `json:"tableSchema"`
}

type metaDoc struct {
	Tables []metaTable `json:"tables"`
}

// Table is one CSV table of the dataset. The file is parsed on first use;
// until then only its existence has been checked.
type Table struct {
	URL string

	path    string
	columns []metaColumn
	header  []string
	rows    [][]string
	loaded  bool
}

// load parses the table file once, memoizing header and rows.
func (t *Table) load() error {
	if t.loaded {
		return nil
	}
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("parse table %s: %w", t.URL, err)
	}
	if len(all) == 0 {
		return fmt.Errorf("table %s has no header row", t.URL)
	}
	t.header = all[0]
	t.rows = all[1:]
	t.loaded = true
	return nil
}

// Header returns the table's column names, reading the file on first use.
func (t *Table) Header() ([]string, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	return t.header, nil
}

// Rows returns the table's data rows, reading the file on first use.
func (t *Table) Rows() ([][]string, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	return t.rows, nil
}

// headerIndex returns the index of a column by name, or -1.
// The table must be loaded.
func (t *Table) headerIndex(name string) int {
	for i, h := range t.header {
		if h == name {
			return i
		}
	}
	return -1
}

// columnIndex resolves a column by CLDF property term, falling back to the
// conventional CLDF column name. Returns -1 if neither resolves.
// The table must be loaded.
func (t *Table) columnIndex(term, conventional string) int {
	for _, c := range t.columns {
		if strings.HasSuffix(c.PropertyURL, term) {
			if i := t.headerIndex(c.Name); i >= 0 {
				return i
			}
		}
	}
	return t.headerIndex(conventional)
}

// Dataset is one loaded CLDF dataset. Forms is always present after a
// successful Load; Cognates is nil when the dataset carries no cognate
// judgements. Others holds every remaining table (languages, parameters, …)
// verbatim for pass-through on write.
type Dataset struct {
	dir      string
	metaName string
	metaRaw  []byte

	Forms    *Table
	Cognates *Table
	Others   []*Table
}

// Load reads a CLDF dataset's metadata document and checks that every
// described table file exists. An unreadable or malformed metadata document
// or a missing table file is a load error; nothing partial is returned.
// Table contents are not parsed here.
func Load(metaPath string) (*Dataset, error) {
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var doc metaDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", metaPath, err)
	}

	d := &Dataset{
		dir:      filepath.Dir(metaPath),
		metaName: filepath.Base(metaPath),
		metaRaw:  raw,
	}

	for _, mt := range doc.Tables {
		t := &Table{
			URL:     mt.URL,
			path:    filepath.Join(d.dir, filepath.FromSlash(mt.URL)),
			columns: mt.TableSchema.Columns,
		}
		if _, err := os.Stat(t.path); err != nil {
			return nil, fmt.Errorf("stat table %s: %w", mt.URL, err)
		}
		switch component(mt) {
		case "#FormTable":
			d.Forms = t
		case "#CognateTable":
			d.Cognates = t
		default:
			d.Others = append(d.Others, t)
		}
	}

	if d.Forms == nil {
		return nil, ErrNoFormTable
	}
	return d, nil
}

// component identifies which CLDF component a table is, by its
// dc:conformsTo URL or, failing that, its conventional file name.
func component(mt metaTable) string {
	if i := strings.LastIndex(mt.ConformsTo, "#"); i >= 0 {
		return mt.ConformsTo[i:]
	}
	switch filepath.Base(mt.URL) {
	case "forms.csv":
		return "#FormTable"
	case "cognates.csv":
		return "#CognateTable"
	case "languages.csv":
		return "#LanguageTable"
	}
	return ""
}

// FormRecords extracts the canonical form rows.
func (d *Dataset) FormRecords() ([]ports.FormRecord, error) {
	if err := d.Forms.load(); err != nil {
		return nil, err
	}
	id := d.Forms.columnIndex(termID, "ID")
	lang := d.Forms.columnIndex(termLanguageRef, "Language_ID")
	meaning := d.Forms.columnIndex(termMeaningRef, "Parameter_ID")
	if id < 0 || lang < 0 || meaning < 0 {
		return nil, fmt.Errorf("form table %s: missing id, language or parameter column", d.Forms.URL)
	}

	records := make([]ports.FormRecord, 0, len(d.Forms.rows))
	for _, row := range d.Forms.rows {
		records = append(records, ports.FormRecord{
			ID:         row[id],
			LanguageID: row[lang],
			MeaningID:  row[meaning],
		})
	}
	return records, nil
}

// CognateRecords extracts the canonical cognate-judgement rows.
// A dataset without a cognate table yields none: every form is unclassified.
func (d *Dataset) CognateRecords() ([]ports.CognateRecord, error) {
	if d.Cognates == nil {
		return nil, nil
	}
	if err := d.Cognates.load(); err != nil {
		return nil, err
	}
	form := d.Cognates.columnIndex(termFormRef, "Form_ID")
	class := d.Cognates.columnIndex(termCognsetRef, "Cognateset_ID")
	if form < 0 || class < 0 {
		return nil, fmt.Errorf("cognate table %s: missing form or cognateset column", d.Cognates.URL)
	}

	records := make([]ports.CognateRecord, 0, len(d.Cognates.rows))
	for _, row := range d.Cognates.rows {
		records = append(records, ports.CognateRecord{
			FormID:  row[form],
			ClassID: row[class],
		})
	}
	return records, nil
}

// Fingerprint hashes the identity, size and mtime of every dataset file.
// Two loads of an unchanged dataset produce the same fingerprint; any edit,
// rename or touch produces a different one. Used as the cache key. Only
// stats the files — never triggers a parse.
func (d *Dataset) Fingerprint() (string, error) {
	h := fnv.New64a()

	tables := []*Table{d.Forms}
	if d.Cognates != nil {
		tables = append(tables, d.Cognates)
	}
	tables = append(tables, d.Others...)

	paths := []string{filepath.Join(d.dir, d.metaName)}
	names := []string{d.metaName}
	for _, t := range tables {
		paths = append(paths, t.path)
		names = append(names, t.URL)
	}

	for i, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("fingerprint: %w", err)
		}
		fmt.Fprintf(h, "%s|%d|%d\n", names[i], info.Size(), info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

package storage

import (
	"io"
	"iter"
	"os"

	"github.com/sirupsen/logrus"
)

// Database is the top-level handle described by spec.md §6: open(path),
// list_schema(), scan(root_page). It exclusively owns the file handle
// and the parsed header (spec.md §3 "Ownership"). Generalizes the
// teacher's DatabaseRawImpl + DatabaseImpl split (app/database_raw.go,
// app/database.go) into a single type, since this spec's core has no
// logical/physical layering to preserve (that split belongs to the
// external executor, internal/sqlexec).
type Database struct {
	pager  *Pager
	header *Header
	schema []SchemaRow
	log    *logrus.Entry
}

// Open opens path read-only, parses the 100-byte header, and decodes the
// schema table rooted at page 1 (spec.md §6 "open(path) -> Database").
func Open(path string, opts ...Option) (*Database, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(KindIO, "open database", 0, 0, "", err)
	}

	prefix := make([]byte, 100)
	if _, err := io.ReadFull(f, prefix); err != nil {
		f.Close()
		return nil, newErr(KindShortRead, "open database", 1, 0, "header", err)
	}

	header, err := ParseHeader(prefix)
	if err != nil {
		f.Close()
		return nil, err
	}

	var logEntry *logrus.Entry
	if cfg.Logger != nil {
		logEntry = cfg.Logger.WithField("component", "storage")
	}

	pager := NewPager(f, header.PageSize, logEntry)

	db := &Database{pager: pager, header: header, log: logEntry}

	rows, err := db.readSchema()
	if err != nil {
		pager.Close()
		return nil, err
	}
	db.schema = rows

	return db, nil
}

// Header returns the parsed database header.
func (db *Database) Header() *Header { return db.header }

// ListSchema returns all rows of the schema table (spec.md §6
// "list_schema() -> [SchemaRow]").
func (db *Database) ListSchema() []SchemaRow {
	return db.schema
}

// Scan yields all rows of the table rooted at rootPage in row-id order
// (spec.md §6 "scan(root_page) -> Iterator<(row_id, payload)>").
func (db *Database) Scan(rootPage int) iter.Seq2[Row, error] {
	return scanTable(db.pager, db.header.UsablePageSize(), rootPage, db.log)
}

// ScanIndex yields the decoded records of the index B-tree rooted at
// rootPage in key order (spec.md §4.8's optional index descent).
func (db *Database) ScanIndex(rootPage int) iter.Seq2[Record, error] {
	return scanIndex(db.pager, db.header.UsablePageSize(), rootPage, db.log)
}

// Close releases the database's file handle.
func (db *Database) Close() error {
	return db.pager.Close()
}

func (db *Database) readSchema() ([]SchemaRow, error) {
	var rows []SchemaRow
	for row, err := range db.Scan(1) {
		if err != nil {
			return nil, err
		}
		sr, err := decodeSchemaRow(row.Payload, db.header.TextEncoding)
		if err != nil {
			return nil, newErr(KindTruncatedRecord, "decode schema row", 1, 0, "", err)
		}
		rows = append(rows, sr)
	}
	return rows, nil
}

package sqlexec

import (
	"strings"

	"github.com/codecrafters-io/sqlite-go/internal/storage"
)

// coveringIndex finds a single-column index schema row over table.column,
// if one exists, per SPEC_FULL.md's supplemented index-assisted lookup:
// detection of a usable index, not a planner (spec.md §1 Non-goals still
// rules out anything beyond linear scan with a single-predicate filter).
// Matching is done on the index's CREATE INDEX text rather than a parsed
// column list, since sqlparser's DDL handling here is only exercised for
// CREATE TABLE elsewhere in this package.
func coveringIndex(rows []storage.SchemaRow, table, column string) (*storage.SchemaRow, bool) {
	pattern := strings.ToLower("(" + column + ")")
	for i := range rows {
		row := &rows[i]
		if row.Type != "index" || !strings.EqualFold(row.TblName, table) {
			continue
		}
		if strings.Contains(strings.ToLower(row.SQL), pattern) {
			return row, true
		}
	}
	return nil, false
}

// rowIDsForEquality walks idx's B-tree collecting the row ids of entries
// whose indexed key equals value, per the convention that an index
// leaf/interior record's last column is the indexed table's row id
// (internal/storage/btree.go's scanIndex).
func rowIDsForEquality(db *storage.Database, idx *storage.SchemaRow, value string, enc storage.TextEncoding) (map[int64]bool, error) {
	ids := map[int64]bool{}
	for rec, err := range db.ScanIndex(int(idx.RootPage)) {
		if err != nil {
			return nil, err
		}
		if len(rec.Values) < 2 {
			continue
		}
		key := rec.Values[0].String(enc)
		if key != value {
			continue
		}
		rowID, ok := rec.Values[len(rec.Values)-1].Int64()
		if !ok {
			continue
		}
		ids[rowID] = true
	}
	return ids, nil
}

package storage

import "fmt"

// SchemaRow is one row of the sqlite_schema table: an object definition
// (table, index, view, or trigger) plus the SQL text that created it
// (spec.md §3 "Schema table", §4.9). Generalizes the teacher's
// SchemaRecord (app/types.go), whose RootPage was a single byte and so
// silently truncated any root page above 255.
type SchemaRow struct {
	Type     string
	Name     string
	TblName  string
	RootPage int64
	SQL      string
}

// decodeSchemaRow interprets one record from the schema table's B-tree
// as a SchemaRow (spec.md §4.9): five columns in fixed order, with
// root_page widened to 64 bits regardless of which integer serial type
// encodes it.
func decodeSchemaRow(rec Record, enc TextEncoding) (SchemaRow, error) {
	if len(rec.Values) < 5 {
		return SchemaRow{}, fmt.Errorf("schema row has %d columns, want 5", len(rec.Values))
	}

	typ, _ := rec.Values[0].Text(enc)
	name, _ := rec.Values[1].Text(enc)
	tblName, _ := rec.Values[2].Text(enc)
	sql, _ := rec.Values[4].Text(enc)

	var rootPage int64
	if !rec.Values[3].IsNull() {
		rootPage, _ = rec.Values[3].Int64()
	}

	return SchemaRow{
		Type:     typ,
		Name:     name,
		TblName:  tblName,
		RootPage: rootPage,
		SQL:      sql,
	}, nil
}

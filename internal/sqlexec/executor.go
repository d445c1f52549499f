package sqlexec

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/codecrafters-io/sqlite-go/internal/storage"
)

// Executor is the single entrypoint spec.md §6 describes the CLI
// driving: one database, one command at a time, each call returning
// the exact lines the CLI prints. Generalizes the teacher's
// SQLiteEngine.ExecuteCommand (app/sqlite_engine.go), which mixed
// formatting into the same switch; here formatting is pushed out to
// internal/format so Execute only ever returns plain strings.
type Executor struct {
	db  *storage.Database
	log *logrus.Entry
}

// New builds an Executor over an already-open database.
func New(db *storage.Database, log *logrus.Entry) *Executor {
	return &Executor{db: db, log: log}
}

// Execute runs a single dot-command or SQL statement and returns the
// lines of output it produces, in the order the CLI should print them.
func (e *Executor) Execute(command string) ([]string, error) {
	command = strings.TrimSpace(command)

	switch {
	case command == ".dbinfo":
		return dbInfo(e.db), nil
	case command == ".tables":
		return []string{strings.Join(tableNames(e.db), " ")}, nil
	case strings.HasPrefix(command, "."):
		return nil, newErr(KindInvalidCommand, command)
	default:
		return e.executeSelect(command)
	}
}

func (e *Executor) executeSelect(sql string) ([]string, error) {
	plan, err := parseSelect(sql)
	if err != nil {
		return nil, newErr(KindInvalidCommand, err.Error())
	}

	schemaRows := e.db.ListSchema()
	table, ok := findTable(schemaRows, plan.Table)
	if !ok {
		return nil, newErr(KindNoSuchTable, plan.Table)
	}

	tableSchema, err := parseCreateTable(table.SQL)
	if err != nil {
		return nil, newErr(KindInvalidCommand, err.Error())
	}

	colIndexes := make([]int, len(plan.Columns))
	for i, name := range plan.Columns {
		idx := tableSchema.ColumnIndex(name)
		if idx < 0 {
			return nil, newErr(KindNoSuchColumn, name)
		}
		colIndexes[i] = idx
	}

	var whereIdx int = -1
	if plan.HasWhere {
		whereIdx = tableSchema.ColumnIndex(plan.WhereColumn)
		if whereIdx < 0 {
			return nil, newErr(KindNoSuchColumn, plan.WhereColumn)
		}
	}

	allowedRowIDs, useIndex, err := e.indexPrefilter(schemaRows, plan, tableSchema)
	if err != nil {
		return nil, err
	}

	enc := e.db.Header().TextEncoding

	count := 0
	var lines []string
	for row, err := range e.db.Scan(int(table.RootPage)) {
		if err != nil {
			return nil, err
		}

		if useIndex {
			if !allowedRowIDs[row.RowID] {
				continue
			}
		} else if plan.HasWhere {
			if columnString(row, tableSchema, whereIdx, enc) != plan.WhereValue {
				continue
			}
		}

		count++

		if plan.IsCount {
			// COUNT(*) ignores LIMIT (spec.md §8 S4) and needs every
			// matching row, so the scan always runs to completion.
			continue
		}

		if plan.Limit > 0 && len(lines) >= plan.Limit {
			break
		}

		fields := make([]string, len(colIndexes))
		for i, idx := range colIndexes {
			fields[i] = columnString(row, tableSchema, idx, enc)
		}
		lines = append(lines, strings.Join(fields, "|"))
	}

	if plan.IsCount {
		return []string{strconv.Itoa(count)}, nil
	}

	return lines, nil
}

// columnString reads one projected value out of row, substituting the
// row id itself when the column is the table's INTEGER PRIMARY KEY
// alias (spec.md §8 S6: such a column is stored as SQL NULL and the row
// id is the real value).
func columnString(row storage.Row, schema *TableSchema, idx int, enc storage.TextEncoding) string {
	if schema.RowIDAlias != "" && schema.ColumnIndex(schema.RowIDAlias) == idx {
		return strconv.FormatInt(row.RowID, 10)
	}
	if idx >= len(row.Payload.Values) {
		return ""
	}
	return row.Payload.Values[idx].String(enc)
}

// indexPrefilter detects a usable single-column index over the WHERE
// column and, if found, resolves the set of matching row ids up front
// so the table scan below can skip everything else. This is detection,
// not planning: a scan always still runs, it just skips rows the index
// has already ruled out (spec.md §1 Non-goals: "no query planner
// beyond linear scan with a single-predicate filter").
func (e *Executor) indexPrefilter(schemaRows []storage.SchemaRow, plan *selectPlan, schema *TableSchema) (map[int64]bool, bool, error) {
	if !plan.HasWhere {
		return nil, false, nil
	}

	idx, ok := coveringIndex(schemaRows, plan.Table, plan.WhereColumn)
	if !ok {
		return nil, false, nil
	}

	enc := e.db.Header().TextEncoding
	ids, err := rowIDsForEquality(e.db, idx, plan.WhereValue, enc)
	if err != nil {
		return nil, false, err
	}
	if e.log != nil {
		e.log.WithField("index", idx.Name).Debug("using covering index for WHERE equality")
	}
	return ids, true, nil
}

func findTable(rows []storage.SchemaRow, name string) (storage.SchemaRow, bool) {
	for _, row := range rows {
		if row.Type == "table" && strings.EqualFold(row.Name, name) {
			return row, true
		}
	}
	return storage.SchemaRow{}, false
}

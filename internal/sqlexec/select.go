package sqlexec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// selectPlan is the accepted SELECT shape reduced to what the executor
// needs to run it: a single table, a column projection (or COUNT(*)), at
// most one WHERE equality against a literal, and an optional LIMIT
// (spec.md §6 "The executor additionally consumes a SELECT with
// projection, optional WHERE ..., and optional LIMIT"). Grounded on
// Lindeneg-sqlite-exploration/query.go's selectCtx, narrowed from its
// multi-predicate sqlWhereToConstraint map to the single comparison
// spec.md §1's Non-goals call for ("no query planner beyond linear scan
// with a single-predicate filter").
type selectPlan struct {
	Table       string
	Columns     []string
	IsCount     bool
	HasWhere    bool
	WhereColumn string
	WhereValue  string
	Limit       int // 0 means unlimited
}

func parseSelect(sql string) (*selectPlan, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parse select: %w", err)
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, fmt.Errorf("not a SELECT statement: %q", sql)
	}

	plan := &selectPlan{Limit: sqlLimitToInt(sel.Limit)}

	if len(sel.From) == 0 {
		return nil, fmt.Errorf("SELECT has no FROM table")
	}
	aliased, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, fmt.Errorf("unsupported FROM clause in %q", sql)
	}
	tableName, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return nil, fmt.Errorf("unsupported FROM clause in %q", sql)
	}
	plan.Table = tableName.Name.String()

	for _, expr := range sel.SelectExprs {
		switch e := expr.(type) {
		case *sqlparser.StarExpr:
			return nil, fmt.Errorf("SELECT * is not supported")
		case *sqlparser.AliasedExpr:
			switch inner := e.Expr.(type) {
			case *sqlparser.FuncExpr:
				if !strings.EqualFold(inner.Name.String(), "count") {
					return nil, fmt.Errorf("unsupported function %q", inner.Name.String())
				}
				plan.IsCount = true
			case *sqlparser.ColName:
				plan.Columns = append(plan.Columns, inner.Name.String())
			default:
				return nil, fmt.Errorf("unsupported select expression %T", inner)
			}
		default:
			return nil, fmt.Errorf("unsupported select expression %T", e)
		}
	}

	if sel.Where != nil {
		col, val, err := singleEqualityConstraint(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		plan.HasWhere = true
		plan.WhereColumn = col
		plan.WhereValue = val
	}

	return plan, nil
}

// singleEqualityConstraint accepts exactly `column = 'literal'` or
// `column = literal`, per spec.md §6 ("a single comparison against a
// literal"). Anything richer (AND/OR, other operators) is rejected
// rather than silently narrowed, unlike the teacher's
// sqlite_engine.go/query_optimizer.go which both support full AND/OR
// trees — that generality belongs to a real query planner, which
// spec.md's Non-goals explicitly excludes here.
func singleEqualityConstraint(expr sqlparser.Expr) (column, value string, err error) {
	cmp, ok := expr.(*sqlparser.ComparisonExpr)
	if !ok {
		return "", "", fmt.Errorf("WHERE must be a single comparison, got %T", expr)
	}
	if cmp.Operator != "=" {
		return "", "", fmt.Errorf("WHERE operator %q is not supported", cmp.Operator)
	}
	col, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return "", "", fmt.Errorf("WHERE left-hand side must be a column name")
	}
	val, ok := cmp.Right.(*sqlparser.SQLVal)
	if !ok {
		return "", "", fmt.Errorf("WHERE right-hand side must be a literal")
	}
	return col.Name.String(), string(val.Val), nil
}

func sqlLimitToInt(l *sqlparser.Limit) int {
	if l == nil || l.Rowcount == nil {
		return 0
	}
	buf := sqlparser.NewTrackedBuffer(nil)
	l.Rowcount.Format(buf)
	n, err := strconv.Atoi(buf.String())
	if err != nil {
		return 0
	}
	return n
}

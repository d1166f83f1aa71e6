package catalog

import (
	"strconv"
	"strings"

	"github.com/hugr-lab/orabridge/filter"
)

// RowIDIndex is the projection index of the ROWID pseudo column.
const RowIDIndex = -1

// modernPagingVersion is the first Oracle major release with the
// OFFSET/FETCH row limiting clause.
const modernPagingVersion = 12

// SelectColumn is one SELECT list item. Expr is the value expression,
// Alias the output column name. When Expr is just the quoted alias the
// item renders without an explicit alias.
type SelectColumn struct {
	Expr  string
	Alias string
}

// ScanBindData is everything needed to render one scan query. It carries
// no connection state so query building is testable offline.
type ScanBindData struct {
	Schema  string
	Table   string
	Columns []SelectColumn

	// FilterClauses are ANDed into the WHERE clause, each fragment in its
	// own parentheses.
	FilterClauses []string

	// Limit below zero means unbounded; Offset is ignored unless paging
	// is in effect.
	Limit  int64
	Offset int64

	// MajorVersion selects the paging dialect. Releases before 12 get the
	// nested ROWNUM form.
	MajorVersion int
}

// BuildSelectQuery renders the scan SQL. Identifier quoting is applied to
// schema and table names; column expressions arrive pre-rendered.
func BuildSelectQuery(bind ScanBindData) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(selectList(bind.Columns))
	b.WriteString(" FROM ")
	b.WriteString(filter.QuoteIdentifier(bind.Schema))
	b.WriteString(".")
	b.WriteString(filter.QuoteIdentifier(bind.Table))
	if len(bind.FilterClauses) > 0 {
		b.WriteString(" WHERE ")
		for i, clause := range bind.FilterClauses {
			if i > 0 {
				b.WriteString(" AND ")
			}
			b.WriteString("(")
			b.WriteString(clause)
			b.WriteString(")")
		}
	}

	if bind.Limit < 0 && bind.Offset <= 0 {
		return b.String()
	}
	if bind.MajorVersion >= modernPagingVersion {
		return modernPaging(b.String(), bind.Limit, bind.Offset)
	}
	return legacyPaging(b.String(), bind.Columns, bind.Limit, bind.Offset)
}

func selectList(cols []SelectColumn) string {
	if len(cols) == 0 {
		return "*"
	}
	items := make([]string, len(cols))
	for i, c := range cols {
		quoted := filter.QuoteIdentifier(c.Alias)
		if c.Expr == quoted {
			items[i] = c.Expr
		} else {
			items[i] = c.Expr + " " + quoted
		}
	}
	return strings.Join(items, ", ")
}

// modernPaging appends the ANSI row limiting clause. OFFSET is omitted
// when zero, matching the shortest form the server accepts.
func modernPaging(inner string, limit, offset int64) string {
	var b strings.Builder
	b.WriteString(inner)
	if offset > 0 {
		b.WriteString(" OFFSET ")
		writeInt(&b, offset)
		b.WriteString(" ROWS")
	}
	if limit >= 0 {
		b.WriteString(" FETCH FIRST ")
		writeInt(&b, limit)
		b.WriteString(" ROWS ONLY")
	}
	return b.String()
}

// legacyPaging wraps the query in the classic two-level ROWNUM pattern.
// The outer level re-projects by alias so the row counter never leaks
// into the result set.
func legacyPaging(inner string, cols []SelectColumn, limit, offset int64) string {
	if offset < 0 {
		offset = 0
	}

	var b strings.Builder
	if offset > 0 {
		b.WriteString("SELECT ")
		b.WriteString(aliasList(cols))
		b.WriteString(" FROM (")
	}
	b.WriteString("SELECT t__.*, ROWNUM rn__ FROM (")
	b.WriteString(inner)
	b.WriteString(") t__")
	if limit >= 0 {
		b.WriteString(" WHERE ROWNUM <= ")
		writeInt(&b, offset+limit)
	}
	if offset > 0 {
		b.WriteString(") WHERE rn__ > ")
		writeInt(&b, offset)
		return b.String()
	}
	// No offset: drop the counter column with an outer projection anyway
	// so both branches produce the same shape.
	return "SELECT " + aliasList(cols) + " FROM (" + b.String() + ")"
}

func aliasList(cols []SelectColumn) string {
	if len(cols) == 0 {
		return "*"
	}
	items := make([]string, len(cols))
	for i, c := range cols {
		items[i] = filter.QuoteIdentifier(c.Alias)
	}
	return strings.Join(items, ", ")
}

func writeInt(b *strings.Builder, n int64) {
	b.WriteString(strconv.FormatInt(n, 10))
}

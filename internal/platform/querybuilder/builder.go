// Package querybuilder renders the small set of Postgres statements the
// repositories need, numbering placeholders as $1..$n in argument order.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is one AND-joined term of a WHERE clause.
type Condition interface {
	render(w *writer)
}

type eq struct {
	column string
	value  any
}

func Eq(column string, value any) Condition { return eq{column: column, value: value} }

func (c eq) render(w *writer) {
	w.sql.WriteString(c.column + " = ")
	w.bind(c.value)
}

type isNull string

func IsNull(column string) Condition { return isNull(column) }

func (c isNull) render(w *writer) {
	w.sql.WriteString(string(c) + " IS NULL")
}

type expr struct {
	text string
	args []any
}

// Expr is a raw fragment; each '?' consumes the next arg. Surplus '?' are
// written through unchanged.
func Expr(text string, args ...any) Condition { return expr{text: text, args: args} }

func (c expr) render(w *writer) {
	next := 0
	for i := 0; i < len(c.text); i++ {
		if c.text[i] == '?' && next < len(c.args) {
			w.bind(c.args[next])
			next++
			continue
		}
		w.sql.WriteByte(c.text[i])
	}
}

// writer accumulates SQL text and its positional arguments together so the
// placeholder number always matches len(args).
type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sql.WriteString("$" + strconv.Itoa(len(w.args)))
}

func (w *writer) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.sql.WriteString(" WHERE ")
		} else {
			w.sql.WriteString(" AND ")
		}
		c.render(w)
	}
}

func (w *writer) suffix(s string) {
	if s = strings.TrimSpace(s); s != "" {
		w.sql.WriteString(" " + s)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

// Limit of zero or less means no limit.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 || strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select needs columns and a table")
	}

	var w writer
	w.sql.WriteString("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.sql.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.sql.WriteString(" LIMIT " + strconv.Itoa(b.limit))
	}
	return w.sql.String(), w.args, nil
}

type DeleteBuilder struct {
	table  string
	where  []Condition
	suffix string
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) Suffix(sql string) *DeleteBuilder {
	b.suffix = sql
	return b
}

// ToSQL refuses to build an unconditional delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete from %s without conditions", b.table)
	}

	var w writer
	w.sql.WriteString("DELETE FROM " + b.table)
	w.where(b.where)
	w.suffix(b.suffix)
	return w.sql.String(), w.args, nil
}

// insertRows renders a multi-row VALUES insert. Every row must match columns.
func insertRows(table string, columns []string, rows [][]any, suffix string) (string, []any, error) {
	if strings.TrimSpace(table) == "" || len(columns) == 0 {
		return "", nil, fmt.Errorf("insert needs a table and columns")
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("insert into %s without rows", table)
	}

	var w writer
	w.args = make([]any, 0, len(rows)*len(columns))
	w.sql.WriteString("INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES ")
	for r, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, want %d", r, len(row), len(columns))
		}
		if r > 0 {
			w.sql.WriteString(", ")
		}
		w.sql.WriteByte('(')
		for c, value := range row {
			if c > 0 {
				w.sql.WriteString(", ")
			}
			w.bind(value)
		}
		w.sql.WriteByte(')')
	}
	w.suffix(suffix)
	return w.sql.String(), w.args, nil
}

// Package sqlbuild turns sparse update requests and optional list filters
// into parameterized SQL fragments. Both builders are pure: they append
// strongly-typed assignment/predicate entries to an ordered list and render
// the fragment with contiguous 1-based placeholders at the end. Caller
// values never enter the statement text.
package sqlbuild

import (
	"fmt"
	"strings"

	"jobly/internal/apperr"
)

// ─────────────────────────────────────────────────────────────────────────────
// Partial-update compiler
// ─────────────────────────────────────────────────────────────────────────────

// Field is one logical field and the value it should be set to. A nil Value
// is legal and means "set the column to NULL" — distinct from the field
// being absent from the list altogether.
type Field struct {
	Name  string
	Value any
}

// Assignments is a rendered SET fragment plus its positionally matching
// argument list.
type Assignments struct {
	// SQL is the fragment, e.g. `"name" = $1, "num_employees" = $2`.
	SQL string
	// Args holds one value per placeholder, in placeholder order.
	Args []any
}

// Next returns the index of the placeholder following the last one in the
// fragment, for the caller's WHERE key:
//
//	UPDATE companies SET <a.SQL> WHERE handle = $<a.Next()>
func (a Assignments) Next() int { return len(a.Args) + 1 }

// UpdateSet compiles fields into a SET fragment. colMap translates logical
// field names to physical column names; names absent from colMap are used
// verbatim. An empty field list is a client error, reported before any SQL
// is built or any query issued.
func UpdateSet(fields []Field, colMap map[string]string) (Assignments, error) {
	if len(fields) == 0 {
		return Assignments{}, apperr.InvalidInput("No data")
	}

	frags := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i, f := range fields {
		col, ok := colMap[f.Name]
		if !ok {
			col = f.Name
		}
		frags = append(frags, fmt.Sprintf("%q = $%d", col, i+1))
		args = append(args, f.Value)
	}

	return Assignments{SQL: strings.Join(frags, ", "), Args: args}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Filter-query builder
// ─────────────────────────────────────────────────────────────────────────────

type predOp int

const (
	opContains predOp = iota // case-insensitive substring match
	opGTE
	opLTE
	opPositive // column > 0, no placeholder
)

type predicate struct {
	column string
	op     predOp
	value  any
}

// Where accumulates optional predicates and renders them as a conjunctive
// WHERE clause. Zero predicates render to the empty string so unfiltered
// lists issue no WHERE at all.
type Where struct {
	preds []predicate
}

// Contains matches rows whose column contains value, case-insensitively.
// The LOWER(...) LIKE LOWER(...) form is portable between the postgres the
// service runs on and the sqlite the tests run on; ILIKE is not.
func (w *Where) Contains(column, value string) {
	w.preds = append(w.preds, predicate{column: column, op: opContains, value: "%" + value + "%"})
}

// GTE matches rows whose column is >= value.
func (w *Where) GTE(column string, value any) {
	w.preds = append(w.preds, predicate{column: column, op: opGTE, value: value})
}

// LTE matches rows whose column is <= value.
func (w *Where) LTE(column string, value any) {
	w.preds = append(w.preds, predicate{column: column, op: opLTE, value: value})
}

// Positive matches rows whose column is strictly greater than zero. NULL
// rows never match. Contributes no placeholder.
func (w *Where) Positive(column string) {
	w.preds = append(w.preds, predicate{column: column, op: opPositive})
}

// Empty reports whether no predicate has been added.
func (w *Where) Empty() bool { return len(w.preds) == 0 }

// Clause renders the accumulated predicates. The fragment includes the
// leading " WHERE " so callers can append it to a base query unconditionally:
//
//	query := baseSelect + clause + " ORDER BY name"
func (w *Where) Clause() (string, []any) {
	if len(w.preds) == 0 {
		return "", nil
	}

	frags := make([]string, 0, len(w.preds))
	args := make([]any, 0, len(w.preds))
	idx := 1
	for _, p := range w.preds {
		switch p.op {
		case opContains:
			frags = append(frags, fmt.Sprintf("LOWER(%s) LIKE LOWER($%d)", p.column, idx))
			args = append(args, p.value)
			idx++
		case opGTE:
			frags = append(frags, fmt.Sprintf("%s >= $%d", p.column, idx))
			args = append(args, p.value)
			idx++
		case opLTE:
			frags = append(frags, fmt.Sprintf("%s <= $%d", p.column, idx))
			args = append(args, p.value)
			idx++
		case opPositive:
			frags = append(frags, p.column+" > 0")
		}
	}

	return " WHERE " + strings.Join(frags, " AND "), args
}

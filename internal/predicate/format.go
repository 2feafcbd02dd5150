package predicate

import (
	"errors"
	"fmt"

	"github.com/uptrace/bun/schema"
)

var (
	// ErrColumnRequired indicates a comparison or membership node without a column.
	ErrColumnRequired = errors.New("predicate: column is required")
	// ErrEmptyValueList indicates an IN list without values.
	ErrEmptyValueList = errors.New("predicate: value list is empty")
	// ErrSubSelectIncomplete indicates a sub-select missing its table or column.
	ErrSubSelectIncomplete = errors.New("predicate: sub-select requires table and column")
)

func unsupported(kind Kind) error {
	return fmt.Errorf("predicate: unsupported operator %q", kind)
}

// Format renders expr with bun's dialect-neutral generator. Identifiers are
// double quoted. Rendering errors are reported inline.
func Format(expr Expr) string {
	return FormatWith(schema.NewNopQueryGen(), expr)
}

// FormatWith renders expr using the provided query generator, typically
// db.QueryGen() or schema.NewQueryGen(dialect).
func FormatWith(gen schema.QueryGen, expr Expr) string {
	if expr == nil {
		expr = True()
	}
	b, err := expr.AppendQuery(gen, nil)
	if err != nil {
		return fmt.Sprintf("?!(%v)", err)
	}
	return string(b)
}

package predicate

import (
	"reflect"
	"strings"

	"github.com/uptrace/bun/schema"
)

// Kind identifies the node type of a predicate expression.
type Kind string

const (
	KindTrue  Kind = "true"
	KindAnd   Kind = "and"
	KindOr    Kind = "or"
	KindEq    Kind = "eq"
	KindNeq   Kind = "neq"
	KindGt    Kind = "gt"
	KindIn    Kind = "in"
	KindNotIn Kind = "not_in"
)

// Expr is a composable boolean expression over row columns. Every node
// satisfies bun's QueryAppender so a tree can be passed straight into
// query.Where("?", expr).
type Expr interface {
	schema.QueryAppender
	Kind() Kind
	String() string
}

// Column joins a table alias and a field name into a qualified identifier.
func Column(alias, field string) string {
	alias = strings.TrimSpace(alias)
	field = strings.TrimSpace(field)
	if alias == "" {
		return field
	}
	return alias + "." + field
}

// True returns the always-true predicate.
func True() Expr {
	return trueExpr{}
}

// IsTrue reports whether expr is the always-true predicate (or nil).
func IsTrue(expr Expr) bool {
	return expr == nil || expr.Kind() == KindTrue
}

type trueExpr struct{}

func (trueExpr) Kind() Kind { return KindTrue }

func (t trueExpr) String() string { return Format(t) }

func (trueExpr) AppendQuery(_ schema.QueryGen, b []byte) ([]byte, error) {
	return append(b, "1 = 1"...), nil
}

// Composite joins parts with AND or OR.
type Composite struct {
	Type  Kind
	Parts []Expr
}

// And returns the conjunction of parts. Nil and always-true parts are dropped.
func And(parts ...Expr) Expr {
	return newComposite(KindAnd, parts)
}

// Or returns the disjunction of parts. Nil parts are dropped.
func Or(parts ...Expr) Expr {
	return newComposite(KindOr, parts)
}

func newComposite(kind Kind, parts []Expr) Expr {
	kept := make([]Expr, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			continue
		}
		if kind == KindAnd && part.Kind() == KindTrue {
			continue
		}
		kept = append(kept, part)
	}
	return Composite{Type: kind, Parts: kept}
}

func (c Composite) Kind() Kind { return c.Type }

func (c Composite) String() string { return Format(c) }

func (c Composite) AppendQuery(gen schema.QueryGen, b []byte) ([]byte, error) {
	if len(c.Parts) == 0 {
		if c.Type == KindOr {
			return append(b, "1 = 0"...), nil
		}
		return append(b, "1 = 1"...), nil
	}
	sep := " AND "
	if c.Type == KindOr {
		sep = " OR "
	}
	var err error
	for i, part := range c.Parts {
		if i > 0 {
			b = append(b, sep...)
		}
		b = append(b, '(')
		if b, err = part.AppendQuery(gen, b); err != nil {
			return nil, err
		}
		b = append(b, ')')
	}
	return b, nil
}

// Comparison compares a column against an integer value.
type Comparison struct {
	Op     Kind
	Column string
	Value  int
}

// Eq returns column = value.
func Eq(column string, value int) Expr {
	return Comparison{Op: KindEq, Column: column, Value: value}
}

// Neq returns column <> value.
func Neq(column string, value int) Expr {
	return Comparison{Op: KindNeq, Column: column, Value: value}
}

// Gt returns column > value.
func Gt(column string, value int) Expr {
	return Comparison{Op: KindGt, Column: column, Value: value}
}

func (c Comparison) Kind() Kind { return c.Op }

func (c Comparison) String() string { return Format(c) }

func (c Comparison) AppendQuery(gen schema.QueryGen, b []byte) ([]byte, error) {
	if c.Column == "" {
		return nil, ErrColumnRequired
	}
	b = gen.AppendIdent(b, c.Column)
	switch c.Op {
	case KindEq:
		b = append(b, " = "...)
	case KindNeq:
		b = append(b, " <> "...)
	case KindGt:
		b = append(b, " > "...)
	default:
		return nil, unsupported(c.Op)
	}
	return gen.Append(b, c.Value), nil
}

// Membership tests a column against a value list or a sub-select.
type Membership struct {
	Op     Kind
	Column string
	Values []int
	Select *SubSelect
}

// In returns column IN (values...).
func In(column string, values ...int) Expr {
	return Membership{Op: KindIn, Column: column, Values: append([]int(nil), values...)}
}

// InSelect returns column IN (sub-select).
func InSelect(column string, sub *SubSelect) Expr {
	return Membership{Op: KindIn, Column: column, Select: sub}
}

// NotInSelect returns column NOT IN (sub-select).
func NotInSelect(column string, sub *SubSelect) Expr {
	return Membership{Op: KindNotIn, Column: column, Select: sub}
}

func (m Membership) Kind() Kind { return m.Op }

func (m Membership) String() string { return Format(m) }

func (m Membership) AppendQuery(gen schema.QueryGen, b []byte) ([]byte, error) {
	if m.Column == "" {
		return nil, ErrColumnRequired
	}
	b = gen.AppendIdent(b, m.Column)
	switch m.Op {
	case KindIn:
		b = append(b, " IN ("...)
	case KindNotIn:
		b = append(b, " NOT IN ("...)
	default:
		return nil, unsupported(m.Op)
	}
	if m.Select != nil {
		var err error
		if b, err = m.Select.AppendQuery(gen, b); err != nil {
			return nil, err
		}
		return append(b, ')'), nil
	}
	if len(m.Values) == 0 {
		return nil, ErrEmptyValueList
	}
	for i, value := range m.Values {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = gen.Append(b, value)
	}
	return append(b, ')'), nil
}

// SubSelect selects a single column from a table under its own alias.
type SubSelect struct {
	Table  string
	Alias  string
	Column string
	Where  Expr
}

// NewSubSelect describes SELECT alias.column FROM table AS alias WHERE where.
func NewSubSelect(table, alias, column string, where Expr) *SubSelect {
	return &SubSelect{
		Table:  strings.TrimSpace(table),
		Alias:  strings.TrimSpace(alias),
		Column: strings.TrimSpace(column),
		Where:  where,
	}
}

func (s *SubSelect) AppendQuery(gen schema.QueryGen, b []byte) ([]byte, error) {
	if s == nil || s.Table == "" || s.Column == "" {
		return nil, ErrSubSelectIncomplete
	}
	b = append(b, "SELECT "...)
	b = gen.AppendIdent(b, Column(s.Alias, s.Column))
	b = append(b, " FROM "...)
	b = gen.AppendIdent(b, s.Table)
	if s.Alias != "" {
		b = append(b, " AS "...)
		b = gen.AppendIdent(b, s.Alias)
	}
	if IsTrue(s.Where) {
		return b, nil
	}
	b = append(b, " WHERE "...)
	return s.Where.AppendQuery(gen, b)
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b Expr) bool {
	return reflect.DeepEqual(a, b)
}

// Walk visits expr and every nested node depth first, including the
// conditions of sub-selects. Returning false from fn stops descent below
// the current node.
func Walk(expr Expr, fn func(Expr) bool) {
	if expr == nil || fn == nil {
		return
	}
	if !fn(expr) {
		return
	}
	switch typed := expr.(type) {
	case Composite:
		for _, part := range typed.Parts {
			Walk(part, fn)
		}
	case Membership:
		if typed.Select != nil {
			Walk(typed.Select.Where, fn)
		}
	}
}

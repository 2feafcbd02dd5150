package dbquery

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-l10nfallback/internal/l10n"
	"github.com/goliatone/go-l10nfallback/internal/logging"
	"github.com/goliatone/go-l10nfallback/internal/predicate"
	"github.com/goliatone/go-l10nfallback/internal/tableschema"
	"github.com/goliatone/go-l10nfallback/pkg/interfaces"
)

// ErrTableRequired is returned when a statement is requested without a table name.
var ErrTableRequired = errors.New("dbquery: table name required")

// Parser embeds language predicates into bun select queries.
type Parser struct {
	builder *l10n.Builder
	schemas tableschema.Source
	logger  interfaces.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the parser logger.
func WithLogger(logger interfaces.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser constructs a parser. A nil builder yields a builder without
// eligibility, which only ever produces baseline predicates.
func NewParser(builder *l10n.Builder, schemas tableschema.Source, opts ...ParserOption) *Parser {
	if builder == nil {
		builder = l10n.NewBuilder()
	}
	p := &Parser{
		builder: builder,
		schemas: schemas,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Statement returns the language predicate for table. Tables unknown to the
// schema source are not localizable.
func (p *Parser) Statement(ctx context.Context, table, alias string, selection l10n.LanguageSelection) (predicate.Expr, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, ErrTableRequired
	}
	if p.schemas == nil {
		return predicate.True(), nil
	}
	ts, ok := p.schemas.Lookup(table)
	if !ok {
		p.logger.Debug("dbquery.statement.unknown_table", "table", table)
		return predicate.True(), nil
	}
	return p.builder.BuildPredicate(ctx, ts, aliasFor(table, alias), selection), nil
}

// ApplyLanguageStatement adds the language predicate of table to q. The
// always-true predicate adds nothing.
func (p *Parser) ApplyLanguageStatement(ctx context.Context, q *bun.SelectQuery, table, alias string, selection l10n.LanguageSelection) (*bun.SelectQuery, error) {
	expr, err := p.Statement(ctx, table, alias, selection)
	if err != nil {
		return q, err
	}
	if predicate.IsTrue(expr) {
		return q, nil
	}
	return q.Where("?", expr), nil
}

// NewSelect starts SELECT alias.* FROM table AS alias with the language
// predicate applied.
func (p *Parser) NewSelect(ctx context.Context, db bun.IDB, table, alias string, selection l10n.LanguageSelection) (*bun.SelectQuery, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, ErrTableRequired
	}
	alias = aliasFor(table, alias)
	q := db.NewSelect().
		TableExpr("? AS ?", bun.Ident(table), bun.Ident(alias)).
		ColumnExpr("?.*", bun.Ident(alias))
	return p.ApplyLanguageStatement(ctx, q, table, alias, selection)
}

// Render formats the predicate of table for the dialect behind gen.
func (p *Parser) Render(ctx context.Context, gen schema.QueryGen, table, alias string, selection l10n.LanguageSelection) (string, error) {
	expr, err := p.Statement(ctx, table, alias, selection)
	if err != nil {
		return "", err
	}
	return predicate.FormatWith(gen, expr), nil
}

func aliasFor(table, alias string) string {
	if alias = strings.TrimSpace(alias); alias != "" {
		return alias
	}
	return table
}

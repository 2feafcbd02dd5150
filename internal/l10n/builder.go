package l10n

import (
	"context"
	"strings"

	"github.com/goliatone/go-l10nfallback/internal/logging"
	"github.com/goliatone/go-l10nfallback/internal/predicate"
	"github.com/goliatone/go-l10nfallback/internal/tableschema"
	"github.com/goliatone/go-l10nfallback/pkg/interfaces"
)

const (
	defaultLanguageAliasSuffix = "_dl"
	translatedOnlyAliasSuffix  = "_to"
)

// TableLanguageSchema re-exports the per-table localization metadata.
type TableLanguageSchema = tableschema.TableLanguageSchema

// EligibilityChecker decides whether the orphan-translation fix applies to a
// table. Implementations must never fail: unresolvable configuration means
// "not eligible".
type EligibilityChecker interface {
	Eligible(ctx context.Context, table string) bool
}

// EligibilityFunc adapts a function to EligibilityChecker.
type EligibilityFunc func(ctx context.Context, table string) bool

func (f EligibilityFunc) Eligible(ctx context.Context, table string) bool {
	if f == nil {
		return false
	}
	return f(ctx, table)
}

// Builder produces language predicates for localizable tables. It holds no
// per-call state and is safe for concurrent use.
type Builder struct {
	eligibility EligibilityChecker
	schemas     tableschema.Source
	logger      interfaces.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithEligibility sets the allow list check. Without one no table is eligible.
func WithEligibility(checker EligibilityChecker) Option {
	return func(b *Builder) {
		b.eligibility = checker
	}
}

// WithSchemaSource sets the source used by BuildForTable.
func WithSchemaSource(source tableschema.Source) Option {
	return func(b *Builder) {
		b.schemas = source
	}
}

// WithLogger sets the builder logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder constructs a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// IsTableEligible reports whether the fallback fix applies to table.
func (b *Builder) IsTableEligible(ctx context.Context, table string) bool {
	if b == nil || b.eligibility == nil {
		return false
	}
	return b.eligibility.Eligible(ctx, table)
}

// BuildPredicate returns the language predicate for schema under tableAlias.
// Tables without a language field yield the always-true predicate and skip
// the eligibility lookup.
func (b *Builder) BuildPredicate(ctx context.Context, schema TableLanguageSchema, tableAlias string, selection LanguageSelection) predicate.Expr {
	if !schema.Localizable() {
		return predicate.True()
	}
	eligible := b.IsTableEligible(ctx, schema.Table)
	expr := Statement(schema, tableAlias, selection, eligible)

	if b != nil {
		logging.WithFields(b.logger, map[string]any{
			"table":    schema.Table,
			"alias":    tableAlias,
			"language": selection.LanguageID,
			"policy":   selection.Policy.String(),
			"eligible": eligible,
		}).Trace("l10n.predicate.built", "kind", string(expr.Kind()))
	}
	return expr
}

// BuildForTable resolves the schema of table from the configured schema
// source and builds its predicate. Unknown tables are not localizable.
func (b *Builder) BuildForTable(ctx context.Context, table, tableAlias string, selection LanguageSelection) predicate.Expr {
	if b == nil || b.schemas == nil {
		return predicate.True()
	}
	schema, ok := b.schemas.Lookup(table)
	if !ok {
		return predicate.True()
	}
	return b.BuildPredicate(ctx, schema, tableAlias, selection)
}

// Statement is the pure predicate construction for an already resolved
// eligibility.
//
// Ineligible tables, tables without a translation parent, requests for the
// default or all languages, policies without overlays, and schemas without a
// table name get the baseline "language IN (requested, -1)". Otherwise the result is the OR of:
//
//  1. rows valid for all languages
//  2. translations whose parent is an existing default-language row
//  3. translations that declare no parent (orphans)
//  4. floating translations (OverlayOnWithFloating only; overlaps 3)
//  5. untranslated default-language rows (OverlayMixed only)
//
// Rows admitted here are still subject to overlay post-processing; branch 4
// is kept even though 3 already covers it.
func Statement(schema TableLanguageSchema, tableAlias string, selection LanguageSelection, eligible bool) predicate.Expr {
	if !schema.Localizable() {
		return predicate.True()
	}

	alias := strings.TrimSpace(tableAlias)
	if alias == "" {
		alias = strings.TrimSpace(schema.Table)
	}
	languageField := strings.TrimSpace(schema.LanguageField)
	language := predicate.Column(alias, languageField)
	baseline := predicate.In(language, selection.LanguageID, LanguageAll)

	if !eligible || !schema.HasTranslationParent() || !selection.ContentLanguage() {
		return baseline
	}
	if strings.TrimSpace(schema.Table) == "" {
		return baseline
	}
	if !selection.Policy.Overlays() {
		return baseline
	}

	parentField := strings.TrimSpace(schema.TranslationParentField)
	parent := predicate.Column(alias, parentField)
	requested := selection.LanguageID

	defaultAlias := alias + defaultLanguageAliasSuffix
	defaultLanguageRecords := predicate.NewSubSelect(schema.Table, defaultAlias, schema.UID(), predicate.And(
		predicate.Eq(predicate.Column(defaultAlias, parentField), NoParent),
		predicate.Eq(predicate.Column(defaultAlias, languageField), LanguageDefault),
	))

	branches := []predicate.Expr{
		predicate.Eq(language, LanguageAll),
		predicate.And(
			predicate.Eq(language, requested),
			predicate.InSelect(parent, defaultLanguageRecords),
		),
		predicate.And(
			predicate.Eq(language, requested),
			predicate.Eq(parent, NoParent),
		),
	}

	switch selection.Policy {
	case OverlayOnWithFloating:
		branches = append(branches, predicate.And(
			predicate.Eq(language, requested),
			predicate.Eq(parent, NoParent),
			predicate.NotInSelect(parent, defaultLanguageRecords),
		))
	case OverlayMixed:
		translatedAlias := alias + translatedOnlyAliasSuffix
		translatedParents := predicate.NewSubSelect(schema.Table, translatedAlias, parentField, predicate.And(
			predicate.Gt(predicate.Column(translatedAlias, parentField), NoParent),
			predicate.Eq(predicate.Column(translatedAlias, languageField), requested),
		))
		branches = append(branches, predicate.And(
			predicate.Eq(language, LanguageDefault),
			predicate.NotInSelect(predicate.Column(alias, schema.UID()), translatedParents),
		))
	}

	return predicate.Or(branches...)
}

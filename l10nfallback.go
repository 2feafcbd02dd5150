package l10nfallback

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10nfallback/internal/allowlist"
	allowlistcmd "github.com/goliatone/go-l10nfallback/internal/commands/allowlist"
	"github.com/goliatone/go-l10nfallback/internal/dbquery"
	"github.com/goliatone/go-l10nfallback/internal/di"
	"github.com/goliatone/go-l10nfallback/internal/extconfig"
	"github.com/goliatone/go-l10nfallback/internal/l10n"
	"github.com/goliatone/go-l10nfallback/internal/predicate"
	"github.com/goliatone/go-l10nfallback/internal/tableschema"
)

// Predicate is a renderable boolean expression tree.
type Predicate = predicate.Expr

// TableLanguageSchema describes the localization columns of one table.
type TableLanguageSchema = tableschema.TableLanguageSchema

// LanguageSelection is the requested language and overlay policy.
type LanguageSelection = l10n.LanguageSelection

// OverlayPolicy controls fallback to default-language records.
type OverlayPolicy = l10n.OverlayPolicy

// Settings is the configuration tree of one extension section.
type Settings = extconfig.Settings

// SettingsRepository persists extension sections.
type SettingsRepository = extconfig.Repository

// AllowList is a parsed table allow list.
type AllowList = allowlist.List

const (
	OverlayNone           = l10n.OverlayNone
	OverlayOn             = l10n.OverlayOn
	OverlayOnWithFloating = l10n.OverlayOnWithFloating
	OverlayMixed          = l10n.OverlayMixed
)

var (
	// ErrExtensionNotConfigured is reported when the allow list section is absent.
	ErrExtensionNotConfigured = extconfig.ErrExtensionNotConfigured
	// ErrPathDoesNotExist is reported when the section lacks the table list.
	ErrPathDoesNotExist = extconfig.ErrPathDoesNotExist
)

// ParseOverlayPolicy accepts off, on, on_with_floating or mixed.
func ParseOverlayPolicy(raw string) (OverlayPolicy, error) {
	return l10n.ParseOverlayPolicy(raw)
}

// NewLanguageSelection validates and builds a selection.
func NewLanguageSelection(languageID int, policy OverlayPolicy) (LanguageSelection, error) {
	return l10n.NewLanguageSelection(languageID, policy)
}

// FormatPredicate renders p with double quoted identifiers.
func FormatPredicate(p Predicate) string {
	return predicate.Format(p)
}

// Option customises the DI container.
type Option = di.Option

var (
	WithBunDB              = di.WithBunDB
	WithCache              = di.WithCache
	WithLoggerProvider     = di.WithLoggerProvider
	WithSettingsRepository = di.WithSettingsRepository
	WithSchemas            = di.WithSchemas
)

// Module is the top level façade of the translation fallback runtime.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Builder returns the predicate builder.
func (m *Module) Builder() *l10n.Builder {
	return m.container.Builder()
}

// Parser returns the bun query adapter.
func (m *Module) Parser() *dbquery.Parser {
	return m.container.Parser()
}

// Settings returns the extension settings store.
func (m *Module) Settings() SettingsRepository {
	return m.container.SettingsRepository()
}

// RegisterSchema adds or replaces a localizable table.
func (m *Module) RegisterSchema(schema TableLanguageSchema) error {
	return m.container.Schemas().Register(schema)
}

// IsTableEligible reports whether the orphan translation fallback applies to table.
func (m *Module) IsTableEligible(ctx context.Context, table string) bool {
	return m.container.Builder().IsTableEligible(ctx, table)
}

// AllowList returns the currently configured allow list.
func (m *Module) AllowList(ctx context.Context) (AllowList, error) {
	return m.container.Resolver().Resolve(ctx)
}

// BuildPredicate returns the language predicate for schema.
func (m *Module) BuildPredicate(ctx context.Context, schema TableLanguageSchema, tableAlias string, selection LanguageSelection) Predicate {
	return m.container.Builder().BuildPredicate(ctx, schema, tableAlias, selection)
}

// BuildForTable returns the language predicate of a registered table.
func (m *Module) BuildForTable(ctx context.Context, table, tableAlias string, selection LanguageSelection) Predicate {
	return m.container.Builder().BuildForTable(ctx, table, tableAlias, selection)
}

// NewSelect starts a select over table with the language predicate applied.
func (m *Module) NewSelect(ctx context.Context, db bun.IDB, table, tableAlias string, selection LanguageSelection) (*bun.SelectQuery, error) {
	return m.container.Parser().NewSelect(ctx, db, table, tableAlias, selection)
}

// ConfigureTables stores tables as the allow list. A single "*" enables every table.
func (m *Module) ConfigureTables(ctx context.Context, tables ...string) error {
	return m.container.ConfigureTablesHandler().Execute(ctx, allowlistcmd.ConfigureTablesCommand{
		Extension: m.container.Resolver().Extension(),
		Tables:    tables,
	})
}

// ClearTables removes the allow list.
func (m *Module) ClearTables(ctx context.Context) error {
	return m.container.ClearTablesHandler().Execute(ctx, allowlistcmd.ClearTablesCommand{
		Extension: m.container.Resolver().Extension(),
	})
}

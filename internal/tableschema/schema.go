package tableschema

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultUIDField names the primary key column used when a schema omits one.
const DefaultUIDField = "uid"

// ErrTableNameRequired indicates a schema registration without a table name.
var ErrTableNameRequired = errors.New("tableschema: table name is required")

// TableLanguageSchema describes the localization columns of one table.
// An empty LanguageField marks the table as not localizable.
type TableLanguageSchema struct {
	Table                  string
	LanguageField          string
	TranslationParentField string
	UIDField               string
}

// Localizable reports whether the table carries a language column.
func (s TableLanguageSchema) Localizable() bool {
	return strings.TrimSpace(s.LanguageField) != ""
}

// HasTranslationParent reports whether the table points translations at their
// default-language row.
func (s TableLanguageSchema) HasTranslationParent() bool {
	return strings.TrimSpace(s.TranslationParentField) != ""
}

// UID returns the primary key column, defaulting to "uid".
func (s TableLanguageSchema) UID() string {
	if uid := strings.TrimSpace(s.UIDField); uid != "" {
		return uid
	}
	return DefaultUIDField
}

// Source resolves language metadata per table. Unknown tables report false
// rather than an error: they are simply not localizable.
type Source interface {
	Lookup(table string) (TableLanguageSchema, bool)
}

// Registry is an in-memory Source safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]TableLanguageSchema
}

var _ Source = (*Registry)(nil)

// NewRegistry constructs a registry seeded with the provided schemas.
func NewRegistry(schemas ...TableLanguageSchema) *Registry {
	r := &Registry{tables: make(map[string]TableLanguageSchema, len(schemas))}
	for _, s := range schemas {
		_ = r.Register(s)
	}
	return r
}

// Register stores or replaces the schema for s.Table.
func (r *Registry) Register(s TableLanguageSchema) error {
	name := strings.TrimSpace(s.Table)
	if name == "" {
		return ErrTableNameRequired
	}
	s.Table = name
	s.LanguageField = strings.TrimSpace(s.LanguageField)
	s.TranslationParentField = strings.TrimSpace(s.TranslationParentField)
	s.UIDField = strings.TrimSpace(s.UIDField)

	r.mu.Lock()
	if r.tables == nil {
		r.tables = map[string]TableLanguageSchema{}
	}
	r.tables[name] = s
	r.mu.Unlock()
	return nil
}

// Lookup returns the schema registered for table.
func (r *Registry) Lookup(table string) (TableLanguageSchema, bool) {
	if r == nil {
		return TableLanguageSchema{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.tables[strings.TrimSpace(table)]
	return s, ok
}

// Tables lists registered table names in sorted order.
func (r *Registry) Tables() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Merge registers every schema of other, replacing existing entries.
func (r *Registry) Merge(other *Registry) {
	if r == nil || other == nil {
		return
	}
	for _, name := range other.Tables() {
		if s, ok := other.Lookup(name); ok {
			_ = r.Register(s)
		}
	}
}

type yamlDocument struct {
	Tables map[string]yamlTable `yaml:"tables"`
}

type yamlTable struct {
	LanguageField          string `yaml:"language_field"`
	TranslationParentField string `yaml:"translation_parent_field"`
	UIDField               string `yaml:"uid_field"`
}

// LoadYAML reads table definitions of the form
//
//	tables:
//	  tx_news_domain_model_news:
//	    language_field: sys_language_uid
//	    translation_parent_field: l10n_parent
//
// and registers them into a new Registry.
func LoadYAML(r io.Reader) (*Registry, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewRegistry(), nil
		}
		return nil, fmt.Errorf("tableschema: decode yaml: %w", err)
	}
	registry := NewRegistry()
	for name, def := range doc.Tables {
		if err := registry.Register(TableLanguageSchema{
			Table:                  name,
			LanguageField:          def.LanguageField,
			TranslationParentField: def.TranslationParentField,
			UIDField:               def.UIDField,
		}); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

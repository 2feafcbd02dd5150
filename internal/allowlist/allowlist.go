package allowlist

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-l10nfallback/internal/extconfig"
	"github.com/goliatone/go-l10nfallback/internal/logging"
	"github.com/goliatone/go-l10nfallback/pkg/interfaces"
)

const (
	// Wildcard enables every table.
	Wildcard = "*"
	// DefaultExtension is the configuration section holding the table list.
	DefaultExtension = "extbase_with_no_l10n_parent"
	// DefaultPath is the key of the table list inside the section.
	DefaultPath = "tables"
)

// List is a parsed table allow list: either the wildcard or a set of names.
type List struct {
	wildcard bool
	tables   []string
}

// Parse reads "*" or a comma separated list of table names. Entries are
// trimmed; empty entries are ignored.
func Parse(raw string) List {
	trimmed := strings.TrimSpace(raw)
	if trimmed == Wildcard {
		return List{wildcard: true}
	}
	var tables []string
	seen := map[string]struct{}{}
	for _, entry := range strings.Split(trimmed, ",") {
		name := strings.TrimSpace(entry)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tables = append(tables, name)
	}
	return List{tables: tables}
}

// Wildcard reports whether the list enables every table.
func (l List) Wildcard() bool { return l.wildcard }

// Empty reports whether the list enables no table.
func (l List) Empty() bool { return !l.wildcard && len(l.tables) == 0 }

// Tables returns the explicit table names in declaration order.
func (l List) Tables() []string {
	return append([]string(nil), l.tables...)
}

// Contains reports whether table is enabled by the list.
func (l List) Contains(table string) bool {
	if l.wildcard {
		return true
	}
	name := strings.TrimSpace(table)
	if name == "" {
		return false
	}
	for _, candidate := range l.tables {
		if candidate == name {
			return true
		}
	}
	return false
}

func (l List) String() string {
	if l.wildcard {
		return Wildcard
	}
	return strings.Join(l.tables, ",")
}

// Resolver answers table eligibility from the extension configuration
// store. The store is read on every call.
type Resolver struct {
	repo      extconfig.Repository
	extension string
	path      string
	logger    interfaces.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtension overrides the configuration section name.
func WithExtension(extension string) Option {
	return func(r *Resolver) {
		if trimmed := strings.TrimSpace(extension); trimmed != "" {
			r.extension = trimmed
		}
	}
}

// WithPath overrides the key of the table list inside the section.
func WithPath(path string) Option {
	return func(r *Resolver) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			r.path = trimmed
		}
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a resolver reading from repo.
func NewResolver(repo extconfig.Repository, opts ...Option) *Resolver {
	r := &Resolver{
		repo:      repo,
		extension: DefaultExtension,
		path:      DefaultPath,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Extension returns the configuration section the resolver reads.
func (r *Resolver) Extension() string { return r.extension }

// Path returns the key of the table list inside the section.
func (r *Resolver) Path() string { return r.path }

// Resolve loads and parses the allow list. Errors unwrap to
// extconfig.ErrExtensionNotConfigured or extconfig.ErrPathDoesNotExist when
// the configuration is absent.
func (r *Resolver) Resolve(ctx context.Context) (List, error) {
	if r == nil {
		return List{}, extconfig.ErrExtensionNotConfigured
	}
	raw, err := extconfig.LookupString(ctx, r.repo, r.extension, r.path)
	if err != nil {
		return List{}, err
	}
	return Parse(raw), nil
}

// Eligible reports whether table is enabled. Every resolution failure
// yields false.
func (r *Resolver) Eligible(ctx context.Context, table string) bool {
	if r == nil {
		return false
	}
	list, err := r.Resolve(ctx)
	if err != nil {
		logger := logging.WithFields(r.logger, map[string]any{
			"table":     table,
			"extension": r.extension,
			"path":      r.path,
			"reason":    reason(err),
		})
		if isMissing(err) {
			logger.Debug("allowlist.resolve.disabled")
		} else {
			logger.Warn("allowlist.resolve.failed", "error", err)
		}
		return false
	}
	return list.Contains(table)
}

func isMissing(err error) bool {
	return errors.Is(err, extconfig.ErrExtensionNotConfigured) || errors.Is(err, extconfig.ErrPathDoesNotExist)
}

func reason(err error) string {
	switch {
	case errors.Is(err, extconfig.ErrExtensionNotConfigured):
		return "extension_not_configured"
	case errors.Is(err, extconfig.ErrPathDoesNotExist):
		return "path_missing"
	default:
		return "error"
	}
}

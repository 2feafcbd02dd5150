package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-l10nfallback/pkg/interfaces"
)

const (
	rootModule      = "l10n"
	predicateModule = "l10n.predicate"
	allowListModule = "l10n.allowlist"
	queryModule     = "l10n.query"
	commandsModule  = "l10n.commands"
)

// ModuleLogger returns a logger scoped to module, falling back to a no-op
// logger when provider is nil or yields nothing. The module name is attached
// as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return logger.WithFields(map[string]any{"module": module})
}

// PredicateLogger returns the logger used by the predicate builder.
func PredicateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, predicateModule)
}

// AllowListLogger returns the logger used by allow list resolution.
func AllowListLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, allowListModule)
}

// QueryLogger returns the logger used by query composition.
func QueryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, queryModule)
}

// CommandLogger returns the logger for a command sub-module, e.g. "allowlist".
func CommandLogger(provider interfaces.LoggerProvider, name string) interfaces.Logger {
	name = strings.TrimSpace(name)
	if name == "" {
		return ModuleLogger(provider, commandsModule)
	}
	return ModuleLogger(provider, commandsModule+"."+name)
}

// WithFields attaches a copy of fields to logger. Nil loggers and empty
// field sets pass through untouched.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return logger.WithFields(copied)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }

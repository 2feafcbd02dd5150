package allowlistcmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-l10nfallback/internal/allowlist"
	"github.com/goliatone/go-l10nfallback/internal/commands"
	"github.com/goliatone/go-l10nfallback/internal/extconfig"
	"github.com/goliatone/go-l10nfallback/internal/logging"
	"github.com/goliatone/go-l10nfallback/pkg/interfaces"
)

const (
	configureOperation = "allowlist.configure_tables"
	clearOperation     = "allowlist.clear_tables"
)

// ErrRepositoryRequired is returned by handlers constructed without a settings store.
var ErrRepositoryRequired = errors.New("allowlist command: settings repository required")

var (
	_ command.Commander[ConfigureTablesCommand] = (*ConfigureTablesHandler)(nil)
	_ command.Commander[ClearTablesCommand]     = (*ClearTablesHandler)(nil)
)

// ConfigureTablesHandler writes the table list into the extension settings.
type ConfigureTablesHandler struct {
	inner *commands.Handler[ConfigureTablesCommand]
}

// NewConfigureTablesHandler binds the handler to repo. The list is stored
// under path, or allowlist.DefaultPath when path is empty.
func NewConfigureTablesHandler(repo extconfig.Repository, path string, logger interfaces.Logger, opts ...commands.HandlerOption[ConfigureTablesCommand]) *ConfigureTablesHandler {
	path = pathOrDefault(path)
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ConfigureTablesCommand) error {
		if repo == nil {
			return ErrRepositoryRequired
		}
		extension := extensionOrDefault(msg.Extension)
		settings, err := currentSettings(ctx, repo, extension)
		if err != nil {
			return err
		}
		list := msg.List()
		if _, err := repo.Upsert(ctx, extension, settings.Set(path, list.String())); err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"extension": extension,
			"path":      path,
			"wildcard":  list.Wildcard(),
			"tables":    list.Tables(),
		}).Info("allowlist.command.configure_tables.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ConfigureTablesCommand]{
		commands.WithLogger[ConfigureTablesCommand](logger),
		commands.WithOperation[ConfigureTablesCommand](configureOperation),
		commands.WithMessageFields(func(msg ConfigureTablesCommand) map[string]any {
			return map[string]any{
				"extension":   extensionOrDefault(msg.Extension),
				"table_count": len(msg.Tables),
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ConfigureTablesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ConfigureTablesCommand].
func (h *ConfigureTablesHandler) Execute(ctx context.Context, msg ConfigureTablesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ClearTablesHandler removes the table list. The extension section is
// deleted once nothing else remains in it.
type ClearTablesHandler struct {
	inner *commands.Handler[ClearTablesCommand]
}

// NewClearTablesHandler binds the handler to repo.
func NewClearTablesHandler(repo extconfig.Repository, path string, logger interfaces.Logger, opts ...commands.HandlerOption[ClearTablesCommand]) *ClearTablesHandler {
	path = pathOrDefault(path)
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ClearTablesCommand) error {
		if repo == nil {
			return ErrRepositoryRequired
		}
		extension := extensionOrDefault(msg.Extension)
		settings, err := currentSettings(ctx, repo, extension)
		if err != nil {
			return err
		}
		fields := map[string]any{"extension": extension, "path": path}
		if !settings.Unset(path) {
			logging.WithFields(logger, fields).Debug("allowlist.command.clear_tables.noop")
			return nil
		}
		if len(settings) == 0 {
			err = repo.Delete(ctx, extension)
		} else {
			_, err = repo.Upsert(ctx, extension, settings)
		}
		if err != nil {
			return err
		}
		logging.WithFields(logger, fields).Info("allowlist.command.clear_tables.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ClearTablesCommand]{
		commands.WithLogger[ClearTablesCommand](logger),
		commands.WithOperation[ClearTablesCommand](clearOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ClearTablesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ClearTablesCommand].
func (h *ClearTablesHandler) Execute(ctx context.Context, msg ClearTablesCommand) error {
	return h.inner.Execute(ctx, msg)
}

func currentSettings(ctx context.Context, repo extconfig.Repository, extension string) (extconfig.Settings, error) {
	settings, err := repo.Get(ctx, extension)
	if errors.Is(err, extconfig.ErrExtensionNotConfigured) {
		return extconfig.Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = extconfig.Settings{}
	}
	return settings, nil
}

func pathOrDefault(path string) string {
	if trimmed := strings.Trim(strings.TrimSpace(path), extconfig.PathSeparator); trimmed != "" {
		return trimmed
	}
	return allowlist.DefaultPath
}

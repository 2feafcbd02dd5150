package allowlistcmd

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-l10nfallback/internal/allowlist"
)

const (
	configureTablesMessageType = "l10n.allowlist.configure_tables"
	clearTablesMessageType     = "l10n.allowlist.clear_tables"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ConfigureTablesCommand enables the orphan translation fallback for Tables.
// A single "*" entry enables every table.
type ConfigureTablesCommand struct {
	// Extension selects the configuration section. Empty means the default section.
	Extension string `json:"extension,omitempty"`
	// Tables lists table names, or holds the single wildcard entry.
	Tables []string `json:"tables"`
}

// Type implements command.Message.
func (ConfigureTablesCommand) Type() string { return configureTablesMessageType }

// Validate requires at least one table. Entries must be identifiers unless
// the list is exactly the wildcard.
func (cmd ConfigureTablesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Tables, validation.Required, validation.By(validateTables)),
	)
}

// List returns the allow list the command stores.
func (cmd ConfigureTablesCommand) List() allowlist.List {
	return allowlist.Parse(strings.Join(cmd.Tables, ","))
}

func validateTables(value any) error {
	tables, _ := value.([]string)
	if len(tables) == 1 && strings.TrimSpace(tables[0]) == allowlist.Wildcard {
		return nil
	}
	for _, table := range tables {
		name := strings.TrimSpace(table)
		if name == allowlist.Wildcard {
			return validation.NewError("l10n.allowlist.wildcard_exclusive", "wildcard cannot be combined with table names")
		}
		if !tableNamePattern.MatchString(name) {
			return validation.NewError("l10n.allowlist.table_invalid", "table names must be identifiers")
		}
	}
	return nil
}

// ClearTablesCommand removes the table list, disabling the fallback for
// every table.
type ClearTablesCommand struct {
	// Extension selects the configuration section. Empty means the default section.
	Extension string `json:"extension,omitempty"`
}

// Type implements command.Message.
func (ClearTablesCommand) Type() string { return clearTablesMessageType }

// Validate implements command.Message validation. Every value is accepted.
func (ClearTablesCommand) Validate() error { return nil }

func extensionOrDefault(extension string) string {
	if trimmed := strings.TrimSpace(extension); trimmed != "" {
		return trimmed
	}
	return allowlist.DefaultExtension
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-l10nfallback"
)

var errTableRequired = errors.New("--table is required")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("l10nsql: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("l10nsql", flag.ContinueOnError)
	var (
		table         = fs.String("table", "", "Table to build the language predicate for")
		alias         = fs.String("alias", "", "Table alias (defaults to the table name)")
		language      = fs.Int("language", 0, "Requested language id")
		policy        = fs.String("policy", "on", "Overlay policy: off, on, on_with_floating or mixed")
		dialect       = fs.String("dialect", "sqlite", "SQL dialect used for quoting: sqlite or pg")
		tables        = fs.String("tables", "", "Allow list: \"*\" or comma separated table names")
		languageField = fs.String("language-field", "sys_language_uid", "Language column")
		parentField   = fs.String("parent-field", "l10n_parent", "Translation parent column (empty disables the fallback)")
		uidField      = fs.String("uid-field", "", "Primary key column (defaults to uid)")
		schemaFile    = fs.String("schema", "", "YAML file with table schemas; replaces the column flags")
		logLevel      = fs.String("log-level", "", "Enable go-logger output at the given level")
	)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*table) == "" {
		return errTableRequired
	}

	gen, err := queryGen(*dialect)
	if err != nil {
		return err
	}
	overlay, err := l10nfallback.ParseOverlayPolicy(*policy)
	if err != nil {
		return err
	}
	selection, err := l10nfallback.NewLanguageSelection(*language, overlay)
	if err != nil {
		return err
	}

	cfg := l10nfallback.DefaultConfig()
	if list := splitTables(*tables); len(list) > 0 {
		cfg.Tables = list
	}
	if level := strings.TrimSpace(*logLevel); level != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Level = level
		cfg.Logging.Format = "console"
	}
	if path := strings.TrimSpace(*schemaFile); path != "" {
		cfg.SchemaFile = path
	} else {
		cfg.Schemas = []l10nfallback.TableSchemaConfig{{
			Table:                  *table,
			LanguageField:          *languageField,
			TranslationParentField: *parentField,
			UIDField:               *uidField,
		}}
	}

	module, err := l10nfallback.New(cfg)
	if err != nil {
		return err
	}
	sql, err := module.Parser().Render(ctx, gen, *table, *alias, selection)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, sql)
	return err
}

func queryGen(dialect string) (schema.QueryGen, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "", "sqlite":
		return schema.NewQueryGen(sqlitedialect.New()), nil
	case "pg", "postgres":
		return schema.NewQueryGen(pgdialect.New()), nil
	default:
		return schema.QueryGen{}, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func splitTables(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

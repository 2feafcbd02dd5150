package extconfig

import (
	"context"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeExtensionNotConfigured tags lookups against unknown extensions.
	TextCodeExtensionNotConfigured = "EXTENSION_NOT_CONFIGURED"
	// TextCodePathMissing tags lookups against missing configuration paths.
	TextCodePathMissing = "EXTENSION_PATH_MISSING"
)

// PathSeparator separates nested keys in lookup paths.
const PathSeparator = "/"

// Lookup reads the value stored under path for extension. An empty path
// returns the full settings tree. Failures are go-errors values that unwrap
// to ErrExtensionNotConfigured or ErrPathDoesNotExist.
func Lookup(ctx context.Context, repo Repository, extension, path string) (any, error) {
	if repo == nil {
		return nil, notConfigured(extension, ErrExtensionNotConfigured)
	}
	settings, err := repo.Get(ctx, extension)
	if err != nil {
		if errors.Is(err, ErrExtensionNotConfigured) {
			return nil, notConfigured(extension, err)
		}
		return nil, err
	}

	path = strings.Trim(strings.TrimSpace(path), PathSeparator)
	if path == "" {
		return settings, nil
	}

	var current any = map[string]any(settings)
	for _, segment := range strings.Split(path, PathSeparator) {
		section, ok := asSection(current)
		if !ok {
			return nil, pathMissing(extension, path)
		}
		value, ok := section[segment]
		if !ok {
			return nil, pathMissing(extension, path)
		}
		current = value
	}
	return current, nil
}

// LookupString is Lookup restricted to string values. Non-string values
// report ErrPathDoesNotExist.
func LookupString(ctx context.Context, repo Repository, extension, path string) (string, error) {
	value, err := Lookup(ctx, repo, extension, path)
	if err != nil {
		return "", err
	}
	text, ok := value.(string)
	if !ok {
		return "", pathMissing(extension, path)
	}
	return text, nil
}

func asSection(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case Settings:
		return typed, true
	default:
		return nil, false
	}
}

func notConfigured(extension string, source error) error {
	return goerrors.Wrap(source, goerrors.CategoryNotFound, "extension configuration missing").
		WithTextCode(TextCodeExtensionNotConfigured).
		WithMetadata(map[string]any{"extension": extension})
}

func pathMissing(extension, path string) error {
	return goerrors.Wrap(ErrPathDoesNotExist, goerrors.CategoryNotFound, "extension configuration path missing").
		WithTextCode(TextCodePathMissing).
		WithMetadata(map[string]any{"extension": extension, "path": path})
}

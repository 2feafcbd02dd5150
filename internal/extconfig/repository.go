package extconfig

import (
	"context"
	"errors"
	"reflect"
)

var (
	// ErrExtensionNotConfigured indicates no settings exist for the requested extension.
	ErrExtensionNotConfigured = errors.New("extconfig: extension is not configured")
	// ErrPathDoesNotExist indicates the extension is configured but the requested path is absent.
	ErrPathDoesNotExist = errors.New("extconfig: configuration path does not exist")
	// ErrExtensionKeyRequired indicates an empty extension key.
	ErrExtensionKeyRequired = errors.New("extconfig: extension key is required")
)

// Settings holds the configuration tree of one extension. Nested sections
// are map[string]any values.
type Settings map[string]any

// Clone returns a deep copy of nested maps so callers cannot mutate stored state.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for key, value := range s {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case Settings:
		return typed.Clone()
	case map[string]any:
		return map[string]any(Settings(typed).Clone())
	case []any:
		copied := make([]any, len(typed))
		for i, item := range typed {
			copied[i] = cloneValue(item)
		}
		return copied
	default:
		return value
	}
}

func equalSettings(a, b Settings) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Repository persists extension settings keyed by extension and emits
// change notifications.
type Repository interface {
	Get(ctx context.Context, extension string) (Settings, error)
	Upsert(ctx context.Context, extension string, settings Settings) (Settings, error)
	Delete(ctx context.Context, extension string) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates settings change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports a settings mutation for one extension.
type ChangeEvent struct {
	Type      ChangeType
	Extension string
	Settings  Settings
}

func newChangeEvent(changeType ChangeType, extension string, settings Settings) ChangeEvent {
	return ChangeEvent{
		Type:      changeType,
		Extension: extension,
		Settings:  settings.Clone(),
	}
}

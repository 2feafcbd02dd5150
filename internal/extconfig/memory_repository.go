package extconfig

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepository stores extension settings in-memory.
type MemoryRepository struct {
	mu          sync.RWMutex
	settings    map[string]Settings
	broadcaster *broadcaster
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		settings:    map[string]Settings{},
		broadcaster: newBroadcaster(),
	}
}

// Get returns a copy of the settings stored for extension.
func (r *MemoryRepository) Get(_ context.Context, extension string) (Settings, error) {
	key, err := normalizeExtension(extension)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.settings[key]
	if !ok {
		return nil, ErrExtensionNotConfigured
	}
	return stored.Clone(), nil
}

// Upsert replaces the settings of extension. Unchanged writes emit no event.
func (r *MemoryRepository) Upsert(_ context.Context, extension string, settings Settings) (Settings, error) {
	key, err := normalizeExtension(extension)
	if err != nil {
		return nil, err
	}
	copied := settings.Clone()
	if copied == nil {
		copied = Settings{}
	}

	r.mu.Lock()
	previous, existed := r.settings[key]
	r.settings[key] = copied
	r.mu.Unlock()

	if existed && equalSettings(previous, copied) {
		return copied.Clone(), nil
	}
	changeType := ChangeUpdated
	if !existed {
		changeType = ChangeCreated
	}
	r.broadcaster.Publish(newChangeEvent(changeType, key, copied))
	return copied.Clone(), nil
}

// Delete removes the settings of extension.
func (r *MemoryRepository) Delete(_ context.Context, extension string) error {
	key, err := normalizeExtension(extension)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.settings[key]; !ok {
		r.mu.Unlock()
		return ErrExtensionNotConfigured
	}
	delete(r.settings, key)
	r.mu.Unlock()

	r.broadcaster.Publish(newChangeEvent(ChangeDeleted, key, nil))
	return nil
}

// Subscribe delivers change events until ctx is cancelled.
func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func normalizeExtension(extension string) (string, error) {
	key := strings.TrimSpace(extension)
	if key == "" {
		return "", ErrExtensionKeyRequired
	}
	return key, nil
}

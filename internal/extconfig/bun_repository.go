package extconfig

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const settingsNamespace = "extension_settings"

// Record is the persisted row of one extension's settings.
type Record struct {
	bun.BaseModel `bun:"table:extension_settings,alias:es"`

	ID        uuid.UUID      `bun:",pk,type:uuid"                                 json:"id"`
	Extension string         `bun:"extension,notnull,unique"                      json:"extension"`
	Settings  map[string]any `bun:"settings,type:jsonb"                           json:"settings"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NewRecordRepository builds the go-repository-bun repository for settings records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "extension"
		},
		GetIdentifierValue: func(r *Record) string {
			return r.Extension
		},
	})
}

// BunRepository persists extension settings through bun with optional caching.
type BunRepository struct {
	repo         repository.Repository[*Record]
	cacheService cache.CacheService
	cachePrefix  string
	broadcaster  *broadcaster
	now          func() time.Time
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository constructs a repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a repository whose reads go through
// go-repository-cache when both cacheService and serializer are provided.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewRecordRepository(db)
	var svc cache.CacheService
	prefix := ""
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
		prefix = settingsNamespace + cache.KeySeparator
	}
	return &BunRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
		broadcaster:  newBroadcaster(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the settings stored for extension.
func (r *BunRepository) Get(ctx context.Context, extension string) (Settings, error) {
	record, err := r.find(ctx, extension)
	if err != nil {
		return nil, err
	}
	return Settings(record.Settings).Clone(), nil
}

// Upsert creates or replaces the settings of extension.
func (r *BunRepository) Upsert(ctx context.Context, extension string, settings Settings) (Settings, error) {
	existing, err := r.find(ctx, extension)
	created := false
	if err != nil {
		if !errors.Is(err, ErrExtensionNotConfigured) {
			return nil, err
		}
		created = true
	}

	key, _ := normalizeExtension(extension)
	payload := settings.Clone()
	if payload == nil {
		payload = Settings{}
	}

	var stored *Record
	if created {
		stored, err = r.repo.Create(ctx, &Record{
			ID:        uuid.New(),
			Extension: key,
			Settings:  payload,
			UpdatedAt: r.now(),
		})
	} else {
		if equalSettings(Settings(existing.Settings), payload) {
			return payload, nil
		}
		existing.Settings = payload
		existing.UpdatedAt = r.now()
		stored, err = r.repo.Update(ctx, existing)
	}
	if err != nil {
		return nil, fmt.Errorf("extconfig: persist %q: %w", key, err)
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return nil, err
	}

	changeType := ChangeUpdated
	if created {
		changeType = ChangeCreated
	}
	result := Settings(stored.Settings).Clone()
	r.broadcaster.Publish(newChangeEvent(changeType, key, result))
	return result, nil
}

// Delete removes the settings of extension.
func (r *BunRepository) Delete(ctx context.Context, extension string) error {
	record, err := r.find(ctx, extension)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, record); err != nil {
		return fmt.Errorf("extconfig: delete %q: %w", record.Extension, err)
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return err
	}
	r.broadcaster.Publish(newChangeEvent(ChangeDeleted, record.Extension, nil))
	return nil
}

// Subscribe delivers change events until ctx is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

// InvalidateCache drops cached settings reads.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunRepository) find(ctx context.Context, extension string) (*Record, error) {
	key, err := normalizeExtension(extension)
	if err != nil {
		return nil, err
	}
	record, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, ErrExtensionNotConfigured
		}
		return nil, fmt.Errorf("extconfig: load %q: %w", key, err)
	}
	return record, nil
}

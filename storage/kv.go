package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// BucketMigrations is the KV bucket holding migration records.
const BucketMigrations = "STOREMIGRATE_MIGRATIONS"

// KVStore persists migrations in a NATS JetStream key-value bucket.
type KVStore struct {
	migrations jetstream.KeyValue
}

// NewKVStore returns a store backed by JetStream, creating the bucket if
// it does not exist.
func NewKVStore(ctx context.Context, js jetstream.JetStream) (*KVStore, error) {
	kv, err := getOrCreateBucket(ctx, js, BucketMigrations)
	if err != nil {
		return nil, fmt.Errorf("create migrations bucket: %w", err)
	}
	return &KVStore{migrations: kv}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Storemigrate migration records",
		History:     5, // Keep last 5 revisions
	})
}

// Create stores a new migration record.
func (s *KVStore) Create(ctx context.Context, m *Migration) error {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = StatusPending
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal migration: %w", err)
	}
	if _, err := s.migrations.Create(ctx, m.ID, data); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("store migration: %w", err)
	}
	return nil
}

// Get retrieves a migration by ID.
func (s *KVStore) Get(ctx context.Context, id string) (*Migration, error) {
	entry, err := s.migrations.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get migration: %w", err)
	}

	var m Migration
	if err := json.Unmarshal(entry.Value(), &m); err != nil {
		return nil, fmt.Errorf("unmarshal migration: %w", err)
	}
	return &m, nil
}

// Update overwrites an existing migration record.
func (s *KVStore) Update(ctx context.Context, m *Migration) error {
	m.UpdatedAt = time.Now()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal migration: %w", err)
	}
	if _, err := s.migrations.Put(ctx, m.ID, data); err != nil {
		return fmt.Errorf("update migration: %w", err)
	}
	return nil
}

// Delete removes a migration record.
func (s *KVStore) Delete(ctx context.Context, id string) error {
	if err := s.migrations.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete migration: %w", err)
	}
	return nil
}

// List returns migrations matching the filter, newest first.
func (s *KVStore) List(ctx context.Context, filter ListFilter) ([]*Migration, error) {
	keys, err := s.migrations.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list migration keys: %w", err)
	}

	records := make([]*Migration, 0, len(keys))
	for _, key := range keys {
		entry, err := s.migrations.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		var m Migration
		if err := json.Unmarshal(entry.Value(), &m); err != nil {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		records = append(records, &m)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return page(records, filter), nil
}

// page applies offset and limit to an already-filtered slice.
func page(records []*Migration, filter ListFilter) []*Migration {
	if filter.Offset >= len(records) {
		return nil
	}
	records = records[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}
	return records
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}

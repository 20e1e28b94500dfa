package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erentorlak/storemigrate/migration"
)

func testRecord(id string) *Migration {
	return &Migration{
		ID: id,
		Config: migration.Config{
			SourcePlatform:      "shopify",
			DestinationPlatform: "ideasoft",
		},
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	m := testRecord("m-1")
	if err := store.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Status != StatusPending {
		t.Errorf("status = %s, want pending", m.Status)
	}
	if m.CreatedAt.IsZero() || m.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	if err := store.Create(ctx, testRecord("m-1")); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate Create = %v, want ErrAlreadyExists", err)
	}

	got, err := store.Get(ctx, "m-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Config.SourcePlatform != "shopify" {
		t.Errorf("config = %+v", got.Config)
	}

	// Mutating the returned record must not leak into the store.
	got.Status = StatusFailed
	again, _ := store.Get(ctx, "m-1")
	if again.Status != StatusPending {
		t.Error("Get should return a copy")
	}

	got.Status = StatusAnalyzing
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, _ := store.Get(ctx, "m-1")
	if updated.Status != StatusAnalyzing {
		t.Errorf("status = %s, want analyzing", updated.Status)
	}

	if err := store.Update(ctx, testRecord("missing")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, "m-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "m-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "m-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i, id := range []string{"a", "b", "c", "d"} {
		m := testRecord(id)
		if err := store.Create(ctx, m); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
		// Space creation times out so ordering is deterministic.
		m.CreatedAt = time.Date(2024, 6, 1, 12, i, 0, 0, time.UTC)
		m.Status = StatusPending
		if i%2 == 1 {
			m.Status = StatusCompleted
		}
		if err := store.Update(ctx, m); err != nil {
			t.Fatalf("Update %s: %v", id, err)
		}
	}

	all, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("list = %d records", len(all))
	}
	// Newest first: d, c, b, a.
	if all[0].ID != "d" || all[3].ID != "a" {
		t.Errorf("order = %s..%s", all[0].ID, all[3].ID)
	}

	completed, err := store.List(ctx, ListFilter{Status: StatusCompleted})
	if err != nil {
		t.Fatalf("List completed: %v", err)
	}
	if len(completed) != 2 || completed[0].ID != "d" || completed[1].ID != "b" {
		t.Errorf("completed = %+v", completed)
	}

	paged, err := store.List(ctx, ListFilter{Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List paged: %v", err)
	}
	if len(paged) != 2 || paged[0].ID != "c" || paged[1].ID != "b" {
		t.Errorf("paged = %+v", paged)
	}

	empty, err := store.List(ctx, ListFilter{Offset: 10})
	if err != nil || len(empty) != 0 {
		t.Errorf("offset past end = %v, %v", empty, err)
	}
}

func TestMigrationSetResult(t *testing.T) {
	m := testRecord("m-1")
	if err := m.SetResult("migration_plan", map[string]any{"plan_id": "p-1"}); err != nil {
		t.Fatalf("SetResult: %v", err)
	}
	if string(m.MigrationPlan) != `{"plan_id":"p-1"}` {
		t.Errorf("plan = %s", m.MigrationPlan)
	}
	if m.AnalysisResult != nil {
		t.Error("other slots should stay empty")
	}
}

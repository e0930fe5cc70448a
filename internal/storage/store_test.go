package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"spendy/internal/core"
)

// storeUnderTest exercises every backend against the same contract.
func storesUnderTest(t *testing.T) map[string]interface {
	SnapshotStore
	IconStore
} {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "spendy.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]interface {
		SnapshotStore
		IconStore
	}{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func sampleSnapshot(id string, createdAt time.Time) Snapshot {
	return Snapshot{
		ID:        id,
		CreatedAt: createdAt,
		Transactions: []core.Transaction{
			{Description: "스타벅스 아메리카노", Amount: 4500, Hint: "", Reclassified: core.CategoryFood},
			{Description: "CGV 영화", Amount: 15000, Hint: "", Reclassified: core.CategoryCulture},
			{Description: "unknown shop xyz", Amount: 3000, Hint: "쇼핑", Reclassified: core.CategoryShopping},
		},
		Persona: core.CategoryCulture,
		Totals: map[core.Category]int64{
			core.CategoryFood:     4500,
			core.CategoryCulture:  15000,
			core.CategoryShopping: 3000,
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleSnapshot("1700000000000", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

			if err := store.Save(ctx, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := store.Get(ctx, want.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}

			if !reflect.DeepEqual(got.Transactions, want.Transactions) {
				t.Errorf("transactions = %+v, want %+v", got.Transactions, want.Transactions)
			}
			if got.Persona != want.Persona {
				t.Errorf("persona = %q, want %q", got.Persona, want.Persona)
			}
			if !reflect.DeepEqual(got.Totals, want.Totals) {
				t.Errorf("totals = %v, want %v", got.Totals, want.Totals)
			}
			if !got.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("createdAt = %v, want %v", got.CreatedAt, want.CreatedAt)
			}
		})
	}
}

func TestSaveIsUpsert(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

			first := sampleSnapshot("v1", base)
			if err := store.Save(ctx, first); err != nil {
				t.Fatalf("save: %v", err)
			}

			replacement := first
			replacement.Persona = core.CategoryFood
			replacement.CreatedAt = base.Add(time.Minute)
			if err := store.Save(ctx, replacement); err != nil {
				t.Fatalf("save replacement: %v", err)
			}

			all, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(all) != 1 {
				t.Fatalf("list returned %d snapshots, want 1 (upsert must replace)", len(all))
			}
			if all[0].Persona != core.CategoryFood {
				t.Errorf("persona = %q, want replaced value %q", all[0].Persona, core.CategoryFood)
			}
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

			for i, id := range []string{"old", "middle", "new"} {
				snap := sampleSnapshot(id, base.Add(time.Duration(i)*time.Hour))
				if err := store.Save(ctx, snap); err != nil {
					t.Fatalf("save %s: %v", id, err)
				}
			}

			all, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("list returned %d snapshots, want 3", len(all))
			}
			for i, wantID := range []string{"new", "middle", "old"} {
				if all[i].ID != wantID {
					t.Errorf("list[%d].ID = %q, want %q", i, all[i].ID, wantID)
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			snap := sampleSnapshot("doomed", time.Now().UTC())

			if err := store.Save(ctx, snap); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := store.Delete(ctx, "doomed"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
				t.Errorf("get after delete = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
				t.Errorf("second delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
				t.Errorf("get = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestIconRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			icon := PersonaIcon{
				Category:    core.CategoryCulture,
				Prompt:      core.MetadataFor(core.CategoryCulture).IconPrompt,
				Image:       []byte{0x89, 'P', 'N', 'G'},
				GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			}

			if _, err := store.GetIcon(ctx, icon.Category); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get before save = %v, want ErrNotFound", err)
			}
			if err := store.SaveIcon(ctx, icon); err != nil {
				t.Fatalf("save icon: %v", err)
			}

			got, err := store.GetIcon(ctx, icon.Category)
			if err != nil {
				t.Fatalf("get icon: %v", err)
			}
			if !reflect.DeepEqual(got.Image, icon.Image) {
				t.Errorf("image = %v, want %v", got.Image, icon.Image)
			}
			if got.Prompt != icon.Prompt {
				t.Errorf("prompt = %q, want %q", got.Prompt, icon.Prompt)
			}
		})
	}
}

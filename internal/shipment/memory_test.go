package shipment

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, &Shipment{ID: "b", Weight: 1}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	store.Save(ctx, &Shipment{ID: "a", Weight: 2})

	got, err := store.Get(ctx, "b")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil || got.Weight != 1 {
		t.Errorf("Get(b) = %+v", got)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
		t.Errorf("List() = %+v, want records ordered by ID", all)
	}
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil for absent record", got)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Save(ctx, &Shipment{ID: "x"})

	if err := store.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := store.Get(ctx, "x"); got != nil {
		t.Error("record still present after delete")
	}

	// Deleting an absent record is not an error.
	if err := store.Delete(ctx, "x"); err != nil {
		t.Errorf("Delete() of absent record: %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Save(ctx, &Shipment{ID: "x", Weight: 1})

	got, _ := store.Get(ctx, "x")
	got.Weight = 99

	again, _ := store.Get(ctx, "x")
	if again.Weight != 1 {
		t.Error("mutating a returned record changed the stored one")
	}
}

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/tripkit-ai/tripkit/trip"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	ctx := context.Background()

	sess := trip.NewSession("Busan", 2, 3)
	sess.Itinerary = trip.FromStops([]trip.Stop{
		{Day: 1, Type: "attraction", Name: "Haeundae Beach"},
	})

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Destination != "Busan" {
		t.Errorf("destination = %q, want Busan", loaded.Destination)
	}
	if len(loaded.Itinerary.Stops()) != 1 {
		t.Errorf("expected 1 stop, got %d", len(loaded.Itinerary.Stops()))
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	_, err = store.Load(context.Background(), "0c7e1c1e-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreList(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	ctx := context.Background()

	for range 3 {
		if err := store.Save(ctx, trip.NewSession("Busan", 2, 3)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(sessions))
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	ctx := context.Background()

	sess := trip.NewSession("Busan", 2, 3)
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestValidSessionID(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"0c7e1c1e-aaaa-bbbb-cccc-000000000000", true},
		{"simple", true},
		{"", false},
		{"../escape", false},
		{"has space", false},
		{"semi;colon", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidSessionID(tt.id); got != tt.expected {
				t.Errorf("ValidSessionID(%q) = %v, want %v", tt.id, got, tt.expected)
			}
		})
	}
}

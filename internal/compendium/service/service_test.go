package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lorekeep/nexus/internal/compendium/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(filepath.Join(t.TempDir(), "nexus.db"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestServiceDelegates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.UpsertCustomSpell(ctx, domain.Spell{
		Entry: domain.Entry{Name: "Frostlanze"}, Level: 2,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	spells, err := svc.ListSpells(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(spells) != 1 || spells[0].ID != id {
		t.Fatalf("expected the upserted spell, got %+v", spells)
	}
}

func TestServiceSerializesWriters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Concurrent character creation must not interleave sync sequences.
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			character := domain.NewCharacter("Held " + string(rune('A'+n)))
			character.Inventory = append(character.Inventory, domain.InventoryEntry{ItemID: "fackel"})
			errs <- svc.CreateCharacter(ctx, character)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent create: %v", err)
		}
	}

	summaries, err := svc.ListCharacters(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 8 {
		t.Fatalf("expected 8 characters, got %d", len(summaries))
	}
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lorekeep/nexus/internal/compendium/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nexus.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedWeapon(t *testing.T, store *Store, id, name string) {
	t.Helper()
	err := store.PutCoreWeapon(context.Background(), domain.Weapon{
		Entry:      domain.Entry{ID: id, Name: name},
		Category:   domain.WeaponSimpleMelee,
		DamageDice: "1W4",
		DamageType: domain.DamagePiercing,
		CostGP:     2,
		WeightKG:   0.5,
	})
	if err != nil {
		t.Fatalf("seed weapon %s: %v", id, err)
	}
}

func seedItem(t *testing.T, store *Store, id, name string) {
	t.Helper()
	err := store.PutCoreItem(context.Background(), domain.Item{
		Entry:  domain.Entry{ID: id, Name: name},
		CostGP: 1,
	})
	if err != nil {
		t.Fatalf("seed item %s: %v", id, err)
	}
}

func seedClass(t *testing.T, store *Store, id, name string, hitDie int) {
	t.Helper()
	err := store.PutCoreClass(context.Background(), domain.Class{
		Entry:  domain.Entry{ID: id, Name: name},
		HitDie: hitDie,
	})
	if err != nil {
		t.Fatalf("seed class %s: %v", id, err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexus.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	seedWeapon(t, store, "dolch", "Dolch")
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer store.Close()

	weapons, err := store.ListWeapons(context.Background())
	if err != nil {
		t.Fatalf("list weapons: %v", err)
	}
	if len(weapons) != 1 || weapons[0].ID != "dolch" {
		t.Fatalf("expected seeded weapon to survive reopen, got %+v", weapons)
	}
}

func TestRepeatableRebuildDeduplicatesMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexus.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	seedWeapon(t, store, "dolch", "Dolch")
	if err := store.PutWeaponProperty(ctx, domain.WeaponProperty{
		ID: "leicht", Name: "Leicht",
	}); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	if err := store.AddWeaponPropertyMapping(ctx, "dolch", "leicht", nil); err != nil {
		t.Fatalf("add mapping: %v", err)
	}

	// Simulate a database written before the unique index existed.
	if _, err := store.sqlDB.Exec(`DROP INDEX idx_weapon_property_unique`); err != nil {
		t.Fatalf("drop index: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := store.sqlDB.Exec(
			`INSERT INTO weapon_property_mappings (id, weapon_id, property_id) VALUES (?, 'dolch', 'leicht')`,
			"dup-"+string(rune('a'+i)),
		); err != nil {
			t.Fatalf("insert duplicate: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	var count int
	if err := store.sqlDB.QueryRow(
		`SELECT COUNT(*) FROM weapon_property_mappings WHERE weapon_id = 'dolch' AND property_id = 'leicht'`,
	).Scan(&count); err != nil {
		t.Fatalf("count mappings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected duplicates collapsed to 1 row, got %d", count)
	}

	// Duplicate inserts are silently ignored once the index is back.
	if err := store.AddWeaponPropertyMapping(ctx, "dolch", "leicht", nil); err != nil {
		t.Fatalf("re-add mapping: %v", err)
	}
	if err := store.sqlDB.QueryRow(
		`SELECT COUNT(*) FROM weapon_property_mappings WHERE weapon_id = 'dolch' AND property_id = 'leicht'`,
	).Scan(&count); err != nil {
		t.Fatalf("recount mappings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected idempotent mapping insert, got %d rows", count)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	value, err := store.GetSetting(ctx, "schema_language")
	if err != nil {
		t.Fatalf("get missing setting: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty value for missing key, got %q", value)
	}

	if err := store.SetSetting(ctx, "schema_language", "de"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if err := store.SetSetting(ctx, "schema_language", "de-DE"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}
	value, err = store.GetSetting(ctx, "schema_language")
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if value != "de-DE" {
		t.Fatalf("expected de-DE, got %q", value)
	}

	if err := store.SetSetting(ctx, " ", "x"); err == nil {
		t.Fatal("expected error for blank key")
	}
}

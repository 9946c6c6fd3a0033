package sqlite

import (
	"context"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/lorekeep/nexus/internal/compendium/domain"
	apperrors "github.com/lorekeep/nexus/internal/errors"
)

func TestCharacterRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedWeapon(t, store, "dolch", "Dolch")

	character := domain.NewCharacter("Brunhild")
	character.Meta.Level = 3
	character.Attributes.Strength = 16
	character.Health.Max = 28
	character.Health.Current = 21
	character.Currency.GP = 15
	character.SpellSlots.Total[0] = 4
	character.SpellSlots.Used[0] = 1
	character.Inventory = append(character.Inventory, domain.InventoryEntry{
		ItemID:   "dolch",
		Quantity: 2,
		Equipped: true,
	})
	character.Spells = append(character.Spells, domain.SpellRef{SpellID: "feuerball", Prepared: true})
	character.Proficiencies = append(character.Proficiencies, domain.Proficiency{Kind: "skill", Value: "athletik"})
	character.Modifiers = append(character.Modifiers, domain.Modifier{
		ModifierType: "bonus", Target: "initiative", Value: 2, Source: "feat",
	})

	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create character: %v", err)
	}

	loaded, err := store.GetCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if loaded.Meta.Name != "Brunhild" || loaded.Meta.Level != 3 {
		t.Fatalf("meta mismatch: %+v", loaded.Meta)
	}
	if loaded.Attributes.Strength != 16 || loaded.Health.Current != 21 {
		t.Fatalf("promoted values mismatch: %+v", loaded)
	}
	if loaded.Currency.GP != 15 || loaded.SpellSlots.Used[0] != 1 {
		t.Fatalf("currency or slots mismatch: %+v", loaded)
	}
	if len(loaded.Inventory) != 1 {
		t.Fatalf("expected one inventory entry, got %d", len(loaded.Inventory))
	}
	entry := loaded.Inventory[0]
	if entry.ItemID != "dolch" || entry.Quantity != 2 || !entry.Equipped {
		t.Fatalf("inventory entry mismatch: %+v", entry)
	}
	if entry.ItemType != domain.TypeCoreWeapon {
		t.Fatalf("expected probe to tag dolch as %s, got %s", domain.TypeCoreWeapon, entry.ItemType)
	}
	if entry.Location != domain.DefaultLocation || entry.Source != domain.SourceManual {
		t.Fatalf("expected defaults applied, got %+v", entry)
	}
}

func TestCharacterDocumentAndTableAgree(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedWeapon(t, store, "dolch", "Dolch")

	character := domain.NewCharacter("Askan")
	character.Inventory = append(character.Inventory, domain.InventoryEntry{ItemID: "dolch", Quantity: 2})
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, err := store.ExportCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	docInventory := gjson.GetBytes(doc, "inventory").Array()
	if len(docInventory) != 1 {
		t.Fatalf("document inventory length %d", len(docInventory))
	}

	rows, err := store.ListInventory(ctx, character.ID)
	if err != nil {
		t.Fatalf("list inventory: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("normalized inventory length %d", len(rows))
	}
	if docInventory[0].Get("item_id").String() != rows[0].ItemID {
		t.Fatalf("item id diverged: doc=%s table=%s",
			docInventory[0].Get("item_id").String(), rows[0].ItemID)
	}
	if int(docInventory[0].Get("quantity").Int()) != rows[0].Quantity {
		t.Fatalf("quantity diverged: doc=%d table=%d",
			docInventory[0].Get("quantity").Int(), rows[0].Quantity)
	}
	if docInventory[0].Get("id").String() != rows[0].ID {
		t.Fatalf("row id diverged between representations")
	}
}

func TestUpdateCharacterRegeneratesMappingRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	character := domain.NewCharacter("Askan")
	character.Inventory = append(character.Inventory, domain.InventoryEntry{ItemID: "fackel"})
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := store.ListInventory(ctx, character.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if err := store.UpdateCharacter(ctx, character); err != nil {
		t.Fatalf("update: %v", err)
	}
	second, err := store.ListInventory(ctx, character.ID)
	if err != nil {
		t.Fatalf("list after update: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one row before and after, got %d/%d", len(first), len(second))
	}
	if first[0].ID == second[0].ID {
		t.Fatal("expected a fresh row id on every sync")
	}
}

func TestUpdateMissingCharacter(t *testing.T) {
	store := openTestStore(t)
	character := domain.NewCharacter("Niemand")
	err := store.UpdateCharacter(context.Background(), character)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestListCharacters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Wulf", "Askan", "Brunhild"} {
		if err := store.CreateCharacter(ctx, domain.NewCharacter(name)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	summaries, err := store.ListCharacters(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	if summaries[0].Name != "Askan" || summaries[2].Name != "Wulf" {
		t.Fatalf("expected name ordering, got %+v", summaries)
	}
	if summaries[0].UpdatedAt == 0 {
		t.Fatal("expected updated_at to be set")
	}
}

func TestDeleteCharacter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	character := domain.NewCharacter("Askan")
	character.Spells = append(character.Spells, domain.SpellRef{SpellID: "feuerball"})
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.DeleteCharacter(ctx, character.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetCharacter(ctx, character.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
	if err := store.DeleteCharacter(ctx, character.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}

	var orphans int
	if err := store.sqlDB.QueryRow(
		`SELECT COUNT(*) FROM character_spells WHERE character_id = ?`, character.ID,
	).Scan(&orphans); err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected child rows removed, found %d", orphans)
	}
}

func TestImportCharacter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	character := domain.NewCharacter("Brunhild")
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}
	doc, err := store.ExportCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	// Importing the exported document replaces the existing character.
	id, err := store.ImportCharacter(ctx, doc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if id != character.ID {
		t.Fatalf("expected import to keep id %s, got %s", character.ID, id)
	}

	if _, err := store.ImportCharacter(ctx, []byte(`{"meta":`)); !apperrors.IsCode(err, apperrors.CodeCharacterMalformedDoc) {
		t.Fatalf("expected malformed-document error, got %v", err)
	}
	if _, err := store.ImportCharacter(ctx, []byte(`{"meta":{"level":1}}`)); !apperrors.IsCode(err, apperrors.CodeCharacterEmptyName) {
		t.Fatalf("expected empty-name error, got %v", err)
	}
}

func TestSetSpellPrepared(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutCoreSpell(ctx, domain.Spell{
		Entry: domain.Entry{ID: "feuerball", Name: "Feuerball"}, Level: 3,
	}); err != nil {
		t.Fatalf("seed spell: %v", err)
	}

	character := domain.NewCharacter("Askan")
	character.Spells = append(character.Spells, domain.SpellRef{SpellID: "feuerball"})
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.SetSpellPrepared(ctx, character.ID, "feuerball", true); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	spells, err := store.ListCharacterSpells(ctx, character.ID)
	if err != nil {
		t.Fatalf("list spells: %v", err)
	}
	if len(spells) != 1 || !spells[0].Prepared || spells[0].Name != "Feuerball" {
		t.Fatalf("expected prepared Feuerball, got %+v", spells)
	}

	// The document entry is patched in place.
	doc, err := store.ExportCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !gjson.GetBytes(doc, "spells.0.prepared").Bool() {
		t.Fatal("expected document spell to be prepared")
	}

	// Toggling an unknown spell inserts it in both representations.
	if err := store.SetSpellPrepared(ctx, character.ID, "frostlanze", true); err != nil {
		t.Fatalf("prepare new spell: %v", err)
	}
	spells, err = store.ListCharacterSpells(ctx, character.ID)
	if err != nil {
		t.Fatalf("list spells: %v", err)
	}
	if len(spells) != 2 {
		t.Fatalf("expected two spells, got %+v", spells)
	}
	doc, err = store.ExportCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if gjson.GetBytes(doc, "spells.#").Int() != 2 {
		t.Fatal("expected document spell list to grow")
	}
}

func TestUpdateInventoryItem(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedWeapon(t, store, "dolch", "Dolch")
	character := domain.NewCharacter("Askan")
	character.Inventory = append(character.Inventory, domain.InventoryEntry{ItemID: "dolch"})
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}
	rows, err := store.ListInventory(ctx, character.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	update := rows[0]
	update.Quantity = 3
	update.Equipped = true
	update.Location = "Gürtel"
	if err := store.UpdateInventoryItem(ctx, character.ID, update); err != nil {
		t.Fatalf("update item: %v", err)
	}

	rows, err = store.ListInventory(ctx, character.ID)
	if err != nil {
		t.Fatalf("list after update: %v", err)
	}
	if rows[0].Quantity != 3 || !rows[0].Equipped || rows[0].Location != "Gürtel" {
		t.Fatalf("row not updated: %+v", rows[0])
	}

	doc, err := store.ExportCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if gjson.GetBytes(doc, "inventory.0.quantity").Int() != 3 {
		t.Fatal("expected document inventory rewritten from the table")
	}

	update.ID = "missing-row"
	if err := store.UpdateInventoryItem(ctx, character.ID, update); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not-found for unknown row, got %v", err)
	}
}

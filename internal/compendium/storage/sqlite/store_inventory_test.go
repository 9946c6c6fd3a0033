package sqlite

import (
	"context"
	"testing"

	"github.com/lorekeep/nexus/internal/compendium/domain"
	apperrors "github.com/lorekeep/nexus/internal/errors"
)

func TestGoldArithmetic(t *testing.T) {
	var purse domain.Currency
	addGold(&purse, 15.35)
	if purse.GP != 15 || purse.SP != 3 || purse.CP != 5 {
		t.Fatalf("addGold split wrong: %+v", purse)
	}

	subGold(&purse, 4)
	if purse.GP != 11 || purse.SP != 3 || purse.CP != 5 {
		t.Fatalf("subGold wrong: %+v", purse)
	}

	// A debit larger than the purse zeroes it instead of going negative.
	purse = domain.Currency{GP: 2, EP: 3, PP: 1}
	subGold(&purse, 10)
	if purse.GP != 0 || purse.SP != 0 || purse.CP != 0 {
		t.Fatalf("expected clamped purse, got %+v", purse)
	}
	if purse.EP != 3 || purse.PP != 1 {
		t.Fatalf("electrum and platinum must not be touched, got %+v", purse)
	}
}

// seedFighter sets up a class with two starting-equipment options; option A
// grants armor, weapons and an adventuring package that together flatten to
// twelve inventory entries plus four gold.
func seedFighter(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	seedClass(t, store, "kaempfer", "Kämpfer", 10)
	seedWeapon(t, store, "langschwert", "Langschwert")
	seedWeapon(t, store, "dolch", "Dolch")
	if err := store.PutCoreArmor(ctx, domain.Armor{
		Entry:    domain.Entry{ID: "kettenhemd", Name: "Kettenhemd"},
		Category: domain.ArmorMedium,
		BaseAC:   13,
	}); err != nil {
		t.Fatalf("seed armor: %v", err)
	}
	for _, item := range []struct{ id, name string }{
		{"seil", "Seil (15 Meter)"},
		{"fackel", "Fackel"},
		{"zunderkaestchen", "Zunderkästchen"},
		{"rationen", "Rationen"},
		{"wasserschlauch", "Wasserschlauch"},
		{"schlafsack", "Schlafsack"},
		{"essgeschirr", "Essgeschirr"},
		{"rucksack", "Rucksack"},
	} {
		seedItem(t, store, item.id, item.name)
	}
	if err := store.PutCoreTool(ctx, domain.Tool{
		Entry: domain.Entry{ID: "flickzeug", Name: "Flickzeug"},
	}); err != nil {
		t.Fatalf("seed tool: %v", err)
	}

	pkg := domain.EquipmentPackage{
		Entry:       domain.Entry{ID: "gewoelbeforscherausruestung", Name: "Gewölbeforscherausrüstung"},
		TotalCostGP: 12,
		Contents: []domain.PackageContent{
			{ItemID: "seil", Quantity: 1},
			{ItemID: "fackel", Quantity: 10},
			{ItemID: "zunderkaestchen", Quantity: 1},
			{ItemID: "rationen", Quantity: 10},
			{ItemID: "wasserschlauch", Quantity: 1},
			{ItemID: "schlafsack", Quantity: 1},
			{ItemID: "essgeschirr", Quantity: 1},
			{ItemID: "rucksack", Quantity: 1},
			{ToolID: "flickzeug", Quantity: 1},
		},
	}
	if err := store.PutCoreEquipmentPackage(ctx, pkg); err != nil {
		t.Fatalf("seed package: %v", err)
	}

	rows := []domain.StartingEquipmentRow{
		{ClassID: "kaempfer", OptionLabel: "A", ArmorID: "kettenhemd", Quantity: 1},
		{ClassID: "kaempfer", OptionLabel: "A", WeaponID: "langschwert", Quantity: 1},
		{ClassID: "kaempfer", OptionLabel: "A", WeaponID: "dolch", Quantity: 2},
		{ClassID: "kaempfer", OptionLabel: "A", ItemID: "gewoelbeforscherausruestung", Quantity: 1},
		{ClassID: "kaempfer", OptionLabel: "A", Gold: 4, IsCurrency: true},
		{ClassID: "kaempfer", OptionLabel: "B", Gold: 155, IsCurrency: true},
	}
	for _, row := range rows {
		if err := store.AddClassStartingEquipment(ctx, row); err != nil {
			t.Fatalf("add starting equipment: %v", err)
		}
	}
}

func TestApplyClassStartingEquipment(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedFighter(t, store)

	character := domain.NewCharacter("Brunhild")
	character.Meta.ClassID = "kaempfer"
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.ApplyClassStartingEquipment(ctx, character.ID, "A"); err != nil {
		t.Fatalf("apply option A: %v", err)
	}

	loaded, err := store.GetCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Inventory) != 12 {
		t.Fatalf("expected 12 inventory entries (armor, sword, daggers, 9 package members), got %d", len(loaded.Inventory))
	}
	if loaded.Currency.GP != 4 {
		t.Fatalf("expected 4 gold granted, got %+v", loaded.Currency)
	}
	if !loaded.Meta.ClassEquipmentApplied || loaded.Meta.ClassGoldGranted != 4 {
		t.Fatalf("bookkeeping wrong: %+v", loaded.Meta)
	}

	byItem := map[string]domain.InventoryEntry{}
	for _, entry := range loaded.Inventory {
		byItem[entry.ItemID] = entry
		if entry.Source != domain.SourceClass || !entry.IsStartingEquipment {
			t.Fatalf("expected class-sourced starting equipment, got %+v", entry)
		}
	}
	// Direct grants are carried, package contents live in the backpack.
	if byItem["langschwert"].Location != domain.LocationBody {
		t.Fatalf("expected carried sword, got %+v", byItem["langschwert"])
	}
	if byItem["fackel"].Location != domain.LocationBackpack {
		t.Fatalf("expected packed torches, got %+v", byItem["fackel"])
	}
	if byItem["flickzeug"].Location != domain.LocationBackpack {
		t.Fatalf("expected packed tool, got %+v", byItem["flickzeug"])
	}
	if byItem["dolch"].Quantity != 2 {
		t.Fatalf("expected 2 daggers on one row, got %+v", byItem["dolch"])
	}
	if byItem["fackel"].Quantity != 10 {
		t.Fatalf("expected package quantities preserved, got %+v", byItem["fackel"])
	}
	if byItem["kettenhemd"].ItemType != domain.TypeCoreArmor {
		t.Fatalf("expected armor type tag, got %+v", byItem["kettenhemd"])
	}
	if byItem["flickzeug"].ItemType != domain.TypeCoreTool {
		t.Fatalf("expected tool type tag, got %+v", byItem["flickzeug"])
	}

	// Applying again without clearing is rejected.
	err = store.ApplyClassStartingEquipment(ctx, character.ID, "A")
	if !apperrors.IsCode(err, apperrors.CodeEquipmentAlreadyApplied) {
		t.Fatalf("expected already-applied error, got %v", err)
	}
}

func TestClearStartingEquipmentReversesGrant(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedFighter(t, store)

	character := domain.NewCharacter("Brunhild")
	character.Meta.ClassID = "kaempfer"
	character.Currency.GP = 10
	character.Inventory = append(character.Inventory, domain.InventoryEntry{ItemID: "erbstueck"})
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.ApplyClassStartingEquipment(ctx, character.ID, "A"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := store.ClearStartingEquipment(ctx, character.ID, domain.SourceClass); err != nil {
		t.Fatalf("clear: %v", err)
	}

	loaded, err := store.GetCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Inventory) != 1 || loaded.Inventory[0].ItemID != "erbstueck" {
		t.Fatalf("expected only the manual item to survive, got %+v", loaded.Inventory)
	}
	if loaded.Currency.GP != 10 {
		t.Fatalf("expected granted gold clawed back to 10, got %+v", loaded.Currency)
	}
	if loaded.Meta.ClassEquipmentApplied || loaded.Meta.ClassGoldGranted != 0 {
		t.Fatalf("bookkeeping not reset: %+v", loaded.Meta)
	}

	// The cycle can run again after clearing.
	if err := store.ApplyClassStartingEquipment(ctx, character.ID, "B"); err != nil {
		t.Fatalf("apply option B: %v", err)
	}
	loaded, err = store.GetCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Currency.GP != 165 {
		t.Fatalf("expected 10+155 gold, got %+v", loaded.Currency)
	}
	if len(loaded.Inventory) != 1 {
		t.Fatalf("option B grants gold only, got %+v", loaded.Inventory)
	}
}

func TestApplyClassEquipmentErrors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedFighter(t, store)

	noClass := domain.NewCharacter("Ohne")
	if err := store.CreateCharacter(ctx, noClass); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.ApplyClassStartingEquipment(ctx, noClass.ID, "A")
	if !apperrors.IsCode(err, apperrors.CodeEquipmentNoClass) {
		t.Fatalf("expected no-class error, got %v", err)
	}

	fighter := domain.NewCharacter("Brunhild")
	fighter.Meta.ClassID = "kaempfer"
	if err := store.CreateCharacter(ctx, fighter); err != nil {
		t.Fatalf("create: %v", err)
	}
	err = store.ApplyClassStartingEquipment(ctx, fighter.ID, "Z")
	if !apperrors.IsCode(err, apperrors.CodeEquipmentUnknownOption) {
		t.Fatalf("expected unknown-option error, got %v", err)
	}
}

func TestApplyBackgroundEquipment(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedItem(t, store, "schriftrolle", "Schriftrolle der Herkunft")
	seedItem(t, store, "tintenfass", "Tintenfass")
	// Stored under a different display name; only the slug of the granted
	// name matches the identifier.
	seedItem(t, store, "glueckswuerfel", "Würfelset des Spielers")

	character := domain.NewCharacter("Askan")
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Names resolve case-insensitively, then by slug; unknown names are
	// kept verbatim.
	names := []string{"SCHRIFTROLLE DER HERKUNFT", "Tintenfass", "Glückswürfel", "Glücksbringer aus Kindertagen"}
	if err := store.ApplyBackgroundEquipment(ctx, character.ID, names, 10); err != nil {
		t.Fatalf("apply background: %v", err)
	}

	loaded, err := store.GetCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Inventory) != 4 {
		t.Fatalf("expected 4 entries, got %+v", loaded.Inventory)
	}
	seen := map[string]bool{}
	for _, entry := range loaded.Inventory {
		seen[entry.ItemID] = true
		if entry.Source != domain.SourceBackground {
			t.Fatalf("expected background source, got %+v", entry)
		}
	}
	if !seen["schriftrolle"] || !seen["tintenfass"] || !seen["glueckswuerfel"] || !seen["Glücksbringer aus Kindertagen"] {
		t.Fatalf("resolution wrong: %+v", loaded.Inventory)
	}
	if loaded.Currency.GP != 10 || loaded.Meta.BackgroundGoldGranted != 10 {
		t.Fatalf("gold wrong: %+v %+v", loaded.Currency, loaded.Meta)
	}

	// Switching backgrounds replaces the prior grant instead of stacking.
	if err := store.ApplyBackgroundEquipment(ctx, character.ID, []string{"Tintenfass"}, 15); err != nil {
		t.Fatalf("reapply background: %v", err)
	}
	loaded, err = store.GetCharacter(ctx, character.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Inventory) != 1 || loaded.Inventory[0].ItemID != "tintenfass" {
		t.Fatalf("expected prior grant replaced, got %+v", loaded.Inventory)
	}
	if loaded.Currency.GP != 15 {
		t.Fatalf("expected old gold removed and new granted, got %+v", loaded.Currency)
	}
}

func TestClearStartingEquipmentValidatesSource(t *testing.T) {
	store := openTestStore(t)
	character := domain.NewCharacter("Askan")
	if err := store.CreateCharacter(context.Background(), character); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.ClearStartingEquipment(context.Background(), character.ID, "quest"); err == nil {
		t.Fatal("expected unknown source to be rejected")
	}
}

func TestGetClassStartingEquipmentOptions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedFighter(t, store)

	options, err := store.GetClassStartingEquipmentOptions(ctx, "kaempfer")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected options A and B, got %+v", options)
	}

	byLabel := map[string]domain.StartingEquipmentOption{}
	for _, option := range options {
		byLabel[option.Label] = option
	}
	optionA := byLabel["A"]
	if optionA.Gold != 4 {
		t.Fatalf("expected 4 gold in option A, got %+v", optionA)
	}
	var foundDaggers, foundPackage bool
	for _, entry := range optionA.Entries {
		if entry == "2x Dolch" {
			foundDaggers = true
		}
		if entry == "Gewölbeforscherausrüstung" {
			foundPackage = true
		}
	}
	if !foundDaggers || !foundPackage {
		t.Fatalf("display strings wrong: %+v", optionA.Entries)
	}
	if byLabel["B"].Gold != 155 || len(byLabel["B"].Entries) != 0 {
		t.Fatalf("option B should be gold only, got %+v", byLabel["B"])
	}
}

package domain

import "testing"

func TestDocumentRoundTrip(t *testing.T) {
	c := NewCharacter("Eldra")
	c.Meta.ClassID = "kaempfer"
	c.Attributes.Strength = 16
	c.Health = HealthPool{Current: 12, Max: 12, HitDiceTotal: 1}
	c.SpellSlots.Total[0] = 2
	c.Currency.GP = 15
	c.Inventory = []InventoryEntry{
		{ItemID: "dolch", Quantity: 2, Equipped: true, Source: SourceManual},
	}

	doc, err := c.EncodeDocument()
	if err != nil {
		t.Fatalf("encode document: %v", err)
	}

	got, err := DecodeDocument(doc)
	if err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("expected id %s, got %s", c.ID, got.ID)
	}
	if got.Meta.Name != "Eldra" || got.Meta.Level != 1 {
		t.Fatalf("unexpected meta: %+v", got.Meta)
	}
	if got.SpellSlots.Total[0] != 2 {
		t.Fatalf("expected level-1 slot total 2, got %d", got.SpellSlots.Total[0])
	}
	if len(got.Inventory) != 1 || got.Inventory[0].Quantity != 2 || !got.Inventory[0].Equipped {
		t.Fatalf("unexpected inventory: %+v", got.Inventory)
	}
}

func TestDecodeDocumentRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeDocument([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDecodeDocumentDefaultsInventory(t *testing.T) {
	got, err := DecodeDocument([]byte(`{"id":"c1","meta":{"name":"Mira","level":1}}`))
	if err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if got.Inventory == nil {
		t.Fatal("expected non-nil inventory")
	}
}

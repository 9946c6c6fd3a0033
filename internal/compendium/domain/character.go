package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Inventory source tags. Rows created by the starting-equipment engine carry
// the tag of the engine action that created them so clearing can be scoped.
const (
	SourceClass      = "class"
	SourceBackground = "background"
	SourceManual     = "manual"
)

// Item type tags set by the item-type probe.
const (
	TypeCoreItem        = "core_item"
	TypeCustomItem      = "custom_item"
	TypeCoreWeapon      = "core_weapon"
	TypeCustomWeapon    = "custom_weapon"
	TypeCoreArmor       = "core_armor"
	TypeCustomArmor     = "custom_armor"
	TypeCoreMagicItem   = "core_magic_item"
	TypeCustomMagicItem = "custom_magic_item"
	TypeCoreTool        = "core_tool"
	TypeCustomTool      = "custom_tool"
)

// Inventory locations. Granted items are carried on the body; package
// contents go into the backpack. Body doubles as the default for rows
// that never set a location.
const (
	LocationBody     = "Body"
	LocationBackpack = "Backpack"
	DefaultLocation  = LocationBody
)

// InventoryEntry is one line of a character's inventory. ID is the row
// identifier in the normalized table; ItemID references the compendium.
type InventoryEntry struct {
	ID                  string `json:"id,omitempty"`
	ItemID              string `json:"item_id"`
	Name                string `json:"name,omitempty"`
	ItemType            string `json:"item_type,omitempty"`
	Quantity            int    `json:"quantity"`
	Equipped            bool   `json:"equipped"`
	Attuned             bool   `json:"attuned"`
	Location            string `json:"location,omitempty"`
	Source              string `json:"source,omitempty"`
	IsStartingEquipment bool   `json:"is_starting_equipment"`
}

// SpellRef is a known spell with its preparation state.
type SpellRef struct {
	SpellID  string `json:"spell_id"`
	Prepared bool   `json:"prepared"`
}

// Proficiency is one normalized proficiency entry; Kind is one of armor,
// weapon, tool, language, skill, saving_throw.
type Proficiency struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// FeatureRef records a class or feat feature granted to the character.
type FeatureRef struct {
	FeatureID string `json:"feature_id"`
	Source    string `json:"source,omitempty"`
}

// Modifier is a named numeric adjustment applied to a character field.
type Modifier struct {
	ModifierType string `json:"modifier_type"`
	Target       string `json:"target"`
	Value        int    `json:"value"`
	Source       string `json:"source,omitempty"`
}

// Attributes holds the six ability scores.
type Attributes struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// HealthPool tracks hit points, hit dice and death saves.
type HealthPool struct {
	Current            int `json:"current"`
	Max                int `json:"max"`
	Temp               int `json:"temp"`
	HitDiceTotal       int `json:"hit_dice_total"`
	HitDiceUsed        int `json:"hit_dice_used"`
	DeathSaveSuccesses int `json:"death_save_successes"`
	DeathSaveFailures  int `json:"death_save_failures"`
}

// SpellSlots tracks slot totals and usage for spell levels 1 through 9;
// index 0 is level 1.
type SpellSlots struct {
	Total [9]int `json:"total"`
	Used  [9]int `json:"used"`
}

// Currency is the character's coin purse in the five denominations.
type Currency struct {
	CP int `json:"cp"`
	SP int `json:"sp"`
	EP int `json:"ep"`
	GP int `json:"gp"`
	PP int `json:"pp"`
}

// Meta holds the character's identity and the starting-equipment
// bookkeeping. The two granted-gold fields record exactly what each engine
// action added so that clearing a source reverses its gold precisely.
type Meta struct {
	Name                       string  `json:"name"`
	Level                      int     `json:"level"`
	XP                         int     `json:"xp"`
	SpeciesID                  string  `json:"species_id,omitempty"`
	ClassID                    string  `json:"class_id,omitempty"`
	SubclassID                 string  `json:"subclass_id,omitempty"`
	BackgroundID               string  `json:"background_id,omitempty"`
	Alignment                  string  `json:"alignment,omitempty"`
	ClassGoldGranted           float64 `json:"class_gold_granted"`
	BackgroundGoldGranted      float64 `json:"background_gold_granted"`
	ClassEquipmentApplied      bool    `json:"class_equipment_applied"`
	BackgroundEquipmentApplied bool    `json:"background_equipment_applied"`
}

// Character is the full character document as the UI edits it. The store
// persists it both as one JSON blob and as normalized child tables; the
// normalized inventory is authoritative on read.
type Character struct {
	ID            string           `json:"id"`
	Meta          Meta             `json:"meta"`
	Attributes    Attributes       `json:"attributes"`
	Health        HealthPool       `json:"health"`
	SpellSlots    SpellSlots       `json:"spell_slots"`
	Currency      Currency         `json:"currency"`
	Proficiencies []Proficiency    `json:"proficiencies,omitempty"`
	Features      []FeatureRef     `json:"features,omitempty"`
	Modifiers     []Modifier       `json:"modifiers,omitempty"`
	Feats         []string         `json:"feats,omitempty"`
	Inventory     []InventoryEntry `json:"inventory"`
	Spells        []SpellRef       `json:"spells,omitempty"`
}

// CharacterSummary is the list-view projection of a character row.
type CharacterSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	ClassID   string `json:"class_id,omitempty"`
	UpdatedAt int64  `json:"updated_at"`
}

// CharacterSpell is one known spell joined with its compendium fields.
type CharacterSpell struct {
	SpellID  string `json:"spell_id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Prepared bool   `json:"prepared"`
}

// NewCharacter creates a level-1 character with a fresh identifier.
func NewCharacter(name string) *Character {
	return &Character{
		ID:        uuid.NewString(),
		Meta:      Meta{Name: name, Level: 1},
		Inventory: []InventoryEntry{},
	}
}

// EncodeDocument serializes the character to its document form.
func (c *Character) EncodeDocument() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode character document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses a character document.
func DecodeDocument(data []byte) (*Character, error) {
	var c Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode character document: %w", err)
	}
	if c.Inventory == nil {
		c.Inventory = []InventoryEntry{}
	}
	return &c, nil
}

package domain

import "encoding/json"

// Origin tags where a merged-view row came from.
type Origin string

const (
	OriginCore     Origin = "core"
	OriginOverride Origin = "override"
	OriginHomebrew Origin = "homebrew"
)

// Entry is the shape shared by every compendium entity class: a stable
// identifier, display fields, and a free-form JSON data blob holding the
// details not promoted to columns.
type Entry struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Origin      Origin          `json:"origin"`
	// ParentID is set on user rows that override a canonical row.
	ParentID string `json:"parent_id,omitempty"`
	// IsHomebrew marks a pure user entry with no canonical parent.
	IsHomebrew bool `json:"is_homebrew"`
}

// Spell is a compendium spell with its casting level and school.
type Spell struct {
	Entry
	Level  int    `json:"level"`
	School string `json:"school,omitempty"`
}

// Species is a playable species entry.
type Species struct {
	Entry
}

// Class is a playable class entry.
type Class struct {
	Entry
	HitDie int `json:"hit_die,omitempty"`
}

// Subclass belongs to a class.
type Subclass struct {
	Entry
	ClassID string `json:"class_id"`
}

// Background is a character background entry.
type Background struct {
	Entry
}

// Feat is a feat entry.
type Feat struct {
	Entry
}

// Skill is a canonical-only skill entry tied to an ability score.
type Skill struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Ability string `json:"ability"`
}

// Gear is a piece of adventuring gear.
type Gear struct {
	Entry
	CostGP   float64 `json:"cost_gp"`
	WeightKG float64 `json:"weight_kg"`
}

// Item is a generic equipment item.
type Item struct {
	Entry
	CostGP   float64 `json:"cost_gp"`
	WeightKG float64 `json:"weight_kg"`
}

// Tool is a tool or kit.
type Tool struct {
	Entry
	CostGP   float64 `json:"cost_gp"`
	WeightKG float64 `json:"weight_kg"`
}

// WeaponProperty describes a weapon property such as finesse or reach.
// ParameterRequired forces every mapping to carry a parameter value.
type WeaponProperty struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	ParameterRequired bool   `json:"parameter_required"`
}

// ArmorProperty describes an armor property and which derived field it
// affects.
type ArmorProperty struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	AffectsField string `json:"affects_field,omitempty"`
}

// WeaponMastery is a weapon mastery technique.
type WeaponMastery struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// WeaponPropertyRef is a property attached to a concrete weapon, with the
// optional JSON parameter the mapping carries.
type WeaponPropertyRef struct {
	Property  WeaponProperty  `json:"property"`
	Parameter json.RawMessage `json:"parameter,omitempty"`
}

// Weapon is a weapon row from the unified read surface, inflated with its
// mapped properties and mastery.
type Weapon struct {
	Entry
	Category   WeaponCategory      `json:"category"`
	Subtype    string              `json:"subtype,omitempty"`
	DamageDice string              `json:"damage_dice,omitempty"`
	DamageType DamageType          `json:"damage_type,omitempty"`
	CostGP     float64             `json:"cost_gp"`
	WeightKG   float64             `json:"weight_kg"`
	MasteryID  string              `json:"mastery_id,omitempty"`
	Mastery    *WeaponMastery      `json:"mastery,omitempty"`
	Properties []WeaponPropertyRef `json:"properties,omitempty"`
}

// ArmorPropertyRef is a property attached to a concrete armor.
type ArmorPropertyRef struct {
	Property  ArmorProperty   `json:"property"`
	Parameter json.RawMessage `json:"parameter,omitempty"`
}

// Armor is an armor row inflated with its mapped properties.
type Armor struct {
	Entry
	Category    ArmorCategory      `json:"category"`
	BaseAC      int                `json:"base_ac"`
	StrengthReq int                `json:"strength_req,omitempty"`
	Stealthy    bool               `json:"stealth_disadvantage"`
	CostGP      float64            `json:"cost_gp"`
	WeightKG    float64            `json:"weight_kg"`
	Properties  []ArmorPropertyRef `json:"properties,omitempty"`
}

// MagicItemCategory enumerates the auxiliary tables a magical-item base row
// can point at.
type MagicItemCategory string

const (
	MagicWeapon     MagicItemCategory = "weapon"
	MagicArmor      MagicItemCategory = "armor"
	MagicConsumable MagicItemCategory = "consumable"
	MagicFocus      MagicItemCategory = "focus"
	MagicJewelry    MagicItemCategory = "jewelry"
	MagicWondrous   MagicItemCategory = "wondrous"
)

// MagicItem is a magical-item base row. Data and FactsJSON are two views of
// the same payload and are kept in sync by the store.
type MagicItem struct {
	Entry
	Category  MagicItemCategory `json:"category"`
	Rarity    string            `json:"rarity,omitempty"`
	Attuned   bool              `json:"requires_attunement"`
	FactsJSON json.RawMessage   `json:"facts_json,omitempty"`
}

// PackageContent is one member of an equipment package, either an item or a
// tool reference with a quantity.
type PackageContent struct {
	ItemID   string `json:"item_id,omitempty"`
	ToolID   string `json:"tool_id,omitempty"`
	Quantity int    `json:"quantity"`
}

// EquipmentPackage is a compound entity expanded member-by-member when
// granted to a character.
type EquipmentPackage struct {
	Entry
	TotalCostGP   float64          `json:"total_cost_gp"`
	TotalWeightKG float64          `json:"total_weight_kg"`
	Contents      []PackageContent `json:"contents,omitempty"`
}

// ClassFeature is a feature a class grants at a given level, optionally
// scoped to a subclass.
type ClassFeature struct {
	Entry
	ClassID    string          `json:"class_id"`
	SubclassID string          `json:"subclass_id,omitempty"`
	Level      int             `json:"level"`
	Effects    json.RawMessage `json:"effects,omitempty"`
}

// FeatureOption is a choice within a class feature (fighting styles and the
// like).
type FeatureOption struct {
	ID          string          `json:"id"`
	FeatureID   string          `json:"feature_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Effects     json.RawMessage `json:"effects,omitempty"`
}

// StartingEquipmentRow is one row of a class starting-equipment option
// block. Exactly one of the target references or the gold amount is set;
// when several references are set, resolution prefers item, then tool, then
// weapon, then armor (packages ride in the item column).
type StartingEquipmentRow struct {
	ID          int64   `json:"id"`
	ClassID     string  `json:"class_id"`
	OptionLabel string  `json:"option_label,omitempty"`
	ItemID      string  `json:"item_id,omitempty"`
	ToolID      string  `json:"tool_id,omitempty"`
	WeaponID    string  `json:"weapon_id,omitempty"`
	ArmorID     string  `json:"armor_id,omitempty"`
	Quantity    int     `json:"quantity"`
	Gold        float64 `json:"gold"`
	IsCurrency  bool    `json:"is_currency"`
}

// StartingEquipmentOption is the grouped display form of one option label:
// human-readable entry summaries plus the gold total.
type StartingEquipmentOption struct {
	Label   string   `json:"label"`
	Entries []string `json:"entries"`
	Gold    float64  `json:"gold"`
}

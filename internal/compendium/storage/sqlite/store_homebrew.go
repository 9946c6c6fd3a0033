package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lorekeep/nexus/internal/compendium/domain"
	apperrors "github.com/lorekeep/nexus/internal/errors"
)

// customTables maps an entity class name to its user table. The key set is
// closed; anything else is invalid input.
var customTables = map[string]string{
	"spell":         "custom_spells",
	"species":       "custom_species",
	"class":         "custom_classes",
	"subclass":      "custom_subclasses",
	"background":    "custom_backgrounds",
	"feat":          "custom_feats",
	"item":          "custom_items",
	"gear":          "custom_gear",
	"tool":          "custom_tools",
	"weapon":        "custom_weapons",
	"armor":         "custom_armors",
	"magic_item":    "custom_mag_items_base",
	"equipment":     "custom_equipment",
	"class_feature": "custom_class_features",
}

// prepareCustom fills in the identifier and the homebrew flag: a nil
// identifier means "generate a new one", and a row is homebrew exactly when
// it has no canonical parent, unless the caller set the flag explicitly.
func prepareCustom(entry *domain.Entry, explicitHomebrew bool) {
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}
	if !explicitHomebrew {
		entry.IsHomebrew = strings.TrimSpace(entry.ParentID) == ""
	}
}

// UpsertCustomSpell writes a user spell (override or homebrew) and returns
// its identifier.
func (s *Store) UpsertCustomSpell(ctx context.Context, spell domain.Spell) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	prepareCustom(&spell.Entry, false)
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO custom_spells (id, parent_id, is_homebrew, name, level, school, description, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   name = excluded.name,
		   level = excluded.level,
		   school = excluded.school,
		   description = excluded.description,
		   data = excluded.data`,
		spell.ID, nullStr(spell.ParentID), boolToInt(spell.IsHomebrew),
		nullStr(spell.Name), spell.Level, nullStr(spell.School),
		nullStr(spell.Description), nullJSON(spell.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, "upsert custom spell")
	}
	return spell.ID, nil
}

// UpsertCustomSpecies writes a user species.
func (s *Store) UpsertCustomSpecies(ctx context.Context, species domain.Species) (string, error) {
	return s.upsertCustomSimple(ctx, "custom_species", species.Entry)
}

// UpsertCustomBackground writes a user background.
func (s *Store) UpsertCustomBackground(ctx context.Context, background domain.Background) (string, error) {
	return s.upsertCustomSimple(ctx, "custom_backgrounds", background.Entry)
}

// UpsertCustomFeat writes a user feat.
func (s *Store) UpsertCustomFeat(ctx context.Context, feat domain.Feat) (string, error) {
	return s.upsertCustomSimple(ctx, "custom_feats", feat.Entry)
}

func (s *Store) upsertCustomSimple(ctx context.Context, table string, entry domain.Entry) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	prepareCustom(&entry, false)
	query := fmt.Sprintf(
		`INSERT INTO %s (id, parent_id, is_homebrew, name, description, data)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   name = excluded.name,
		   description = excluded.description,
		   data = excluded.data`, table)
	_, err := s.sqlDB.ExecContext(ctx, query,
		entry.ID, nullStr(entry.ParentID), boolToInt(entry.IsHomebrew),
		nullStr(entry.Name), nullStr(entry.Description), nullJSON(entry.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, fmt.Sprintf("upsert %s", table))
	}
	return entry.ID, nil
}

// UpsertCustomClass writes a user class.
func (s *Store) UpsertCustomClass(ctx context.Context, class domain.Class) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	prepareCustom(&class.Entry, false)
	var hitDie any
	if class.HitDie > 0 {
		hitDie = class.HitDie
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO custom_classes (id, parent_id, is_homebrew, name, hit_die, description, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   name = excluded.name,
		   hit_die = excluded.hit_die,
		   description = excluded.description,
		   data = excluded.data`,
		class.ID, nullStr(class.ParentID), boolToInt(class.IsHomebrew),
		nullStr(class.Name), hitDie, nullStr(class.Description), nullJSON(class.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, "upsert custom class")
	}
	return class.ID, nil
}

// UpsertCustomSubclass writes a user subclass. The class reference is
// checked by trigger against the merged class view.
func (s *Store) UpsertCustomSubclass(ctx context.Context, subclass domain.Subclass) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	prepareCustom(&subclass.Entry, false)
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO custom_subclasses (id, parent_id, is_homebrew, class_id, name, description, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   class_id = excluded.class_id,
		   name = excluded.name,
		   description = excluded.description,
		   data = excluded.data`,
		subclass.ID, nullStr(subclass.ParentID), boolToInt(subclass.IsHomebrew),
		nullStr(subclass.ClassID), nullStr(subclass.Name),
		nullStr(subclass.Description), nullJSON(subclass.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, "upsert custom subclass")
	}
	return subclass.ID, nil
}

// UpsertCustomItem writes a user item.
func (s *Store) UpsertCustomItem(ctx context.Context, item domain.Item) (string, error) {
	return s.upsertCustomGoods(ctx, "custom_items", item)
}

// UpsertCustomGear writes a user piece of gear.
func (s *Store) UpsertCustomGear(ctx context.Context, gear domain.Gear) (string, error) {
	return s.upsertCustomGoods(ctx, "custom_gear", domain.Item{Entry: gear.Entry, CostGP: gear.CostGP, WeightKG: gear.WeightKG})
}

// UpsertCustomTool writes a user tool.
func (s *Store) UpsertCustomTool(ctx context.Context, tool domain.Tool) (string, error) {
	return s.upsertCustomGoods(ctx, "custom_tools", domain.Item{Entry: tool.Entry, CostGP: tool.CostGP, WeightKG: tool.WeightKG})
}

func (s *Store) upsertCustomGoods(ctx context.Context, table string, item domain.Item) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	prepareCustom(&item.Entry, false)
	query := fmt.Sprintf(
		`INSERT INTO %s (id, parent_id, is_homebrew, name, description, cost_gp, weight_kg, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   name = excluded.name,
		   description = excluded.description,
		   cost_gp = excluded.cost_gp,
		   weight_kg = excluded.weight_kg,
		   data = excluded.data`, table)
	_, err := s.sqlDB.ExecContext(ctx, query,
		item.ID, nullStr(item.ParentID), boolToInt(item.IsHomebrew),
		nullStr(item.Name), nullStr(item.Description),
		item.CostGP, item.WeightKG, nullJSON(item.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, fmt.Sprintf("upsert %s", table))
	}
	return item.ID, nil
}

// UpsertCustomWeapon writes a user weapon.
func (s *Store) UpsertCustomWeapon(ctx context.Context, weapon domain.Weapon) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	if weapon.Category != "" && !weapon.Category.Valid() {
		return "", apperrors.Newf(apperrors.CodeEntryInvalidClass, "weapon category %q is not valid", weapon.Category)
	}
	if weapon.DamageType != "" && !weapon.DamageType.Valid() {
		return "", apperrors.Newf(apperrors.CodeEntryInvalidClass, "damage type %q is not valid", weapon.DamageType)
	}
	prepareCustom(&weapon.Entry, false)
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO custom_weapons
		   (id, parent_id, is_homebrew, name, category, subtype, damage_dice,
		    damage_type, cost_gp, weight_kg, mastery_id, description, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   name = excluded.name,
		   category = excluded.category,
		   subtype = excluded.subtype,
		   damage_dice = excluded.damage_dice,
		   damage_type = excluded.damage_type,
		   cost_gp = excluded.cost_gp,
		   weight_kg = excluded.weight_kg,
		   mastery_id = excluded.mastery_id,
		   description = excluded.description,
		   data = excluded.data`,
		weapon.ID, nullStr(weapon.ParentID), boolToInt(weapon.IsHomebrew),
		nullStr(weapon.Name), nullStr(string(weapon.Category)), nullStr(weapon.Subtype),
		nullStr(weapon.DamageDice), nullStr(string(weapon.DamageType)),
		weapon.CostGP, weapon.WeightKG, nullStr(weapon.MasteryID),
		nullStr(weapon.Description), nullJSON(weapon.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, "upsert custom weapon")
	}
	return weapon.ID, nil
}

// UpsertCustomArmor writes a user armor.
func (s *Store) UpsertCustomArmor(ctx context.Context, armor domain.Armor) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	if armor.Category != "" && !armor.Category.Valid() {
		return "", apperrors.Newf(apperrors.CodeEntryInvalidClass, "armor category %q is not valid", armor.Category)
	}
	prepareCustom(&armor.Entry, false)
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO custom_armors
		   (id, parent_id, is_homebrew, name, category, base_ac, strength_req,
		    stealth_disadvantage, cost_gp, weight_kg, description, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   name = excluded.name,
		   category = excluded.category,
		   base_ac = excluded.base_ac,
		   strength_req = excluded.strength_req,
		   stealth_disadvantage = excluded.stealth_disadvantage,
		   cost_gp = excluded.cost_gp,
		   weight_kg = excluded.weight_kg,
		   description = excluded.description,
		   data = excluded.data`,
		armor.ID, nullStr(armor.ParentID), boolToInt(armor.IsHomebrew),
		nullStr(armor.Name), nullStr(string(armor.Category)), armor.BaseAC,
		armor.StrengthReq, boolToInt(armor.Stealthy),
		armor.CostGP, armor.WeightKG, nullStr(armor.Description), nullJSON(armor.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, "upsert custom armor")
	}
	return armor.ID, nil
}

// UpsertCustomMagicItem writes a user magical-item base row.
func (s *Store) UpsertCustomMagicItem(ctx context.Context, item domain.MagicItem) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	prepareCustom(&item.Entry, false)
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO custom_mag_items_base
		   (id, parent_id, is_homebrew, name, category, rarity, requires_attunement, description, facts_json, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   name = excluded.name,
		   category = excluded.category,
		   rarity = excluded.rarity,
		   requires_attunement = excluded.requires_attunement,
		   description = excluded.description,
		   facts_json = excluded.facts_json,
		   data = excluded.data`,
		item.ID, nullStr(item.ParentID), boolToInt(item.IsHomebrew),
		nullStr(item.Name), nullStr(string(item.Category)), nullStr(item.Rarity),
		boolToInt(item.Attuned), nullStr(item.Description),
		nullJSON(item.FactsJSON), nullJSON(item.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, "upsert custom magic item")
	}
	return item.ID, nil
}

// CreateCustomClassFeature writes a user class feature. The class reference
// and the effects JSON are checked by trigger.
func (s *Store) CreateCustomClassFeature(ctx context.Context, feature domain.ClassFeature) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	prepareCustom(&feature.Entry, false)
	level := feature.Level
	if level <= 0 {
		level = 1
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO custom_class_features
		   (id, parent_id, is_homebrew, class_id, subclass_id, level, name, description, effects, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id,
		   is_homebrew = excluded.is_homebrew,
		   class_id = excluded.class_id,
		   subclass_id = excluded.subclass_id,
		   level = excluded.level,
		   name = excluded.name,
		   description = excluded.description,
		   effects = excluded.effects,
		   data = excluded.data`,
		feature.ID, nullStr(feature.ParentID), boolToInt(feature.IsHomebrew),
		nullStr(feature.ClassID), nullStr(feature.SubclassID), level,
		nullStr(feature.Name), nullStr(feature.Description),
		nullJSON(feature.Effects), nullJSON(feature.Data),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, "create custom class feature")
	}
	return feature.ID, nil
}

// DeleteCustomEntry removes one user row by entity class and identifier.
func (s *Store) DeleteCustomEntry(ctx context.Context, entityClass, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	table, ok := customTables[entityClass]
	if !ok {
		return apperrors.Newf(apperrors.CodeEntryInvalidClass, "unknown entity class %q", entityClass)
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeEntryEmptyID, "entry id is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, fmt.Sprintf("delete from %s", table))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound("no %s entry with id %s", entityClass, id)
	}
	return nil
}

// RestoreCoreEntry removes the user override for a canonical row, letting
// the canonical fields show through the merged view again.
func (s *Store) RestoreCoreEntry(ctx context.Context, entityClass, parentID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	table, ok := customTables[entityClass]
	if !ok {
		return apperrors.Newf(apperrors.CodeEntryInvalidClass, "unknown entity class %q", entityClass)
	}
	if strings.TrimSpace(parentID) == "" {
		return apperrors.New(apperrors.CodeEntryEmptyID, "parent id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE parent_id = ?", table), parentID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, fmt.Sprintf("restore core entry in %s", table))
	}
	return nil
}

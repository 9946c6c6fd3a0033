package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lorekeep/nexus/internal/compendium/domain"
)

// The Put* methods form the importer-facing surface for the canonical
// layer. They upsert by identifier so a reseed is a plain re-run.

// PutCoreSpell upserts one canonical spell.
func (s *Store) PutCoreSpell(ctx context.Context, spell domain.Spell) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(spell.ID) == "" {
		return fmt.Errorf("spell id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_spells (id, name, level, school, description, data)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   level = excluded.level,
		   school = excluded.school,
		   description = excluded.description,
		   data = excluded.data`,
		spell.ID, spell.Name, spell.Level, nullStr(spell.School),
		nullStr(spell.Description), nullJSON(spell.Data),
	)
	if err != nil {
		return fmt.Errorf("put core spell: %w", err)
	}
	return nil
}

// PutCoreSpecies upserts one canonical species.
func (s *Store) PutCoreSpecies(ctx context.Context, species domain.Species) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(species.ID) == "" {
		return fmt.Errorf("species id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_species (id, name, description, data)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   data = excluded.data`,
		species.ID, species.Name, nullStr(species.Description), nullJSON(species.Data),
	)
	if err != nil {
		return fmt.Errorf("put core species: %w", err)
	}
	return nil
}

// PutCoreClass upserts one canonical class.
func (s *Store) PutCoreClass(ctx context.Context, class domain.Class) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(class.ID) == "" {
		return fmt.Errorf("class id is required")
	}
	hitDie := class.HitDie
	if hitDie == 0 {
		hitDie = 8
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_classes (id, name, hit_die, description, data)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   hit_die = excluded.hit_die,
		   description = excluded.description,
		   data = excluded.data`,
		class.ID, class.Name, hitDie, nullStr(class.Description), nullJSON(class.Data),
	)
	if err != nil {
		return fmt.Errorf("put core class: %w", err)
	}
	return nil
}

// PutCoreSubclass upserts one canonical subclass.
func (s *Store) PutCoreSubclass(ctx context.Context, subclass domain.Subclass) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(subclass.ID) == "" {
		return fmt.Errorf("subclass id is required")
	}
	if strings.TrimSpace(subclass.ClassID) == "" {
		return fmt.Errorf("subclass class id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_subclasses (id, class_id, name, description, data)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   class_id = excluded.class_id,
		   name = excluded.name,
		   description = excluded.description,
		   data = excluded.data`,
		subclass.ID, subclass.ClassID, subclass.Name,
		nullStr(subclass.Description), nullJSON(subclass.Data),
	)
	if err != nil {
		return fmt.Errorf("put core subclass: %w", err)
	}
	return nil
}

// PutCoreBackground upserts one canonical background.
func (s *Store) PutCoreBackground(ctx context.Context, background domain.Background) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(background.ID) == "" {
		return fmt.Errorf("background id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_backgrounds (id, name, description, data)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   data = excluded.data`,
		background.ID, background.Name, nullStr(background.Description), nullJSON(background.Data),
	)
	if err != nil {
		return fmt.Errorf("put core background: %w", err)
	}
	return nil
}

// PutCoreFeat upserts one canonical feat.
func (s *Store) PutCoreFeat(ctx context.Context, feat domain.Feat) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(feat.ID) == "" {
		return fmt.Errorf("feat id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_feats (id, name, description, data)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   data = excluded.data`,
		feat.ID, feat.Name, nullStr(feat.Description), nullJSON(feat.Data),
	)
	if err != nil {
		return fmt.Errorf("put core feat: %w", err)
	}
	return nil
}

// PutCoreSkill upserts one canonical skill.
func (s *Store) PutCoreSkill(ctx context.Context, skill domain.Skill) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(skill.ID) == "" {
		return fmt.Errorf("skill id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_skills (id, name, ability)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   ability = excluded.ability`,
		skill.ID, skill.Name, skill.Ability,
	)
	if err != nil {
		return fmt.Errorf("put core skill: %w", err)
	}
	return nil
}

func (s *Store) putCoreGoods(ctx context.Context, table string, item domain.Item) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("%s id is required", table)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (id, name, description, cost_gp, weight_kg, data)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   cost_gp = excluded.cost_gp,
		   weight_kg = excluded.weight_kg,
		   data = excluded.data`, table)
	_, err := s.sqlDB.ExecContext(ctx, query,
		item.ID, item.Name, nullStr(item.Description),
		item.CostGP, item.WeightKG, nullJSON(item.Data),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

// PutCoreItem upserts one canonical equipment item.
func (s *Store) PutCoreItem(ctx context.Context, item domain.Item) error {
	return s.putCoreGoods(ctx, "core_items", item)
}

// PutCoreGear upserts one canonical piece of gear.
func (s *Store) PutCoreGear(ctx context.Context, gear domain.Gear) error {
	return s.putCoreGoods(ctx, "core_gear", domain.Item{Entry: gear.Entry, CostGP: gear.CostGP, WeightKG: gear.WeightKG})
}

// PutCoreTool upserts one canonical tool.
func (s *Store) PutCoreTool(ctx context.Context, tool domain.Tool) error {
	return s.putCoreGoods(ctx, "core_tools", domain.Item{Entry: tool.Entry, CostGP: tool.CostGP, WeightKG: tool.WeightKG})
}

// PutCoreWeapon upserts one canonical weapon.
func (s *Store) PutCoreWeapon(ctx context.Context, weapon domain.Weapon) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(weapon.ID) == "" {
		return fmt.Errorf("weapon id is required")
	}
	if weapon.Category != "" && !weapon.Category.Valid() {
		return fmt.Errorf("weapon category %q is not valid", weapon.Category)
	}
	if weapon.DamageType != "" && !weapon.DamageType.Valid() {
		return fmt.Errorf("damage type %q is not valid", weapon.DamageType)
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_weapons
		   (id, name, category, subtype, damage_dice, damage_type, cost_gp, weight_kg, mastery_id, description, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
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
		weapon.ID, weapon.Name, string(weapon.Category), nullStr(weapon.Subtype),
		nullStr(weapon.DamageDice), nullStr(string(weapon.DamageType)),
		weapon.CostGP, weapon.WeightKG, nullStr(weapon.MasteryID),
		nullStr(weapon.Description), nullJSON(weapon.Data),
	)
	if err != nil {
		return fmt.Errorf("put core weapon: %w", err)
	}
	return nil
}

// PutCoreArmor upserts one canonical armor.
func (s *Store) PutCoreArmor(ctx context.Context, armor domain.Armor) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(armor.ID) == "" {
		return fmt.Errorf("armor id is required")
	}
	if armor.Category != "" && !armor.Category.Valid() {
		return fmt.Errorf("armor category %q is not valid", armor.Category)
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_armors
		   (id, name, category, base_ac, strength_req, stealth_disadvantage, cost_gp, weight_kg, description, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   category = excluded.category,
		   base_ac = excluded.base_ac,
		   strength_req = excluded.strength_req,
		   stealth_disadvantage = excluded.stealth_disadvantage,
		   cost_gp = excluded.cost_gp,
		   weight_kg = excluded.weight_kg,
		   description = excluded.description,
		   data = excluded.data`,
		armor.ID, armor.Name, string(armor.Category), armor.BaseAC,
		armor.StrengthReq, boolToInt(armor.Stealthy),
		armor.CostGP, armor.WeightKG, nullStr(armor.Description), nullJSON(armor.Data),
	)
	if err != nil {
		return fmt.Errorf("put core armor: %w", err)
	}
	return nil
}

// PutCoreMagicItem upserts one canonical magical-item base row. When
// facts_json is absent the sync trigger fills it from data.
func (s *Store) PutCoreMagicItem(ctx context.Context, item domain.MagicItem) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("magic item id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_mag_items_base
		   (id, name, category, rarity, requires_attunement, description, facts_json, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   category = excluded.category,
		   rarity = excluded.rarity,
		   requires_attunement = excluded.requires_attunement,
		   description = excluded.description,
		   facts_json = excluded.facts_json,
		   data = excluded.data`,
		item.ID, item.Name, string(item.Category), nullStr(item.Rarity),
		boolToInt(item.Attuned), nullStr(item.Description),
		nullJSON(item.FactsJSON), nullJSON(item.Data),
	)
	if err != nil {
		return fmt.Errorf("put core magic item: %w", err)
	}
	return nil
}

// PutCoreEquipmentPackage upserts one canonical equipment package with its
// member mappings. Members are replaced wholesale.
func (s *Store) PutCoreEquipmentPackage(ctx context.Context, pkg domain.EquipmentPackage) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(pkg.ID) == "" {
		return fmt.Errorf("equipment package id is required")
	}
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO core_equipment (id, name, description, total_cost_gp, total_weight_kg, data)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   total_cost_gp = excluded.total_cost_gp,
		   total_weight_kg = excluded.total_weight_kg,
		   data = excluded.data`,
		pkg.ID, pkg.Name, nullStr(pkg.Description),
		pkg.TotalCostGP, pkg.TotalWeightKG, nullJSON(pkg.Data),
	); err != nil {
		return fmt.Errorf("put core equipment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM core_equipment_items WHERE equipment_id = ?`, pkg.ID); err != nil {
		return fmt.Errorf("clear equipment items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM core_equipment_tools WHERE equipment_id = ?`, pkg.ID); err != nil {
		return fmt.Errorf("clear equipment tools: %w", err)
	}

	for _, content := range pkg.Contents {
		quantity := content.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		switch {
		case content.ItemID != "":
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO core_equipment_items (equipment_id, item_id, quantity) VALUES (?, ?, ?)`,
				pkg.ID, content.ItemID, quantity,
			); err != nil {
				return fmt.Errorf("put equipment item member: %w", err)
			}
		case content.ToolID != "":
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO core_equipment_tools (equipment_id, tool_id, quantity) VALUES (?, ?, ?)`,
				pkg.ID, content.ToolID, quantity,
			); err != nil {
				return fmt.Errorf("put equipment tool member: %w", err)
			}
		default:
			return fmt.Errorf("equipment member needs an item or tool reference")
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit equipment package: %w", err)
	}
	return nil
}

// PutCoreClassFeature upserts one canonical class feature.
func (s *Store) PutCoreClassFeature(ctx context.Context, feature domain.ClassFeature) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(feature.ID) == "" {
		return fmt.Errorf("class feature id is required")
	}
	if strings.TrimSpace(feature.ClassID) == "" {
		return fmt.Errorf("class feature class id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_class_features
		   (id, class_id, subclass_id, level, name, description, effects, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   class_id = excluded.class_id,
		   subclass_id = excluded.subclass_id,
		   level = excluded.level,
		   name = excluded.name,
		   description = excluded.description,
		   effects = excluded.effects,
		   data = excluded.data`,
		feature.ID, feature.ClassID, nullStr(feature.SubclassID), feature.Level,
		feature.Name, nullStr(feature.Description),
		nullJSON(feature.Effects), nullJSON(feature.Data),
	)
	if err != nil {
		return fmt.Errorf("put core class feature: %w", err)
	}
	return nil
}

// PutCoreFeatureOption upserts one canonical feature option.
func (s *Store) PutCoreFeatureOption(ctx context.Context, option domain.FeatureOption) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(option.ID) == "" {
		return fmt.Errorf("feature option id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO core_feature_options (id, feature_id, name, description, effects)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   feature_id = excluded.feature_id,
		   name = excluded.name,
		   description = excluded.description,
		   effects = excluded.effects`,
		option.ID, option.FeatureID, option.Name,
		nullStr(option.Description), nullJSON(option.Effects),
	)
	if err != nil {
		return fmt.Errorf("put core feature option: %w", err)
	}
	return nil
}

// PutWeaponProperty upserts one weapon property definition.
func (s *Store) PutWeaponProperty(ctx context.Context, property domain.WeaponProperty) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(property.ID) == "" {
		return fmt.Errorf("weapon property id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO weapon_properties (id, name, description, parameter_required)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   parameter_required = excluded.parameter_required`,
		property.ID, property.Name, nullStr(property.Description),
		boolToInt(property.ParameterRequired),
	)
	if err != nil {
		return fmt.Errorf("put weapon property: %w", err)
	}
	return nil
}

// PutArmorProperty upserts one armor property definition.
func (s *Store) PutArmorProperty(ctx context.Context, property domain.ArmorProperty) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(property.ID) == "" {
		return fmt.Errorf("armor property id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO armor_properties (id, name, description, affects_field)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   affects_field = excluded.affects_field`,
		property.ID, property.Name, nullStr(property.Description),
		nullStr(property.AffectsField),
	)
	if err != nil {
		return fmt.Errorf("put armor property: %w", err)
	}
	return nil
}

// PutWeaponMastery upserts one weapon mastery definition.
func (s *Store) PutWeaponMastery(ctx context.Context, mastery domain.WeaponMastery) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(mastery.ID) == "" {
		return fmt.Errorf("weapon mastery id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO weapon_masteries (id, name, description)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description`,
		mastery.ID, mastery.Name, nullStr(mastery.Description),
	)
	if err != nil {
		return fmt.Errorf("put weapon mastery: %w", err)
	}
	return nil
}

// AddWeaponPropertyMapping attaches a property to a weapon. The insert is
// conflict-ignoring against the unique (weapon_id, property_id) index;
// the existence, JSON and parameter triggers run before the row lands.
func (s *Store) AddWeaponPropertyMapping(ctx context.Context, weaponID, propertyID string, parameter []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(weaponID) == "" || strings.TrimSpace(propertyID) == "" {
		return fmt.Errorf("weapon id and property id are required")
	}
	var param any
	if len(parameter) > 0 {
		param = string(parameter)
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR IGNORE INTO weapon_property_mappings (id, weapon_id, property_id, parameter)
		 VALUES (?, ?, ?, ?)`,
		uuid.NewString(), weaponID, propertyID, param,
	)
	if err != nil {
		return fmt.Errorf("add weapon property mapping: %w", err)
	}
	return nil
}

// RemoveWeaponPropertyMapping detaches a property from a weapon.
func (s *Store) RemoveWeaponPropertyMapping(ctx context.Context, weaponID, propertyID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM weapon_property_mappings WHERE weapon_id = ? AND property_id = ?`,
		weaponID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("remove weapon property mapping: %w", err)
	}
	return nil
}

// SetWeaponPropertyParameter replaces a mapping's parameter. Mapping
// triggers only run on insert, so the update is a delete-then-insert.
func (s *Store) SetWeaponPropertyParameter(ctx context.Context, weaponID, propertyID string, parameter []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM weapon_property_mappings WHERE weapon_id = ? AND property_id = ?`,
		weaponID, propertyID,
	); err != nil {
		return fmt.Errorf("remove weapon property mapping: %w", err)
	}
	var param any
	if len(parameter) > 0 {
		param = string(parameter)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO weapon_property_mappings (id, weapon_id, property_id, parameter)
		 VALUES (?, ?, ?, ?)`,
		uuid.NewString(), weaponID, propertyID, param,
	); err != nil {
		return fmt.Errorf("reinsert weapon property mapping: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit weapon property parameter: %w", err)
	}
	return nil
}

// AddArmorPropertyMapping attaches a property to an armor.
func (s *Store) AddArmorPropertyMapping(ctx context.Context, armorID, propertyID string, parameter []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(armorID) == "" || strings.TrimSpace(propertyID) == "" {
		return fmt.Errorf("armor id and property id are required")
	}
	var param any
	if len(parameter) > 0 {
		param = string(parameter)
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR IGNORE INTO armor_property_mappings (id, armor_id, property_id, parameter)
		 VALUES (?, ?, ?, ?)`,
		uuid.NewString(), armorID, propertyID, param,
	)
	if err != nil {
		return fmt.Errorf("add armor property mapping: %w", err)
	}
	return nil
}

// RemoveArmorPropertyMapping detaches a property from an armor.
func (s *Store) RemoveArmorPropertyMapping(ctx context.Context, armorID, propertyID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM armor_property_mappings WHERE armor_id = ? AND property_id = ?`,
		armorID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("remove armor property mapping: %w", err)
	}
	return nil
}

// AddClassStartingEquipment appends one starting-equipment row for a class.
func (s *Store) AddClassStartingEquipment(ctx context.Context, row domain.StartingEquipmentRow) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(row.ClassID) == "" {
		return fmt.Errorf("starting equipment class id is required")
	}
	quantity := row.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	isCustom := 0
	if exists, err := s.rowExists(ctx, s.sqlDB, "custom_classes", row.ClassID); err != nil {
		return err
	} else if exists {
		coreExists, err := s.rowExists(ctx, s.sqlDB, "core_classes", row.ClassID)
		if err != nil {
			return err
		}
		if !coreExists {
			isCustom = 1
		}
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO class_starting_equipment
		   (class_id, is_custom_class, option_label, item_id, tool_id, weapon_id, armor_id, quantity, gold, is_currency)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ClassID, isCustom, nullStr(row.OptionLabel),
		nullStr(row.ItemID), nullStr(row.ToolID), nullStr(row.WeaponID), nullStr(row.ArmorID),
		quantity, row.Gold, boolToInt(row.IsCurrency),
	)
	if err != nil {
		return fmt.Errorf("add class starting equipment: %w", err)
	}
	return nil
}

func (s *Store) rowExists(ctx context.Context, q dbtx, table, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("probe %s: %w", table, err)
	}
	return true, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lorekeep/nexus/internal/compendium/domain"
)

// ListWeapons returns the unified weapon surface with property mappings and
// mastery inflated per weapon.
func (s *Store) ListWeapons(ctx context.Context) ([]domain.Weapon, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, category, subtype, damage_dice, damage_type,
		        cost_gp, weight_kg, mastery_id, description, data, origin, custom_id
		 FROM all_weapons_unified ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list weapons: %w", err)
	}
	defer rows.Close()

	var weapons []domain.Weapon
	for rows.Next() {
		weapon, err := scanWeapon(rows)
		if err != nil {
			return nil, err
		}
		weapons = append(weapons, weapon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weapons: %w", err)
	}

	for i := range weapons {
		if err := s.inflateWeapon(ctx, &weapons[i]); err != nil {
			return nil, err
		}
	}
	return weapons, nil
}

// GetWeapon returns one weapon from the unified surface.
func (s *Store) GetWeapon(ctx context.Context, id string) (domain.Weapon, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Weapon{}, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, category, subtype, damage_dice, damage_type,
		        cost_gp, weight_kg, mastery_id, description, data, origin, custom_id
		 FROM all_weapons_unified WHERE id = ?`, id)
	if err != nil {
		return domain.Weapon{}, fmt.Errorf("get weapon: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Weapon{}, fmt.Errorf("get weapon: %w", err)
		}
		return domain.Weapon{}, notFound("weapon %s not found", id)
	}
	weapon, err := scanWeapon(rows)
	if err != nil {
		return domain.Weapon{}, err
	}
	// The pool holds a single connection; release it before inflate
	// issues its own queries.
	if err := rows.Close(); err != nil {
		return domain.Weapon{}, fmt.Errorf("get weapon: %w", err)
	}
	if err := s.inflateWeapon(ctx, &weapon); err != nil {
		return domain.Weapon{}, err
	}
	return weapon, nil
}

func scanWeapon(rows *sql.Rows) (domain.Weapon, error) {
	var (
		weapon      domain.Weapon
		category    sql.NullString
		subtype     sql.NullString
		damageDice  sql.NullString
		damageType  sql.NullString
		costGP      sql.NullFloat64
		weightKG    sql.NullFloat64
		masteryID   sql.NullString
		description sql.NullString
		data        sql.NullString
		origin      string
		customID    sql.NullString
	)
	if err := rows.Scan(&weapon.ID, &weapon.Name, &category, &subtype,
		&damageDice, &damageType, &costGP, &weightKG, &masteryID,
		&description, &data, &origin, &customID); err != nil {
		return domain.Weapon{}, fmt.Errorf("scan weapon: %w", err)
	}
	weapon.Category = domain.WeaponCategory(strOr(category))
	weapon.Subtype = strOr(subtype)
	weapon.DamageDice = strOr(damageDice)
	weapon.DamageType = domain.DamageType(strOr(damageType))
	weapon.CostGP = costGP.Float64
	weapon.WeightKG = weightKG.Float64
	weapon.MasteryID = strOr(masteryID)
	weapon.Description = strOr(description)
	weapon.Data = rawOrNil(data)
	weapon.Origin = domain.Origin(origin)
	weapon.IsHomebrew = weapon.Origin == domain.OriginHomebrew
	return weapon, nil
}

func (s *Store) inflateWeapon(ctx context.Context, weapon *domain.Weapon) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT p.id, p.name, p.description, p.parameter_required, m.parameter
		 FROM weapon_property_mappings m
		 JOIN weapon_properties p ON p.id = m.property_id
		 WHERE m.weapon_id = ?
		 ORDER BY p.name`, weapon.ID)
	if err != nil {
		return fmt.Errorf("list weapon properties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ref         domain.WeaponPropertyRef
			description sql.NullString
			required    int
			parameter   sql.NullString
		)
		if err := rows.Scan(&ref.Property.ID, &ref.Property.Name, &description,
			&required, &parameter); err != nil {
			return fmt.Errorf("scan weapon property: %w", err)
		}
		ref.Property.Description = strOr(description)
		ref.Property.ParameterRequired = required != 0
		ref.Parameter = rawOrNil(parameter)
		weapon.Properties = append(weapon.Properties, ref)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate weapon properties: %w", err)
	}

	if weapon.MasteryID == "" {
		return nil
	}
	var mastery domain.WeaponMastery
	var description sql.NullString
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, description FROM weapon_masteries WHERE id = ?`,
		weapon.MasteryID,
	).Scan(&mastery.ID, &mastery.Name, &description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("get weapon mastery: %w", err)
	}
	mastery.Description = strOr(description)
	weapon.Mastery = &mastery
	return nil
}

// ListArmors returns merged armors with property mappings inflated.
func (s *Store) ListArmors(ctx context.Context) ([]domain.Armor, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, category, base_ac, strength_req, stealth_disadvantage,
		        cost_gp, weight_kg, description, data, origin, custom_id
		 FROM all_armors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list armors: %w", err)
	}
	defer rows.Close()

	var armors []domain.Armor
	for rows.Next() {
		var (
			armor       domain.Armor
			category    sql.NullString
			baseAC      sql.NullInt64
			strengthReq sql.NullInt64
			stealthy    sql.NullInt64
			costGP      sql.NullFloat64
			weightKG    sql.NullFloat64
			description sql.NullString
			data        sql.NullString
			origin      string
			customID    sql.NullString
		)
		if err := rows.Scan(&armor.ID, &armor.Name, &category, &baseAC,
			&strengthReq, &stealthy, &costGP, &weightKG, &description,
			&data, &origin, &customID); err != nil {
			return nil, fmt.Errorf("scan armor: %w", err)
		}
		armor.Category = domain.ArmorCategory(strOr(category))
		armor.BaseAC = int(baseAC.Int64)
		armor.StrengthReq = int(strengthReq.Int64)
		armor.Stealthy = stealthy.Int64 != 0
		armor.CostGP = costGP.Float64
		armor.WeightKG = weightKG.Float64
		armor.Description = strOr(description)
		armor.Data = rawOrNil(data)
		armor.Origin = domain.Origin(origin)
		armor.IsHomebrew = armor.Origin == domain.OriginHomebrew
		armors = append(armors, armor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate armors: %w", err)
	}

	for i := range armors {
		if err := s.inflateArmor(ctx, &armors[i]); err != nil {
			return nil, err
		}
	}
	return armors, nil
}

func (s *Store) inflateArmor(ctx context.Context, armor *domain.Armor) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT p.id, p.name, p.description, p.affects_field, m.parameter
		 FROM armor_property_mappings m
		 JOIN armor_properties p ON p.id = m.property_id
		 WHERE m.armor_id = ?
		 ORDER BY p.name`, armor.ID)
	if err != nil {
		return fmt.Errorf("list armor properties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ref         domain.ArmorPropertyRef
			description sql.NullString
			affects     sql.NullString
			parameter   sql.NullString
		)
		if err := rows.Scan(&ref.Property.ID, &ref.Property.Name, &description,
			&affects, &parameter); err != nil {
			return fmt.Errorf("scan armor property: %w", err)
		}
		ref.Property.Description = strOr(description)
		ref.Property.AffectsField = strOr(affects)
		ref.Parameter = rawOrNil(parameter)
		armor.Properties = append(armor.Properties, ref)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate armor properties: %w", err)
	}
	return nil
}

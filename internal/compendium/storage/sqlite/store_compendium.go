package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lorekeep/nexus/internal/compendium/domain"
)

// Readers return every row of the merged view for one entity class,
// ordered by name. Spells additionally order by level. The structured data
// column is passed through as raw JSON for the caller to inflate.

func scanEntry(rows *sql.Rows) (domain.Entry, error) {
	var (
		entry       domain.Entry
		description sql.NullString
		data        sql.NullString
		origin      string
		customID    sql.NullString
	)
	if err := rows.Scan(&entry.ID, &entry.Name, &description, &data, &origin, &customID); err != nil {
		return domain.Entry{}, err
	}
	entry.Description = strOr(description)
	entry.Data = rawOrNil(data)
	entry.Origin = domain.Origin(origin)
	entry.IsHomebrew = entry.Origin == domain.OriginHomebrew
	return entry, nil
}

func (s *Store) listEntries(ctx context.Context, view string) ([]domain.Entry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		`SELECT id, name, description, data, origin, custom_id FROM %s ORDER BY name`, view)
	rows, err := s.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", view, err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", view, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", view, err)
	}
	return entries, nil
}

// ListSpells returns the merged spell list ordered by level, then name.
func (s *Store) ListSpells(ctx context.Context) ([]domain.Spell, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, level, school, description, data, origin, custom_id
		 FROM all_spells ORDER BY level, name`)
	if err != nil {
		return nil, fmt.Errorf("list spells: %w", err)
	}
	defer rows.Close()

	var spells []domain.Spell
	for rows.Next() {
		var (
			spell       domain.Spell
			school      sql.NullString
			description sql.NullString
			data        sql.NullString
			origin      string
			customID    sql.NullString
		)
		if err := rows.Scan(&spell.ID, &spell.Name, &spell.Level, &school,
			&description, &data, &origin, &customID); err != nil {
			return nil, fmt.Errorf("scan spell: %w", err)
		}
		spell.School = strOr(school)
		spell.Description = strOr(description)
		spell.Data = rawOrNil(data)
		spell.Origin = domain.Origin(origin)
		spell.IsHomebrew = spell.Origin == domain.OriginHomebrew
		spells = append(spells, spell)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spells: %w", err)
	}
	return spells, nil
}

// ListSpecies returns the merged species list.
func (s *Store) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	entries, err := s.listEntries(ctx, "all_species")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Species, 0, len(entries))
	for _, entry := range entries {
		out = append(out, domain.Species{Entry: entry})
	}
	return out, nil
}

// ListClasses returns the merged class list.
func (s *Store) ListClasses(ctx context.Context) ([]domain.Class, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, hit_die, description, data, origin, custom_id
		 FROM all_classes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []domain.Class
	for rows.Next() {
		var (
			class       domain.Class
			hitDie      sql.NullInt64
			description sql.NullString
			data        sql.NullString
			origin      string
			customID    sql.NullString
		)
		if err := rows.Scan(&class.ID, &class.Name, &hitDie, &description,
			&data, &origin, &customID); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		class.HitDie = int(hitDie.Int64)
		class.Description = strOr(description)
		class.Data = rawOrNil(data)
		class.Origin = domain.Origin(origin)
		class.IsHomebrew = class.Origin == domain.OriginHomebrew
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classes: %w", err)
	}
	return classes, nil
}

// ListSubclasses returns merged subclasses, optionally filtered by class.
func (s *Store) ListSubclasses(ctx context.Context, classID string) ([]domain.Subclass, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := `SELECT id, class_id, name, description, data, origin, custom_id
	          FROM all_subclasses`
	args := []any{}
	if classID != "" {
		query += ` WHERE class_id = ?`
		args = append(args, classID)
	}
	query += ` ORDER BY name`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subclasses: %w", err)
	}
	defer rows.Close()

	var subclasses []domain.Subclass
	for rows.Next() {
		var (
			subclass    domain.Subclass
			subClassID  sql.NullString
			description sql.NullString
			data        sql.NullString
			origin      string
			customID    sql.NullString
		)
		if err := rows.Scan(&subclass.ID, &subClassID, &subclass.Name,
			&description, &data, &origin, &customID); err != nil {
			return nil, fmt.Errorf("scan subclass: %w", err)
		}
		subclass.ClassID = strOr(subClassID)
		subclass.Description = strOr(description)
		subclass.Data = rawOrNil(data)
		subclass.Origin = domain.Origin(origin)
		subclass.IsHomebrew = subclass.Origin == domain.OriginHomebrew
		subclasses = append(subclasses, subclass)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subclasses: %w", err)
	}
	return subclasses, nil
}

// ListBackgrounds returns the merged background list.
func (s *Store) ListBackgrounds(ctx context.Context) ([]domain.Background, error) {
	entries, err := s.listEntries(ctx, "all_backgrounds")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Background, 0, len(entries))
	for _, entry := range entries {
		out = append(out, domain.Background{Entry: entry})
	}
	return out, nil
}

// ListFeats returns the merged feat list.
func (s *Store) ListFeats(ctx context.Context) ([]domain.Feat, error) {
	entries, err := s.listEntries(ctx, "all_feats")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Feat, 0, len(entries))
	for _, entry := range entries {
		out = append(out, domain.Feat{Entry: entry})
	}
	return out, nil
}

// ListSkills returns the canonical skill list.
func (s *Store) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, ability FROM all_skills ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		var skill domain.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Ability); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}
	return skills, nil
}

func (s *Store) listGoods(ctx context.Context, view string) ([]domain.Item, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		`SELECT id, name, description, cost_gp, weight_kg, data, origin, custom_id
		 FROM %s ORDER BY name`, view)
	rows, err := s.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", view, err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var (
			item        domain.Item
			description sql.NullString
			costGP      sql.NullFloat64
			weightKG    sql.NullFloat64
			data        sql.NullString
			origin      string
			customID    sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &description, &costGP,
			&weightKG, &data, &origin, &customID); err != nil {
			return nil, fmt.Errorf("scan %s: %w", view, err)
		}
		item.Description = strOr(description)
		item.CostGP = costGP.Float64
		item.WeightKG = weightKG.Float64
		item.Data = rawOrNil(data)
		item.Origin = domain.Origin(origin)
		item.IsHomebrew = item.Origin == domain.OriginHomebrew
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", view, err)
	}
	return items, nil
}

// ListItems returns the merged item list.
func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.listGoods(ctx, "all_items")
}

// ListGear returns the merged gear list.
func (s *Store) ListGear(ctx context.Context) ([]domain.Gear, error) {
	items, err := s.listGoods(ctx, "all_gear")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Gear, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Gear{Entry: item.Entry, CostGP: item.CostGP, WeightKG: item.WeightKG})
	}
	return out, nil
}

// ListTools returns the merged tool list.
func (s *Store) ListTools(ctx context.Context) ([]domain.Tool, error) {
	items, err := s.listGoods(ctx, "all_tools")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Tool, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Tool{Entry: item.Entry, CostGP: item.CostGP, WeightKG: item.WeightKG})
	}
	return out, nil
}

// ListMagicItems returns the merged magical-item base list.
func (s *Store) ListMagicItems(ctx context.Context) ([]domain.MagicItem, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, category, rarity, requires_attunement, description,
		        facts_json, data, origin, custom_id
		 FROM all_mag_items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list magic items: %w", err)
	}
	defer rows.Close()

	var items []domain.MagicItem
	for rows.Next() {
		var (
			item        domain.MagicItem
			category    sql.NullString
			rarity      sql.NullString
			attuned     sql.NullInt64
			description sql.NullString
			facts       sql.NullString
			data        sql.NullString
			origin      string
			customID    sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &category, &rarity, &attuned,
			&description, &facts, &data, &origin, &customID); err != nil {
			return nil, fmt.Errorf("scan magic item: %w", err)
		}
		item.Category = domain.MagicItemCategory(strOr(category))
		item.Rarity = strOr(rarity)
		item.Attuned = attuned.Int64 != 0
		item.Description = strOr(description)
		item.FactsJSON = rawOrNil(facts)
		item.Data = rawOrNil(data)
		item.Origin = domain.Origin(origin)
		item.IsHomebrew = item.Origin == domain.OriginHomebrew
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate magic items: %w", err)
	}
	return items, nil
}

// ListEquipmentPackages returns merged equipment packages with their member
// mappings inflated.
func (s *Store) ListEquipmentPackages(ctx context.Context) ([]domain.EquipmentPackage, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, description, total_cost_gp, total_weight_kg, data, origin, custom_id
		 FROM all_equipment ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list equipment packages: %w", err)
	}
	defer rows.Close()

	var packages []domain.EquipmentPackage
	for rows.Next() {
		var (
			pkg         domain.EquipmentPackage
			description sql.NullString
			data        sql.NullString
			origin      string
			customID    sql.NullString
		)
		if err := rows.Scan(&pkg.ID, &pkg.Name, &description, &pkg.TotalCostGP,
			&pkg.TotalWeightKG, &data, &origin, &customID); err != nil {
			return nil, fmt.Errorf("scan equipment package: %w", err)
		}
		pkg.Description = strOr(description)
		pkg.Data = rawOrNil(data)
		pkg.Origin = domain.Origin(origin)
		pkg.IsHomebrew = pkg.Origin == domain.OriginHomebrew
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equipment packages: %w", err)
	}

	for i := range packages {
		contents, err := s.packageContents(ctx, packages[i].ID)
		if err != nil {
			return nil, err
		}
		packages[i].Contents = contents
	}
	return packages, nil
}

func (s *Store) packageContents(ctx context.Context, packageID string) ([]domain.PackageContent, error) {
	var contents []domain.PackageContent

	itemRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT item_id, quantity FROM core_equipment_items WHERE equipment_id = ?
		 UNION ALL
		 SELECT item_id, quantity FROM custom_equipment_items WHERE equipment_id = ?`,
		packageID, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var content domain.PackageContent
		if err := itemRows.Scan(&content.ItemID, &content.Quantity); err != nil {
			return nil, fmt.Errorf("scan package item: %w", err)
		}
		contents = append(contents, content)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate package items: %w", err)
	}

	toolRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT tool_id, quantity FROM core_equipment_tools WHERE equipment_id = ?
		 UNION ALL
		 SELECT tool_id, quantity FROM custom_equipment_tools WHERE equipment_id = ?`,
		packageID, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package tools: %w", err)
	}
	defer toolRows.Close()
	for toolRows.Next() {
		var content domain.PackageContent
		if err := toolRows.Scan(&content.ToolID, &content.Quantity); err != nil {
			return nil, fmt.Errorf("scan package tool: %w", err)
		}
		contents = append(contents, content)
	}
	if err := toolRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate package tools: %w", err)
	}
	return contents, nil
}

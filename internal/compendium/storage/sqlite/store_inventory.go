package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/lorekeep/nexus/internal/compendium/domain"
	apperrors "github.com/lorekeep/nexus/internal/errors"
)

// addGold credits a gold amount to the character's purse. Fractions land in
// silver and copper; electrum and platinum are never touched.
func addGold(currency *domain.Currency, gold float64) {
	copper := int(math.Round(gold * 100))
	currency.GP += copper / 100
	copper %= 100
	currency.SP += copper / 10
	currency.CP += copper % 10
}

// subGold debits a gold amount using copper arithmetic over the gold,
// silver, and copper columns. The purse never goes negative: if the debit
// exceeds what those three columns hold, they are zeroed instead.
func subGold(currency *domain.Currency, gold float64) {
	debit := int(math.Round(gold * 100))
	total := currency.GP*100 + currency.SP*10 + currency.CP
	total -= debit
	if total < 0 {
		total = 0
	}
	currency.GP = total / 100
	total %= 100
	currency.SP = total / 10
	currency.CP = total % 10
}

// loadCharacterTx reads the full character inside the caller's transaction,
// with the inventory taken from the normalized table.
func (s *Store) loadCharacterTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Character, error) {
	doc, err := s.loadDocument(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	character, err := domain.DecodeDocument(doc)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSerialization, "decode character document")
	}
	character.ID = id
	inventory, err := s.readInventory(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	character.Inventory = inventory
	return character, nil
}

// classEquipmentRows returns the starting-equipment rows for a class that
// belong to the given option label. Rows without a label apply to every
// option.
func (s *Store) classEquipmentRows(ctx context.Context, q dbtx, classID, optionLabel string) ([]domain.StartingEquipmentRow, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, class_id, option_label, item_id, tool_id, weapon_id, armor_id,
		        quantity, gold, is_currency
		 FROM class_starting_equipment
		 WHERE class_id = ? AND (option_label = ? OR option_label IS NULL OR option_label = '')
		 ORDER BY id`,
		classID, optionLabel)
	if err != nil {
		return nil, fmt.Errorf("read starting equipment: %w", err)
	}
	defer rows.Close()

	var result []domain.StartingEquipmentRow
	for rows.Next() {
		var (
			row                              domain.StartingEquipmentRow
			label, item, tool, weapon, armor sql.NullString
			currency                         int
		)
		if err := rows.Scan(&row.ID, &row.ClassID, &label, &item, &tool,
			&weapon, &armor, &row.Quantity, &row.Gold, &currency); err != nil {
			return nil, fmt.Errorf("scan starting equipment row: %w", err)
		}
		row.OptionLabel = strOr(label)
		row.ItemID = strOr(item)
		row.ToolID = strOr(tool)
		row.WeaponID = strOr(weapon)
		row.ArmorID = strOr(armor)
		row.IsCurrency = currency != 0
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate starting equipment: %w", err)
	}
	return result, nil
}

// grantRow turns one starting-equipment row into inventory entries, expanding
// equipment packages recursively. Resolution prefers the item column, then
// tool, then weapon, then armor.
func (s *Store) grantRow(ctx context.Context, tx *sql.Tx, character *domain.Character, row domain.StartingEquipmentRow, source string) error {
	quantity := row.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	switch {
	case row.ItemID != "":
		isPackage, err := s.isEquipmentPackage(ctx, tx, row.ItemID)
		if err != nil {
			return err
		}
		if isPackage {
			return s.expandPackage(ctx, tx, character, row.ItemID, quantity, source, 0)
		}
		appendGrant(character, row.ItemID, quantity, source, domain.LocationBody)
	case row.ToolID != "":
		appendGrant(character, row.ToolID, quantity, source, domain.LocationBody)
	case row.WeaponID != "":
		appendGrant(character, row.WeaponID, quantity, source, domain.LocationBody)
	case row.ArmorID != "":
		appendGrant(character, row.ArmorID, quantity, source, domain.LocationBody)
	}
	return nil
}

func appendGrant(character *domain.Character, itemID string, quantity int, source, location string) {
	character.Inventory = append(character.Inventory, domain.InventoryEntry{
		ItemID:              itemID,
		Quantity:            quantity,
		Location:            location,
		Source:              source,
		IsStartingEquipment: true,
	})
}

func (s *Store) isEquipmentPackage(ctx context.Context, q dbtx, id string) (bool, error) {
	for _, table := range []string{"core_equipment", "custom_equipment"} {
		exists, err := s.rowExists(ctx, q, table, id)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

const maxPackageDepth = 8

// expandPackage flattens a package's members into the inventory. Nested
// packages expand recursively up to a fixed depth; beyond that the member
// is granted as a plain item so import data with a reference cycle cannot
// hang the engine.
func (s *Store) expandPackage(ctx context.Context, tx *sql.Tx, character *domain.Character, packageID string, multiplier int, source string, depth int) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT item_id, '' AS tool_id, quantity FROM core_equipment_items WHERE equipment_id = ?
		 UNION ALL
		 SELECT item_id, '', quantity FROM custom_equipment_items WHERE equipment_id = ?
		 UNION ALL
		 SELECT '', tool_id, quantity FROM core_equipment_tools WHERE equipment_id = ?
		 UNION ALL
		 SELECT '', tool_id, quantity FROM custom_equipment_tools WHERE equipment_id = ?`,
		packageID, packageID, packageID, packageID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "read package contents")
	}
	defer rows.Close()

	type member struct {
		itemID   string
		toolID   string
		quantity int
	}
	var members []member
	for rows.Next() {
		var m member
		if err := rows.Scan(&m.itemID, &m.toolID, &m.quantity); err != nil {
			return fmt.Errorf("scan package member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate package members: %w", err)
	}
	if len(members) == 0 {
		return apperrors.Newf(apperrors.CodeEquipmentInvalidContents,
			"equipment package %s has no contents", packageID)
	}

	for _, m := range members {
		quantity := m.quantity
		if quantity <= 0 {
			quantity = 1
		}
		quantity *= multiplier
		switch {
		case m.toolID != "":
			appendGrant(character, m.toolID, quantity, source, domain.LocationBackpack)
		case m.itemID != "":
			nested, err := s.isEquipmentPackage(ctx, tx, m.itemID)
			if err != nil {
				return err
			}
			if nested && depth < maxPackageDepth {
				if err := s.expandPackage(ctx, tx, character, m.itemID, quantity, source, depth+1); err != nil {
					return err
				}
				continue
			}
			appendGrant(character, m.itemID, quantity, source, domain.LocationBackpack)
		}
	}
	return nil
}

// ApplyClassStartingEquipment grants one class starting-equipment option to
// the character: inventory entries for the gear rows, gold for the currency
// rows. Applying twice without clearing first is rejected.
func (s *Store) ApplyClassStartingEquipment(ctx context.Context, characterID, optionLabel string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	character, err := s.loadCharacterTx(ctx, tx, characterID)
	if err != nil {
		return err
	}
	if character.Meta.ClassID == "" {
		return apperrors.New(apperrors.CodeEquipmentNoClass, "character has no class")
	}
	if character.Meta.ClassEquipmentApplied {
		return apperrors.New(apperrors.CodeEquipmentAlreadyApplied,
			"class starting equipment already applied")
	}

	rows, err := s.classEquipmentRows(ctx, tx, character.Meta.ClassID, optionLabel)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return apperrors.Newf(apperrors.CodeEquipmentUnknownOption,
			"class %s has no starting-equipment option %q", character.Meta.ClassID, optionLabel)
	}

	var goldGranted float64
	for _, row := range rows {
		if row.IsCurrency {
			goldGranted += row.Gold
			continue
		}
		if err := s.grantRow(ctx, tx, character, row, domain.SourceClass); err != nil {
			return err
		}
	}
	if goldGranted > 0 {
		addGold(&character.Currency, goldGranted)
	}
	character.Meta.ClassGoldGranted = goldGranted
	character.Meta.ClassEquipmentApplied = true

	if err := s.syncCharacter(ctx, tx, character, nowMillis()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit class equipment: %w", err)
	}
	return nil
}

// backgroundNameTables is the lookup order for background grants named by
// display name rather than identifier.
var backgroundNameTables = []string{
	"core_items", "core_gear", "core_equipment", "core_tools",
	"core_weapons", "core_armors",
}

// resolveBackgroundName maps a display name to a compendium identifier:
// first by name, case-insensitively, then by the name's slug form as an
// identifier. Unresolved names come back unchanged so the grant still lands
// in the inventory as an opaque label.
func (s *Store) resolveBackgroundName(ctx context.Context, q dbtx, name string) (string, error) {
	for _, table := range backgroundNameTables {
		var id string
		err := q.QueryRowContext(ctx,
			fmt.Sprintf("SELECT id FROM %s WHERE name = ? COLLATE NOCASE", table),
			name,
		).Scan(&id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.CodeDatabase, "resolve background grant")
		}
		return id, nil
	}
	slug := domain.Slugify(name)
	for _, table := range backgroundNameTables {
		exists, err := s.rowExists(ctx, q, table, slug)
		if err != nil {
			return "", err
		}
		if exists {
			return slug, nil
		}
	}
	return name, nil
}

// ApplyBackgroundEquipment grants a background's equipment names and gold.
// A prior background grant is cleared first, so switching backgrounds never
// stacks. Names that match a compendium entry resolve to its identifier;
// package names expand; unknown names are kept verbatim.
func (s *Store) ApplyBackgroundEquipment(ctx context.Context, characterID string, names []string, gold float64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	character, err := s.loadCharacterTx(ctx, tx, characterID)
	if err != nil {
		return err
	}

	if character.Meta.BackgroundEquipmentApplied {
		removeBySource(character, domain.SourceBackground)
		subGold(&character.Currency, character.Meta.BackgroundGoldGranted)
	}

	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		id, err := s.resolveBackgroundName(ctx, tx, trimmed)
		if err != nil {
			return err
		}
		isPackage, err := s.isEquipmentPackage(ctx, tx, id)
		if err != nil {
			return err
		}
		if isPackage {
			if err := s.expandPackage(ctx, tx, character, id, 1, domain.SourceBackground, 0); err != nil {
				return err
			}
			continue
		}
		appendGrant(character, id, 1, domain.SourceBackground, domain.LocationBody)
	}
	if gold > 0 {
		addGold(&character.Currency, gold)
	}
	character.Meta.BackgroundGoldGranted = gold
	character.Meta.BackgroundEquipmentApplied = true

	if err := s.syncCharacter(ctx, tx, character, nowMillis()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit background equipment: %w", err)
	}
	return nil
}

func removeBySource(character *domain.Character, source string) {
	kept := character.Inventory[:0]
	for _, entry := range character.Inventory {
		if entry.Source == source && entry.IsStartingEquipment {
			continue
		}
		kept = append(kept, entry)
	}
	character.Inventory = kept
}

// ClearStartingEquipment removes every inventory entry a source granted and
// claws back the gold that came with it. Valid sources are "class" and
// "background".
func (s *Store) ClearStartingEquipment(ctx context.Context, characterID, source string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if source != domain.SourceClass && source != domain.SourceBackground {
		return fmt.Errorf("unknown equipment source %q", source)
	}
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	character, err := s.loadCharacterTx(ctx, tx, characterID)
	if err != nil {
		return err
	}

	removeBySource(character, source)
	if source == domain.SourceClass {
		subGold(&character.Currency, character.Meta.ClassGoldGranted)
		character.Meta.ClassGoldGranted = 0
		character.Meta.ClassEquipmentApplied = false
	} else {
		subGold(&character.Currency, character.Meta.BackgroundGoldGranted)
		character.Meta.BackgroundGoldGranted = 0
		character.Meta.BackgroundEquipmentApplied = false
	}

	if err := s.syncCharacter(ctx, tx, character, nowMillis()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear equipment: %w", err)
	}
	return nil
}

// GetClassStartingEquipmentOptions groups a class's starting-equipment rows
// by option label and renders display strings like "2x Dolch".
func (s *Store) GetClassStartingEquipmentOptions(ctx context.Context, classID string) ([]domain.StartingEquipmentOption, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT option_label, item_id, tool_id, weapon_id, armor_id, quantity, gold, is_currency
		 FROM class_starting_equipment
		 WHERE class_id = ?
		 ORDER BY option_label, id`,
		classID)
	if err != nil {
		return nil, fmt.Errorf("read starting equipment options: %w", err)
	}
	defer rows.Close()

	// Drain the rows before resolving display names: the pool holds a
	// single connection, so no query may run while rows is open.
	type optionRow struct {
		label    string
		target   string
		quantity int
		gold     float64
		currency bool
	}
	var collected []optionRow
	for rows.Next() {
		var (
			label, item, tool, weapon, armor sql.NullString
			quantity                         int
			gold                             float64
			currency                         int
		)
		if err := rows.Scan(&label, &item, &tool, &weapon, &armor,
			&quantity, &gold, &currency); err != nil {
			return nil, fmt.Errorf("scan starting equipment option: %w", err)
		}
		collected = append(collected, optionRow{
			label:    strOr(label),
			target:   firstNonEmpty(strOr(item), strOr(tool), strOr(weapon), strOr(armor)),
			quantity: quantity,
			gold:     gold,
			currency: currency != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate starting equipment options: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("read starting equipment options: %w", err)
	}

	var (
		options []domain.StartingEquipmentOption
		byLabel = map[string]int{}
	)
	for _, row := range collected {
		index, ok := byLabel[row.label]
		if !ok {
			index = len(options)
			byLabel[row.label] = index
			options = append(options, domain.StartingEquipmentOption{Label: row.label})
		}
		if row.currency {
			options[index].Gold += row.gold
			continue
		}
		if row.target == "" {
			continue
		}
		name, err := s.displayName(ctx, row.target)
		if err != nil {
			return nil, err
		}
		quantity := row.quantity
		if quantity <= 0 {
			quantity = 1
		}
		entry := name
		if quantity > 1 {
			entry = fmt.Sprintf("%dx %s", quantity, name)
		}
		options[index].Entries = append(options[index].Entries, entry)
	}
	return options, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// displayName resolves an identifier to its compendium name for display,
// falling back to the identifier itself.
func (s *Store) displayName(ctx context.Context, id string) (string, error) {
	views := []string{
		"all_items", "all_gear", "all_tools", "all_weapons_unified",
		"all_armors", "all_equipment", "all_mag_items",
	}
	for _, view := range views {
		var name string
		err := s.sqlDB.QueryRowContext(ctx,
			fmt.Sprintf("SELECT name FROM %s WHERE id = ?", view), id,
		).Scan(&name)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.CodeDatabase, "resolve display name")
		}
		return name, nil
	}
	return id, nil
}

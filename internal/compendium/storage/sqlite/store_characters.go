package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/lorekeep/nexus/internal/compendium/domain"
	apperrors "github.com/lorekeep/nexus/internal/errors"
)

// CreateCharacter persists a new character in both representations.
// An empty identifier is filled in.
func (s *Store) CreateCharacter(ctx context.Context, character *domain.Character) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if character == nil {
		return fmt.Errorf("character is required")
	}
	if strings.TrimSpace(character.ID) == "" {
		character.ID = uuid.NewString()
	}
	if strings.TrimSpace(character.Meta.Name) == "" {
		return apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := nowMillis()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO characters (id, name, data, created_at, updated_at)
		 VALUES (?, ?, '{}', ?, ?)`,
		character.ID, character.Meta.Name, now, now,
	); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "insert character")
	}
	if err := s.syncCharacter(ctx, tx, character, now); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create character: %w", err)
	}
	return nil
}

// UpdateCharacter overwrites an existing character in both representations.
func (s *Store) UpdateCharacter(ctx context.Context, character *domain.Character) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if character == nil || strings.TrimSpace(character.ID) == "" {
		return apperrors.New(apperrors.CodeCharacterEmptyID, "character id is required")
	}
	if strings.TrimSpace(character.Meta.Name) == "" {
		return apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	}

	exists, err := s.rowExists(ctx, s.sqlDB, "characters", character.ID)
	if err != nil {
		return err
	}
	if !exists {
		return notFound("character %s not found", character.ID)
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.syncCharacter(ctx, tx, character, nowMillis()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update character: %w", err)
	}
	return nil
}

// syncCharacter is the one write path for a character. It refreshes
// inventory row identifiers and type tags, writes the document column,
// replaces every normalized child row, and updates the promoted columns,
// all against the caller's transaction.
func (s *Store) syncCharacter(ctx context.Context, tx *sql.Tx, character *domain.Character, now int64) error {
	for i := range character.Inventory {
		entry := &character.Inventory[i]
		entry.ID = uuid.NewString()
		if entry.Quantity <= 0 {
			entry.Quantity = 1
		}
		if entry.Location == "" {
			entry.Location = domain.DefaultLocation
		}
		if entry.Source == "" {
			entry.Source = domain.SourceManual
		}
		itemType, err := s.detectItemType(ctx, tx, entry.ItemID)
		if err != nil {
			return err
		}
		entry.ItemType = itemType
	}

	doc, err := character.EncodeDocument()
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeSerialization, "serialize character")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE characters SET
		   name = ?, data = ?, updated_at = ?,
		   level = ?, class_id = ?, species_id = ?, background_id = ?,
		   attr_strength = ?, attr_dexterity = ?, attr_constitution = ?,
		   attr_intelligence = ?, attr_wisdom = ?, attr_charisma = ?,
		   hp_current = ?, hp_max = ?, hp_temp = ?,
		   hit_dice_total = ?, hit_dice_used = ?,
		   death_save_successes = ?, death_save_failures = ?,
		   spell_slots_1 = ?, spell_slots_2 = ?, spell_slots_3 = ?,
		   spell_slots_4 = ?, spell_slots_5 = ?, spell_slots_6 = ?,
		   spell_slots_7 = ?, spell_slots_8 = ?, spell_slots_9 = ?,
		   spell_slots_used_1 = ?, spell_slots_used_2 = ?, spell_slots_used_3 = ?,
		   spell_slots_used_4 = ?, spell_slots_used_5 = ?, spell_slots_used_6 = ?,
		   spell_slots_used_7 = ?, spell_slots_used_8 = ?, spell_slots_used_9 = ?,
		   currency_cp = ?, currency_sp = ?, currency_ep = ?, currency_gp = ?, currency_pp = ?
		 WHERE id = ?`,
		character.Meta.Name, string(doc), now,
		character.Meta.Level, nullStr(character.Meta.ClassID),
		nullStr(character.Meta.SpeciesID), nullStr(character.Meta.BackgroundID),
		character.Attributes.Strength, character.Attributes.Dexterity,
		character.Attributes.Constitution, character.Attributes.Intelligence,
		character.Attributes.Wisdom, character.Attributes.Charisma,
		character.Health.Current, character.Health.Max, character.Health.Temp,
		character.Health.HitDiceTotal, character.Health.HitDiceUsed,
		character.Health.DeathSaveSuccesses, character.Health.DeathSaveFailures,
		character.SpellSlots.Total[0], character.SpellSlots.Total[1], character.SpellSlots.Total[2],
		character.SpellSlots.Total[3], character.SpellSlots.Total[4], character.SpellSlots.Total[5],
		character.SpellSlots.Total[6], character.SpellSlots.Total[7], character.SpellSlots.Total[8],
		character.SpellSlots.Used[0], character.SpellSlots.Used[1], character.SpellSlots.Used[2],
		character.SpellSlots.Used[3], character.SpellSlots.Used[4], character.SpellSlots.Used[5],
		character.SpellSlots.Used[6], character.SpellSlots.Used[7], character.SpellSlots.Used[8],
		character.Currency.CP, character.Currency.SP, character.Currency.EP,
		character.Currency.GP, character.Currency.PP,
		character.ID,
	); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "update character row")
	}

	childTables := []string{
		"character_inventory", "character_spells", "character_proficiencies",
		"character_features", "character_modifiers",
	}
	for _, table := range childTables {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE character_id = ?", table),
			character.ID,
		); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, fmt.Sprintf("clear %s", table))
		}
	}

	for _, entry := range character.Inventory {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_inventory
			   (id, character_id, item_id, item_type, quantity, equipped,
			    attuned, location, source, is_starting_equipment)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, character.ID, entry.ItemID, entry.ItemType, entry.Quantity,
			boolToInt(entry.Equipped), boolToInt(entry.Attuned),
			entry.Location, entry.Source, boolToInt(entry.IsStartingEquipment),
		); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, "insert inventory row")
		}
	}
	for _, spell := range character.Spells {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_spells (id, character_id, spell_id, prepared)
			 VALUES (?, ?, ?, ?)`,
			uuid.NewString(), character.ID, spell.SpellID, boolToInt(spell.Prepared),
		); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, "insert spell row")
		}
	}
	for _, proficiency := range character.Proficiencies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_proficiencies (id, character_id, kind, value)
			 VALUES (?, ?, ?, ?)`,
			uuid.NewString(), character.ID, proficiency.Kind, proficiency.Value,
		); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, "insert proficiency row")
		}
	}
	for _, feature := range character.Features {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_features (id, character_id, feature_id, source)
			 VALUES (?, ?, ?, ?)`,
			uuid.NewString(), character.ID, feature.FeatureID, nullStr(feature.Source),
		); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, "insert feature row")
		}
	}
	for _, modifier := range character.Modifiers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_modifiers (id, character_id, modifier_type, target, value, source)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), character.ID, modifier.ModifierType, modifier.Target,
			modifier.Value, nullStr(modifier.Source),
		); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, "insert modifier row")
		}
	}

	return nil
}

// GetCharacter returns the character document with the inventory overwritten
// from the normalized table, which is authoritative for cross-referential
// queries. Type tags are refreshed by the probe on the way out.
func (s *Store) GetCharacter(ctx context.Context, id string) (*domain.Character, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.New(apperrors.CodeCharacterEmptyID, "character id is required")
	}
	var doc string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM characters WHERE id = ?`, id,
	).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("character %s not found", id)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "get character")
	}

	character, err := domain.DecodeDocument([]byte(doc))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSerialization, "decode character document")
	}
	character.ID = id

	inventory, err := s.readInventory(ctx, s.sqlDB, id)
	if err != nil {
		return nil, err
	}
	for i := range inventory {
		itemType, err := s.detectItemType(ctx, s.sqlDB, inventory[i].ItemID)
		if err != nil {
			return nil, err
		}
		inventory[i].ItemType = itemType
	}
	character.Inventory = inventory
	return character, nil
}

// ListCharacters returns summaries for every character, ordered by name.
func (s *Store) ListCharacters(ctx context.Context) ([]domain.CharacterSummary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, level, class_id, updated_at FROM characters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var summaries []domain.CharacterSummary
	for rows.Next() {
		var (
			summary domain.CharacterSummary
			classID sql.NullString
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Level,
			&classID, &summary.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan character summary: %w", err)
		}
		summary.ClassID = strOr(classID)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	return summaries, nil
}

// DeleteCharacter removes a character and its child rows.
func (s *Store) DeleteCharacter(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeCharacterEmptyID, "character id is required")
	}
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{
		"character_inventory", "character_spells", "character_proficiencies",
		"character_features", "character_modifiers",
	} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE character_id = ?", table), id,
		); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, fmt.Sprintf("clear %s", table))
		}
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "delete character")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound("character %s not found", id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete character: %w", err)
	}
	return nil
}

// ExportCharacter returns the raw document blob for a character.
func (s *Store) ExportCharacter(ctx context.Context, id string) ([]byte, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var doc string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM characters WHERE id = ?`, id,
	).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("character %s not found", id)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "export character")
	}
	return []byte(doc), nil
}

// ImportCharacter validates an opaque document and persists it, creating or
// replacing the character it names. Returns the character identifier.
func (s *Store) ImportCharacter(ctx context.Context, doc []byte) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	character, err := domain.DecodeDocument(doc)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeCharacterMalformedDoc, "import character")
	}
	if strings.TrimSpace(character.Meta.Name) == "" {
		return "", apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	}
	if strings.TrimSpace(character.ID) == "" {
		character.ID = uuid.NewString()
	}

	exists, err := s.rowExists(ctx, s.sqlDB, "characters", character.ID)
	if err != nil {
		return "", err
	}
	if exists {
		if err := s.UpdateCharacter(ctx, character); err != nil {
			return "", err
		}
		return character.ID, nil
	}
	if err := s.CreateCharacter(ctx, character); err != nil {
		return "", err
	}
	return character.ID, nil
}

// ListCharacterSpells returns the character's spells joined against the
// merged spell view. A spell whose compendium entry is gone keeps its
// identifier as the display name.
func (s *Store) ListCharacterSpells(ctx context.Context, characterID string) ([]domain.CharacterSpell, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT cs.spell_id, COALESCE(sp.name, cs.spell_id), COALESCE(sp.level, 0), cs.prepared
		 FROM character_spells cs
		 LEFT JOIN all_spells sp ON sp.id = cs.spell_id
		 WHERE cs.character_id = ?
		 ORDER BY COALESCE(sp.level, 0), COALESCE(sp.name, cs.spell_id)`,
		characterID)
	if err != nil {
		return nil, fmt.Errorf("list character spells: %w", err)
	}
	defer rows.Close()

	var spells []domain.CharacterSpell
	for rows.Next() {
		var (
			spell    domain.CharacterSpell
			prepared int
		)
		if err := rows.Scan(&spell.SpellID, &spell.Name, &spell.Level, &prepared); err != nil {
			return nil, fmt.Errorf("scan character spell: %w", err)
		}
		spell.Prepared = prepared != 0
		spells = append(spells, spell)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate character spells: %w", err)
	}
	return spells, nil
}

// SetSpellPrepared toggles a spell's preparation state in the normalized
// table and patches the matching document entry in place.
func (s *Store) SetSpellPrepared(ctx context.Context, characterID, spellID string, prepared bool) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE character_spells SET prepared = ? WHERE character_id = ? AND spell_id = ?`,
		boolToInt(prepared), characterID, spellID,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "update spell preparation")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	doc, err := s.loadDocument(ctx, tx, characterID)
	if err != nil {
		return err
	}

	if affected == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_spells (id, character_id, spell_id, prepared)
			 VALUES (?, ?, ?, ?)`,
			uuid.NewString(), characterID, spellID, boolToInt(prepared),
		); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, "insert spell row")
		}
		doc, err = sjson.SetBytes(doc, "spells.-1",
			domain.SpellRef{SpellID: spellID, Prepared: prepared})
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeSerialization, "append document spell")
		}
	} else {
		index := -1
		gjson.GetBytes(doc, "spells").ForEach(func(i, value gjson.Result) bool {
			if value.Get("spell_id").String() == spellID {
				index = int(i.Int())
				return false
			}
			return true
		})
		if index >= 0 {
			doc, err = sjson.SetBytes(doc, fmt.Sprintf("spells.%d.prepared", index), prepared)
			if err != nil {
				return apperrors.Wrap(err, apperrors.CodeSerialization, "patch document spell")
			}
		}
	}

	if err := s.writeDocument(ctx, tx, characterID, doc, nowMillis()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit spell preparation: %w", err)
	}
	return nil
}

// ListInventory returns the normalized inventory for a character.
func (s *Store) ListInventory(ctx context.Context, characterID string) ([]domain.InventoryEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.readInventory(ctx, s.sqlDB, characterID)
}

// UpdateInventoryItem mutates one inventory row and rewrites the document's
// inventory list from the normalized table.
func (s *Store) UpdateInventoryItem(ctx context.Context, characterID string, entry domain.InventoryEntry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(entry.ID) == "" {
		return fmt.Errorf("inventory row id is required")
	}
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	quantity := entry.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	location := entry.Location
	if location == "" {
		location = domain.DefaultLocation
	}
	result, err := tx.ExecContext(ctx,
		`UPDATE character_inventory
		 SET quantity = ?, equipped = ?, attuned = ?, location = ?
		 WHERE id = ? AND character_id = ?`,
		quantity, boolToInt(entry.Equipped), boolToInt(entry.Attuned),
		location, entry.ID, characterID,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "update inventory row")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound("inventory row %s not found", entry.ID)
	}

	if err := s.rewriteDocumentInventory(ctx, tx, characterID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inventory update: %w", err)
	}
	return nil
}

func (s *Store) readInventory(ctx context.Context, q dbtx, characterID string) ([]domain.InventoryEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, item_id, item_type, quantity, equipped, attuned,
		        location, source, is_starting_equipment
		 FROM character_inventory
		 WHERE character_id = ?
		 ORDER BY rowid`, characterID)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	defer rows.Close()

	entries := []domain.InventoryEntry{}
	for rows.Next() {
		var (
			entry    domain.InventoryEntry
			equipped int
			attuned  int
			starting int
		)
		if err := rows.Scan(&entry.ID, &entry.ItemID, &entry.ItemType,
			&entry.Quantity, &equipped, &attuned, &entry.Location,
			&entry.Source, &starting); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		entry.Equipped = equipped != 0
		entry.Attuned = attuned != 0
		entry.IsStartingEquipment = starting != 0
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return entries, nil
}

// rewriteDocumentInventory replaces the document's inventory list with the
// current normalized rows.
func (s *Store) rewriteDocumentInventory(ctx context.Context, tx *sql.Tx, characterID string) error {
	entries, err := s.readInventory(ctx, tx, characterID)
	if err != nil {
		return err
	}
	doc, err := s.loadDocument(ctx, tx, characterID)
	if err != nil {
		return err
	}
	doc, err = sjson.SetBytes(doc, "inventory", entries)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeSerialization, "patch document inventory")
	}
	return s.writeDocument(ctx, tx, characterID, doc, nowMillis())
}

func (s *Store) loadDocument(ctx context.Context, q dbtx, characterID string) ([]byte, error) {
	var doc string
	err := q.QueryRowContext(ctx,
		`SELECT data FROM characters WHERE id = ?`, characterID,
	).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("character %s not found", characterID)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "load character document")
	}
	return []byte(doc), nil
}

func (s *Store) writeDocument(ctx context.Context, q dbtx, characterID string, doc []byte, now int64) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE characters SET data = ?, updated_at = ? WHERE id = ?`,
		string(doc), now, characterID,
	); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "write character document")
	}
	return nil
}

// detectItemType probes the compendium tables in a fixed order and returns
// the type tag of the first match: magical-item base, weapon, armor, gear,
// item, tool, core before custom within each pair. Unknown identifiers
// default to the generic core item tag so unresolved references stay
// representable.
func (s *Store) detectItemType(ctx context.Context, q dbtx, itemID string) (string, error) {
	probes := []struct {
		table string
		tag   string
	}{
		{"core_mag_items_base", domain.TypeCoreMagicItem},
		{"custom_mag_items_base", domain.TypeCustomMagicItem},
		{"core_weapons", domain.TypeCoreWeapon},
		{"custom_weapons", domain.TypeCustomWeapon},
		{"core_armors", domain.TypeCoreArmor},
		{"custom_armors", domain.TypeCustomArmor},
		{"core_gear", domain.TypeCoreItem},
		{"custom_gear", domain.TypeCustomItem},
		{"core_items", domain.TypeCoreItem},
		{"custom_items", domain.TypeCustomItem},
		{"core_tools", domain.TypeCoreTool},
		{"custom_tools", domain.TypeCustomTool},
	}
	for _, probe := range probes {
		exists, err := s.rowExists(ctx, q, probe.table, itemID)
		if err != nil {
			return "", err
		}
		if exists {
			return probe.tag, nil
		}
	}
	return domain.TypeCoreItem, nil
}

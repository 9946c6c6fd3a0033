package sqlite

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	apperrors "github.com/lorekeep/nexus/internal/errors"
)

// IntegrityIssue is one finding of the consistency check.
type IntegrityIssue struct {
	Kind    string `json:"kind"`
	Table   string `json:"table"`
	RowID   string `json:"row_id"`
	Message string `json:"message"`
}

// IntegrityReport is the result of a full consistency sweep. An empty
// Issues slice means the database is clean.
type IntegrityReport struct {
	Checked int              `json:"checked"`
	Issues  []IntegrityIssue `json:"issues"`
}

// CheckIntegrity sweeps the database for inconsistencies the triggers cannot
// catch after the fact: orphaned property mappings, characters with invalid
// documents, magical items whose fact cache drifted from their data, and
// characters whose document inventory disagrees with the normalized rows.
// The report only describes; it never repairs.
func (s *Store) CheckIntegrity(ctx context.Context) (*IntegrityReport, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	report := &IntegrityReport{Issues: []IntegrityIssue{}}

	checks := []func(context.Context, *IntegrityReport) error{
		s.checkOrphanedWeaponMappings,
		s.checkOrphanedArmorMappings,
		s.checkMalformedCharacterDocs,
		s.checkMagicItemFactDrift,
		s.checkInventoryDivergence,
	}
	for _, check := range checks {
		if err := check(ctx, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (s *Store) checkOrphanedWeaponMappings(ctx context.Context, report *IntegrityReport) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT m.id, m.weapon_id FROM weapon_property_mappings m
		 WHERE NOT EXISTS (SELECT 1 FROM all_weapons_unified w WHERE w.id = m.weapon_id)`)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeIntegrityCheck, "scan weapon mappings")
	}
	defer rows.Close()
	for rows.Next() {
		var id, weaponID string
		if err := rows.Scan(&id, &weaponID); err != nil {
			return fmt.Errorf("scan orphaned weapon mapping: %w", err)
		}
		report.Issues = append(report.Issues, IntegrityIssue{
			Kind:    "orphaned_mapping",
			Table:   "weapon_property_mappings",
			RowID:   id,
			Message: fmt.Sprintf("weapon %s no longer exists", weaponID),
		})
	}
	report.Checked++
	return rows.Err()
}

func (s *Store) checkOrphanedArmorMappings(ctx context.Context, report *IntegrityReport) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT m.id, m.armor_id FROM armor_property_mappings m
		 WHERE NOT EXISTS (SELECT 1 FROM all_armors a WHERE a.id = m.armor_id)`)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeIntegrityCheck, "scan armor mappings")
	}
	defer rows.Close()
	for rows.Next() {
		var id, armorID string
		if err := rows.Scan(&id, &armorID); err != nil {
			return fmt.Errorf("scan orphaned armor mapping: %w", err)
		}
		report.Issues = append(report.Issues, IntegrityIssue{
			Kind:    "orphaned_mapping",
			Table:   "armor_property_mappings",
			RowID:   id,
			Message: fmt.Sprintf("armor %s no longer exists", armorID),
		})
	}
	report.Checked++
	return rows.Err()
}

func (s *Store) checkMalformedCharacterDocs(ctx context.Context, report *IntegrityReport) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id FROM characters WHERE json_valid(data) = 0`)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeIntegrityCheck, "scan character documents")
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan malformed character: %w", err)
		}
		report.Issues = append(report.Issues, IntegrityIssue{
			Kind:    "malformed_document",
			Table:   "characters",
			RowID:   id,
			Message: "character document is not valid JSON",
		})
	}
	report.Checked++
	return rows.Err()
}

func (s *Store) checkMagicItemFactDrift(ctx context.Context, report *IntegrityReport) error {
	for _, table := range []string{"core_mag_items_base", "custom_mag_items_base"} {
		rows, err := s.sqlDB.QueryContext(ctx, fmt.Sprintf(
			`SELECT id FROM %s
			 WHERE facts_json IS NOT NULL AND data IS NOT NULL
			   AND json(facts_json) != json(data)`, table))
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeIntegrityCheck, "scan magic item facts")
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("scan fact drift: %w", err)
			}
			report.Issues = append(report.Issues, IntegrityIssue{
				Kind:    "fact_drift",
				Table:   table,
				RowID:   id,
				Message: "facts_json no longer matches data",
			})
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
		report.Checked++
	}
	return nil
}

// checkInventoryDivergence compares each document's inventory list with the
// normalized rows. Item identifier and quantity are the authoritative pair;
// row identifiers are regenerated on every sync and not compared.
func (s *Store) checkInventoryDivergence(ctx context.Context, report *IntegrityReport) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, data FROM characters WHERE json_valid(data) = 1`)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeIntegrityCheck, "scan characters")
	}
	defer rows.Close()

	type characterDoc struct {
		id  string
		doc string
	}
	var docs []characterDoc
	for rows.Next() {
		var c characterDoc
		if err := rows.Scan(&c.id, &c.doc); err != nil {
			return fmt.Errorf("scan character: %w", err)
		}
		docs = append(docs, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range docs {
		docCounts := map[string]int{}
		gjson.Get(c.doc, "inventory").ForEach(func(_, value gjson.Result) bool {
			quantity := int(value.Get("quantity").Int())
			if quantity <= 0 {
				quantity = 1
			}
			docCounts[value.Get("item_id").String()] += quantity
			return true
		})

		tableCounts := map[string]int{}
		invRows, err := s.sqlDB.QueryContext(ctx,
			`SELECT item_id, quantity FROM character_inventory WHERE character_id = ?`, c.id)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeIntegrityCheck, "scan inventory")
		}
		for invRows.Next() {
			var (
				itemID   string
				quantity int
			)
			if err := invRows.Scan(&itemID, &quantity); err != nil {
				invRows.Close()
				return fmt.Errorf("scan inventory count: %w", err)
			}
			tableCounts[itemID] += quantity
		}
		err = invRows.Err()
		invRows.Close()
		if err != nil {
			return err
		}

		for itemID, count := range docCounts {
			if tableCounts[itemID] != count {
				report.Issues = append(report.Issues, IntegrityIssue{
					Kind:    "inventory_divergence",
					Table:   "character_inventory",
					RowID:   c.id,
					Message: fmt.Sprintf("item %s: document has %d, table has %d", itemID, count, tableCounts[itemID]),
				})
			}
		}
		for itemID, count := range tableCounts {
			if _, ok := docCounts[itemID]; !ok {
				report.Issues = append(report.Issues, IntegrityIssue{
					Kind:    "inventory_divergence",
					Table:   "character_inventory",
					RowID:   c.id,
					Message: fmt.Sprintf("item %s: document has 0, table has %d", itemID, count),
				})
			}
		}
	}
	report.Checked++
	return nil
}

// Package service exposes the compendium store to a host shell behind a
// single-writer guard. SQLite serializes writers at the database level, but
// the engine's read-mutate-sync sequences span several statements; the
// mutex keeps them atomic with respect to each other.
package service

import (
	"context"
	"sync"

	"github.com/lorekeep/nexus/internal/compendium/domain"
	"github.com/lorekeep/nexus/internal/compendium/storage/sqlite"
)

// Service wraps a Store with the process-wide access guard.
type Service struct {
	mu    sync.Mutex
	store *sqlite.Store
}

// New opens the store at path and returns the guarded service.
func New(path string) (*Service, error) {
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	return &Service{store: store}, nil
}

// Wrap guards an already-open store.
func Wrap(store *sqlite.Store) *Service {
	return &Service{store: store}
}

// Close releases the underlying store.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

// Compendium reads.

func (s *Service) ListSpells(ctx context.Context) ([]domain.Spell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListSpells(ctx)
}

func (s *Service) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListSpecies(ctx)
}

func (s *Service) ListClasses(ctx context.Context) ([]domain.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListClasses(ctx)
}

func (s *Service) ListSubclasses(ctx context.Context, classID string) ([]domain.Subclass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListSubclasses(ctx, classID)
}

func (s *Service) ListBackgrounds(ctx context.Context) ([]domain.Background, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListBackgrounds(ctx)
}

func (s *Service) ListFeats(ctx context.Context) ([]domain.Feat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListFeats(ctx)
}

func (s *Service) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListSkills(ctx)
}

func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListItems(ctx)
}

func (s *Service) ListGear(ctx context.Context) ([]domain.Gear, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListGear(ctx)
}

func (s *Service) ListTools(ctx context.Context) ([]domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListTools(ctx)
}

func (s *Service) ListMagicItems(ctx context.Context) ([]domain.MagicItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListMagicItems(ctx)
}

func (s *Service) ListEquipmentPackages(ctx context.Context) ([]domain.EquipmentPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListEquipmentPackages(ctx)
}

func (s *Service) ListWeapons(ctx context.Context) ([]domain.Weapon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListWeapons(ctx)
}

func (s *Service) GetWeapon(ctx context.Context, id string) (domain.Weapon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetWeapon(ctx, id)
}

func (s *Service) ListArmors(ctx context.Context) ([]domain.Armor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListArmors(ctx)
}

func (s *Service) ListClassFeatures(ctx context.Context, classID string, maxLevel int, subclass string) ([]domain.ClassFeature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListClassFeatures(ctx, classID, maxLevel, subclass)
}

func (s *Service) ListFeatureOptions(ctx context.Context, featureID string) ([]domain.FeatureOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListFeatureOptions(ctx, featureID)
}

// Homebrew.

func (s *Service) UpsertCustomSpell(ctx context.Context, spell domain.Spell) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomSpell(ctx, spell)
}

func (s *Service) UpsertCustomSpecies(ctx context.Context, species domain.Species) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomSpecies(ctx, species)
}

func (s *Service) UpsertCustomClass(ctx context.Context, class domain.Class) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomClass(ctx, class)
}

func (s *Service) UpsertCustomSubclass(ctx context.Context, subclass domain.Subclass) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomSubclass(ctx, subclass)
}

func (s *Service) UpsertCustomBackground(ctx context.Context, background domain.Background) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomBackground(ctx, background)
}

func (s *Service) UpsertCustomFeat(ctx context.Context, feat domain.Feat) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomFeat(ctx, feat)
}

func (s *Service) UpsertCustomItem(ctx context.Context, item domain.Item) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomItem(ctx, item)
}

func (s *Service) UpsertCustomGear(ctx context.Context, gear domain.Gear) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomGear(ctx, gear)
}

func (s *Service) UpsertCustomTool(ctx context.Context, tool domain.Tool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomTool(ctx, tool)
}

func (s *Service) UpsertCustomWeapon(ctx context.Context, weapon domain.Weapon) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomWeapon(ctx, weapon)
}

func (s *Service) UpsertCustomArmor(ctx context.Context, armor domain.Armor) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomArmor(ctx, armor)
}

func (s *Service) UpsertCustomMagicItem(ctx context.Context, item domain.MagicItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpsertCustomMagicItem(ctx, item)
}

func (s *Service) CreateCustomClassFeature(ctx context.Context, feature domain.ClassFeature) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CreateCustomClassFeature(ctx, feature)
}

func (s *Service) DeleteCustomEntry(ctx context.Context, entityClass, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteCustomEntry(ctx, entityClass, id)
}

func (s *Service) RestoreCoreEntry(ctx context.Context, entityClass, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RestoreCoreEntry(ctx, entityClass, parentID)
}

// Characters.

func (s *Service) CreateCharacter(ctx context.Context, character *domain.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CreateCharacter(ctx, character)
}

func (s *Service) UpdateCharacter(ctx context.Context, character *domain.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpdateCharacter(ctx, character)
}

func (s *Service) GetCharacter(ctx context.Context, id string) (*domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetCharacter(ctx, id)
}

func (s *Service) ListCharacters(ctx context.Context) ([]domain.CharacterSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListCharacters(ctx)
}

func (s *Service) DeleteCharacter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteCharacter(ctx, id)
}

func (s *Service) ExportCharacter(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ExportCharacter(ctx, id)
}

func (s *Service) ImportCharacter(ctx context.Context, doc []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ImportCharacter(ctx, doc)
}

func (s *Service) ListCharacterSpells(ctx context.Context, characterID string) ([]domain.CharacterSpell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListCharacterSpells(ctx, characterID)
}

func (s *Service) SetSpellPrepared(ctx context.Context, characterID, spellID string, prepared bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetSpellPrepared(ctx, characterID, spellID, prepared)
}

func (s *Service) ListInventory(ctx context.Context, characterID string) ([]domain.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListInventory(ctx, characterID)
}

func (s *Service) UpdateInventoryItem(ctx context.Context, characterID string, entry domain.InventoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpdateInventoryItem(ctx, characterID, entry)
}

// Starting equipment.

func (s *Service) ApplyClassStartingEquipment(ctx context.Context, characterID, optionLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ApplyClassStartingEquipment(ctx, characterID, optionLabel)
}

func (s *Service) ApplyBackgroundEquipment(ctx context.Context, characterID string, names []string, gold float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ApplyBackgroundEquipment(ctx, characterID, names, gold)
}

func (s *Service) ClearStartingEquipment(ctx context.Context, characterID, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ClearStartingEquipment(ctx, characterID, source)
}

func (s *Service) GetClassStartingEquipmentOptions(ctx context.Context, classID string) ([]domain.StartingEquipmentOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetClassStartingEquipmentOptions(ctx, classID)
}

// Settings and maintenance.

func (s *Service) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetSetting(ctx, key)
}

func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetSetting(ctx, key, value)
}

func (s *Service) CheckIntegrity(ctx context.Context) (*sqlite.IntegrityReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CheckIntegrity(ctx)
}

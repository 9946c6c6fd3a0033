// Package errors provides structured error handling for the compendium store.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storage errors
	CodeNotFound       Code = "NOT_FOUND"
	CodeDatabase       Code = "DATABASE"
	CodeMigration      Code = "MIGRATION"
	CodeSerialization  Code = "SERIALIZATION"
	CodeIntegrityCheck Code = "INTEGRITY_CHECK"

	// Character errors
	CodeCharacterEmptyID      Code = "CHARACTER_EMPTY_ID"
	CodeCharacterEmptyName    Code = "CHARACTER_EMPTY_NAME"
	CodeCharacterMalformedDoc Code = "CHARACTER_MALFORMED_DOCUMENT"

	// Compendium errors
	CodeEntryEmptyID        Code = "ENTRY_EMPTY_ID"
	CodeEntryEmptyName      Code = "ENTRY_EMPTY_NAME"
	CodeEntryInvalidClass   Code = "ENTRY_INVALID_CLASS"
	CodeEntryNotCustom      Code = "ENTRY_NOT_CUSTOM"
	CodeEntryParentMismatch Code = "ENTRY_PARENT_MISMATCH"

	// Starting-equipment errors
	CodeEquipmentNoClass         Code = "EQUIPMENT_NO_CLASS"
	CodeEquipmentAlreadyApplied  Code = "EQUIPMENT_ALREADY_APPLIED"
	CodeEquipmentUnknownOption   Code = "EQUIPMENT_UNKNOWN_OPTION"
	CodeEquipmentUnknownItem     Code = "EQUIPMENT_UNKNOWN_ITEM"
	CodeEquipmentInvalidContents Code = "EQUIPMENT_INVALID_CONTENTS"

	// Settings errors
	CodeSettingEmptyKey Code = "SETTING_EMPTY_KEY"
)

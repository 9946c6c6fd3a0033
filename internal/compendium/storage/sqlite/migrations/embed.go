package migrations

import "embed"

// FS contains the embedded compendium schema. Files under schema/ run once
// and create tables; files under repeatable/ run on every open and rebuild
// views, triggers and indices.
//
//go:embed schema/*.sql repeatable/*.sql
var FS embed.FS

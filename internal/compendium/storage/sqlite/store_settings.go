package sqlite

import (
	"context"
	"database/sql"
	"strings"

	apperrors "github.com/lorekeep/nexus/internal/errors"
)

// GetSetting returns the stored value for a key, or the empty string when
// the key has never been written.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	var value string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeDatabase, "get setting")
	}
	return value, nil
}

// SetSetting stores a key/value pair, replacing any prior value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return apperrors.New(apperrors.CodeSettingEmptyKey, "setting key is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "set setting")
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lorekeep/nexus/internal/compendium/domain"
	apperrors "github.com/lorekeep/nexus/internal/errors"
)

// ListClassFeatures returns the merged features for a class up to the given
// level. Subclass-scoped features are included only when the subclass filter
// matches by identifier or name; an empty filter keeps class-wide features
// only. Overridden entries sort before homebrew, homebrew before core, so a
// caller that deduplicates by name keeps the most specific version.
func (s *Store) ListClassFeatures(ctx context.Context, classID string, maxLevel int, subclass string) ([]domain.ClassFeature, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if maxLevel <= 0 {
		maxLevel = 20
	}

	subclassID := subclass
	if subclass != "" {
		var resolved string
		err := s.sqlDB.QueryRowContext(ctx,
			`SELECT id FROM all_subclasses WHERE id = ? OR name = ? COLLATE NOCASE`,
			subclass, subclass,
		).Scan(&resolved)
		if err != nil && err != sql.ErrNoRows {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "resolve subclass")
		}
		if err == nil {
			subclassID = resolved
		}
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, class_id, subclass_id, level, name, description, effects, data, origin, custom_id
		 FROM all_class_features
		 WHERE class_id = ? AND level <= ?
		   AND (subclass_id IS NULL OR subclass_id = '' OR subclass_id = ?)
		 ORDER BY level,
		          CASE origin WHEN 'override' THEN 0 WHEN 'homebrew' THEN 1 ELSE 2 END,
		          name`,
		classID, maxLevel, subclassID)
	if err != nil {
		return nil, fmt.Errorf("list class features: %w", err)
	}
	defer rows.Close()

	var features []domain.ClassFeature
	for rows.Next() {
		var (
			feature                             domain.ClassFeature
			subclassRef, description            sql.NullString
			effects, data, origin, customParent sql.NullString
		)
		if err := rows.Scan(&feature.ID, &feature.ClassID, &subclassRef,
			&feature.Level, &feature.Name, &description, &effects, &data,
			&origin, &customParent); err != nil {
			return nil, fmt.Errorf("scan class feature: %w", err)
		}
		feature.SubclassID = strOr(subclassRef)
		feature.Description = strOr(description)
		if effects.Valid {
			feature.Effects = []byte(effects.String)
		}
		if data.Valid {
			feature.Data = []byte(data.String)
		}
		feature.Origin = domain.Origin(strOr(origin))
		if customParent.Valid && feature.Origin == domain.OriginHomebrew {
			feature.IsHomebrew = true
		}
		features = append(features, feature)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate class features: %w", err)
	}
	return features, nil
}

// ListFeatureOptions returns the selectable options of one class feature.
func (s *Store) ListFeatureOptions(ctx context.Context, featureID string) ([]domain.FeatureOption, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, feature_id, name, description, effects
		 FROM all_feature_options
		 WHERE feature_id = ?
		 ORDER BY name`,
		featureID)
	if err != nil {
		return nil, fmt.Errorf("list feature options: %w", err)
	}
	defer rows.Close()

	var options []domain.FeatureOption
	for rows.Next() {
		var (
			option               domain.FeatureOption
			description, effects sql.NullString
		)
		if err := rows.Scan(&option.ID, &option.FeatureID, &option.Name,
			&description, &effects); err != nil {
			return nil, fmt.Errorf("scan feature option: %w", err)
		}
		option.Description = strOr(description)
		if effects.Valid {
			option.Effects = []byte(effects.String)
		}
		options = append(options, option)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature options: %w", err)
	}
	return options, nil
}

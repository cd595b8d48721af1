package graphstore

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/internal/apperrors"
)

// RegisterUnknown inserts u if no row shares its IdentityKey, otherwise
// returns the existing row. Idempotent so repeated extraction of an
// unchanged file doesn't pile up duplicate unknowns.
func (s *Store) RegisterUnknown(ctx context.Context, u domain.UnknownSymbol) (domain.UnknownSymbol, error) {
	row := toUnknownRow(u)
	var existing unknownRow
	err := s.db.WithContext(ctx).
		Where("name = ? AND source_file = ? AND line = ? AND column = ?", row.Name, row.SourceFile, row.Line, row.Column).
		First(&existing).Error
	if err == nil {
		return existing.toDomain(), nil
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.UnknownSymbol{}, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	return row.toDomain(), nil
}

// SearchUnknowns returns registered unknown symbols, optionally filtered by a
// name substring and/or resolved state (only symbols with no validated
// equivalence, when onlyUnresolved is set).
func (s *Store) SearchUnknowns(ctx context.Context, nameLike string, onlyUnresolved bool) ([]domain.UnknownSymbol, error) {
	q := s.db.WithContext(ctx).Model(&unknownRow{})
	if nameLike != "" {
		q = q.Where("name LIKE ?", "%"+nameLike+"%")
	}
	if onlyUnresolved {
		q = q.Where("id NOT IN (SELECT unknown_id FROM equivalence_relations WHERE validated = ?)", true)
	}
	var rows []unknownRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	out := make([]domain.UnknownSymbol, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// CreateEquivalence proposes or updates a relation between an unknown
// symbol and a known node. Re-proposing the same (unknown, known, rule)
// triple updates the confidence instead of duplicating the row.
func (s *Store) CreateEquivalence(ctx context.Context, e domain.EquivalenceRelation) (domain.EquivalenceRelation, error) {
	row := toEquivalenceRow(e)
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unknown_id"}, {Name: "known_id"}, {Name: "rule"}},
		DoUpdates: clause.AssignmentColumns([]string{"confidence"}),
	}).Create(&row)
	if res.Error != nil {
		return domain.EquivalenceRelation{}, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, res.Error)
	}
	if row.ID == 0 {
		if err := s.db.WithContext(ctx).
			Where("unknown_id = ? AND known_id = ? AND rule = ?", e.UnknownID, e.KnownID, e.Rule).
			First(&row).Error; err != nil {
			return domain.EquivalenceRelation{}, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
		}
	}
	return row.toDomain(), nil
}

// ValidateEquivalence marks a proposed relation as confirmed.
func (s *Store) ValidateEquivalence(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&equivalenceRow{}).Where("id = ?", id).Update("validated", true)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// EquivalencesFor returns every proposed relation for an unknown symbol,
// most confident first.
func (s *Store) EquivalencesFor(ctx context.Context, unknownID int64) ([]domain.EquivalenceRelation, error) {
	var rows []equivalenceRow
	if err := s.db.WithContext(ctx).
		Where("unknown_id = ?", unknownID).
		Order("confidence DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	out := make([]domain.EquivalenceRelation, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// Statistics reports counts used by the resolver's reporting surface.
type Statistics struct {
	TotalNodes        int64
	TotalEdges        int64
	DerivedEdges      int64
	TotalUnknowns     int64
	ValidatedRelations int64
}

func (s *Store) Statistics(ctx context.Context) (Statistics, error) {
	var st Statistics
	db := s.db.WithContext(ctx)
	if err := db.Model(&nodeRow{}).Count(&st.TotalNodes).Error; err != nil {
		return st, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	if err := db.Model(&edgeRow{}).Count(&st.TotalEdges).Error; err != nil {
		return st, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	if err := db.Model(&edgeRow{}).Where("derived = ?", true).Count(&st.DerivedEdges).Error; err != nil {
		return st, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	if err := db.Model(&unknownRow{}).Count(&st.TotalUnknowns).Error; err != nil {
		return st, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	if err := db.Model(&equivalenceRow{}).Where("validated = ?", true).Count(&st.ValidatedRelations).Error; err != nil {
		return st, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	return st, nil
}

package graphstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/internal/apperrors"
)

// UpsertNode inserts n, or updates the existing row sharing its Identifier.
// Returns the node with its assigned ID.
func (s *Store) UpsertNode(ctx context.Context, n domain.Node) (domain.Node, error) {
	row, err := toNodeRow(n)
	if err != nil {
		return domain.Node{}, fmt.Errorf("graphstore: encode node: %w", err)
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identifier"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "name", "source_file", "language", "location", "metadata", "updated_at"}),
	}).Create(&row)
	if res.Error != nil {
		return domain.Node{}, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, res.Error)
	}
	if row.ID == 0 {
		if err := s.db.WithContext(ctx).Where("identifier = ?", n.Identifier).First(&row).Error; err != nil {
			return domain.Node{}, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
		}
	}
	return row.toDomain()
}

// UpsertEdge inserts e, or is a no-op if an edge sharing its UniqueKey
// already exists. Bumps the edge type's generation counter on a real
// insert so the inference cache invalidates.
func (s *Store) UpsertEdge(ctx context.Context, e domain.Edge) (domain.Edge, error) {
	row, err := toEdgeRow(e)
	if err != nil {
		return domain.Edge{}, fmt.Errorf("graphstore: encode edge: %w", err)
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_node_id"}, {Name: "to_node_id"}, {Name: "type"}, {Name: "derived"}, {Name: "rule"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return domain.Edge{}, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, res.Error)
	}
	if res.RowsAffected > 0 {
		s.bumpGeneration(e.Type)
	}
	if row.ID == 0 {
		if err := s.db.WithContext(ctx).
			Where("from_node_id = ? AND to_node_id = ? AND type = ? AND derived = ? AND rule = ?",
				e.FromNodeID, e.ToNodeID, e.Type, e.Derived, e.Rule).
			First(&row).Error; err != nil {
			return domain.Edge{}, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
		}
	}
	return row.toDomain()
}

// FindNodes returns every node matching a (possibly empty) set of filters:
// language, kind, sourceFile. An empty filter value means "don't filter on
// this field".
type NodeFilter struct {
	Language   string
	Kind       domain.NodeKind
	SourceFile string
	NamePrefix string
}

func (s *Store) FindNodes(ctx context.Context, f NodeFilter) ([]domain.Node, error) {
	q := s.db.WithContext(ctx).Model(&nodeRow{})
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", string(f.Kind))
	}
	if f.SourceFile != "" {
		q = q.Where("source_file = ?", f.SourceFile)
	}
	if f.NamePrefix != "" {
		q = q.Where("name LIKE ?", f.NamePrefix+"%")
	}
	var rows []nodeRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	return decodeNodes(rows)
}

// FindNodeByIdentifier looks a single node up by its canonical identifier.
func (s *Store) FindNodeByIdentifier(ctx context.Context, identifier string) (domain.Node, bool, error) {
	var row nodeRow
	err := s.db.WithContext(ctx).Where("identifier = ?", identifier).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Node{}, false, nil
	}
	if err != nil {
		return domain.Node{}, false, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	n, err := row.toDomain()
	return n, true, err
}

// FindNodeByID looks a single node up by its internal id.
func (s *Store) FindNodeByID(ctx context.Context, id int64) (domain.Node, bool, error) {
	var row nodeRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Node{}, false, nil
	}
	if err != nil {
		return domain.Node{}, false, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	n, err := row.toDomain()
	return n, true, err
}

// FindEdges returns edges, optionally filtered by type and/or the derived
// flag.
type EdgeFilter struct {
	Type       string
	FromNodeID int64
	ToNodeID   int64
	OnlyDerived bool
	OnlyExplicit bool
}

func (s *Store) FindEdges(ctx context.Context, f EdgeFilter) ([]domain.Edge, error) {
	q := s.db.WithContext(ctx).Model(&edgeRow{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.FromNodeID != 0 {
		q = q.Where("from_node_id = ?", f.FromNodeID)
	}
	if f.ToNodeID != 0 {
		q = q.Where("to_node_id = ?", f.ToNodeID)
	}
	if f.OnlyDerived {
		q = q.Where("derived = ?", true)
	}
	if f.OnlyExplicit {
		q = q.Where("derived = ?", false)
	}
	var rows []edgeRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	return decodeEdges(rows)
}

// ReplaceFile atomically drops every node/edge sourced from path and
// reinserts nodes, explicitEdges. It is the unit of work the orchestrator
// runs per extracted file: a stale declaration from a since-edited file
// must never linger alongside its replacement.
func (s *Store) ReplaceFile(ctx context.Context, path string, nodes []domain.Node, explicitEdges []domain.Edge) ([]domain.Node, error) {
	var stored []domain.Node
	var deletedTypes []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []nodeRow
		if err := tx.Where("source_file = ?", path).Find(&stale).Error; err != nil {
			return err
		}
		staleIDs := make([]int64, len(stale))
		for i, r := range stale {
			staleIDs[i] = r.ID
		}
		if len(staleIDs) > 0 {
			if err := tx.Model(&edgeRow{}).Where("from_node_id IN ? OR to_node_id IN ?", staleIDs, staleIDs).Pluck("type", &deletedTypes).Error; err != nil {
				return err
			}
			if err := tx.Where("from_node_id IN ? OR to_node_id IN ?", staleIDs, staleIDs).Delete(&edgeRow{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", staleIDs).Delete(&nodeRow{}).Error; err != nil {
				return err
			}
		}

		for _, n := range nodes {
			row, err := toNodeRow(n)
			if err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "identifier"}},
				DoUpdates: clause.AssignmentColumns([]string{"kind", "name", "source_file", "language", "location", "metadata", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
			stored = append(stored, mustDomain(row))
		}
		for _, e := range explicitEdges {
			row, err := toEdgeRow(e)
			if err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	for _, e := range explicitEdges {
		s.bumpGeneration(e.Type)
	}
	for _, t := range deletedTypes {
		s.bumpGeneration(t)
	}
	return stored, nil
}

// RunTransaction exposes the underlying transaction boundary to callers
// (the inference engine, the resolver) that need several writes to commit
// or fail together.
func (s *Store) RunTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := s.db.WithContext(ctx).Transaction(fn); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	return nil
}

func decodeNodes(rows []nodeRow) ([]domain.Node, error) {
	out := make([]domain.Node, 0, len(rows))
	for _, r := range rows {
		n, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeEdges(rows []edgeRow) ([]domain.Edge, error) {
	out := make([]domain.Edge, 0, len(rows))
	for _, r := range rows {
		e, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func mustDomain(row nodeRow) domain.Node {
	n, _ := row.toDomain()
	return n
}

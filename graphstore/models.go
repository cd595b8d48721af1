package graphstore

import (
	"time"

	"gorm.io/datatypes"

	"github.com/oxhq/codegraph/domain"
)

// nodeRow is the gorm-mapped form of domain.Node. Location and Metadata are
// folded into JSON columns the way the teacher folds its scope/confidence
// structures into datatypes.JSON, rather than spreading them across scalar
// columns gorm would otherwise have to migrate piecemeal.
type nodeRow struct {
	ID         int64          `gorm:"primaryKey;autoIncrement"`
	Identifier string         `gorm:"type:varchar(1024);uniqueIndex;not null"`
	Kind       string         `gorm:"type:varchar(32);index;not null"`
	Name       string         `gorm:"type:varchar(512);index;not null"`
	SourceFile *string        `gorm:"type:varchar(1024);index"`
	Language   string         `gorm:"type:varchar(32);index"`
	Location   datatypes.JSON `gorm:"type:jsonb"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (nodeRow) TableName() string { return "nodes" }

// edgeRow is the gorm-mapped form of domain.Edge. The five-column unique
// index mirrors domain.Edge.UniqueKey.
type edgeRow struct {
	ID         int64          `gorm:"primaryKey;autoIncrement"`
	FromNodeID int64          `gorm:"uniqueIndex:edge_identity;index;not null"`
	ToNodeID   int64          `gorm:"uniqueIndex:edge_identity;index;not null"`
	Type       string         `gorm:"type:varchar(64);uniqueIndex:edge_identity;index;not null"`
	Derived    bool           `gorm:"uniqueIndex:edge_identity;not null"`
	Rule       string         `gorm:"type:varchar(64);uniqueIndex:edge_identity"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	Path       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (edgeRow) TableName() string { return "edges" }

// unknownRow is the gorm-mapped form of domain.UnknownSymbol.
type unknownRow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"type:varchar(512);index;not null"`
	Kind       string    `gorm:"type:varchar(32);index"`
	SourceFile string    `gorm:"type:varchar(1024);index;not null"`
	Line       int       `gorm:"index"`
	Column     int
	IsImported bool
	IsAlias    bool
	Confidence float64
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (unknownRow) TableName() string { return "unknown_symbols" }

// equivalenceRow is the gorm-mapped form of domain.EquivalenceRelation.
type equivalenceRow struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	UnknownID  int64   `gorm:"uniqueIndex:equivalence_identity;index;not null"`
	KnownID    int64   `gorm:"uniqueIndex:equivalence_identity;index;not null"`
	Rule       string  `gorm:"type:varchar(32);uniqueIndex:equivalence_identity;not null"`
	Confidence float64 `gorm:"not null"`
	Validated  bool
}

func (equivalenceRow) TableName() string { return "equivalence_relations" }

func toNodeRow(n domain.Node) (nodeRow, error) {
	loc, err := marshalJSON(n.Location)
	if err != nil {
		return nodeRow{}, err
	}
	meta, err := marshalJSON(n.Metadata)
	if err != nil {
		return nodeRow{}, err
	}
	return nodeRow{
		ID:         n.ID,
		Identifier: n.Identifier,
		Kind:       string(n.Kind),
		Name:       n.Name,
		SourceFile: n.SourceFile,
		Language:   n.Language,
		Location:   loc,
		Metadata:   meta,
	}, nil
}

func (r nodeRow) toDomain() (domain.Node, error) {
	var loc domain.Location
	if err := unmarshalJSON(r.Location, &loc); err != nil {
		return domain.Node{}, err
	}
	var meta domain.Metadata
	if err := unmarshalJSON(r.Metadata, &meta); err != nil {
		return domain.Node{}, err
	}
	return domain.Node{
		ID:         r.ID,
		Identifier: r.Identifier,
		Kind:       domain.NodeKind(r.Kind),
		Name:       r.Name,
		SourceFile: r.SourceFile,
		Language:   r.Language,
		Location:   loc,
		Metadata:   meta,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

func toEdgeRow(e domain.Edge) (edgeRow, error) {
	meta, err := marshalJSON(e.Metadata)
	if err != nil {
		return edgeRow{}, err
	}
	path, err := marshalJSON(e.Path)
	if err != nil {
		return edgeRow{}, err
	}
	return edgeRow{
		ID:         e.ID,
		FromNodeID: e.FromNodeID,
		ToNodeID:   e.ToNodeID,
		Type:       e.Type,
		Derived:    e.Derived,
		Rule:       e.Rule,
		Metadata:   meta,
		Path:       path,
	}, nil
}

func (r edgeRow) toDomain() (domain.Edge, error) {
	var meta domain.Metadata
	if err := unmarshalJSON(r.Metadata, &meta); err != nil {
		return domain.Edge{}, err
	}
	var path []int64
	if err := unmarshalJSON(r.Path, &path); err != nil {
		return domain.Edge{}, err
	}
	return domain.Edge{
		ID:         r.ID,
		FromNodeID: r.FromNodeID,
		ToNodeID:   r.ToNodeID,
		Type:       r.Type,
		Metadata:   meta,
		Derived:    r.Derived,
		Rule:       r.Rule,
		Path:       path,
		CreatedAt:  r.CreatedAt,
	}, nil
}

func toUnknownRow(u domain.UnknownSymbol) unknownRow {
	return unknownRow{
		ID:         u.ID,
		Name:       u.Name,
		Kind:       string(u.Kind),
		SourceFile: u.SourceFile,
		Line:       u.Location.Line,
		Column:     u.Location.Column,
		IsImported: u.IsImported,
		IsAlias:    u.IsAlias,
		Confidence: u.Confidence,
	}
}

func (r unknownRow) toDomain() domain.UnknownSymbol {
	return domain.UnknownSymbol{
		ID:         r.ID,
		Name:       r.Name,
		Kind:       domain.NodeKind(r.Kind),
		SourceFile: r.SourceFile,
		Location:   domain.Location{Line: r.Line, Column: r.Column},
		IsImported: r.IsImported,
		IsAlias:    r.IsAlias,
		Confidence: r.Confidence,
	}
}

func toEquivalenceRow(e domain.EquivalenceRelation) equivalenceRow {
	return equivalenceRow{
		ID:         e.ID,
		UnknownID:  e.UnknownID,
		KnownID:    e.KnownID,
		Rule:       string(e.Rule),
		Confidence: e.Confidence,
		Validated:  e.Validated,
	}
}

func (r equivalenceRow) toDomain() domain.EquivalenceRelation {
	return domain.EquivalenceRelation{
		ID:         r.ID,
		UnknownID:  r.UnknownID,
		KnownID:    r.KnownID,
		Rule:       domain.EquivalenceRule(r.Rule),
		Confidence: r.Confidence,
		Validated:  r.Validated,
	}
}

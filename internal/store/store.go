package store

import (
	"context"

	"github.com/emrgen/linkset/internal/model"
)

type Store interface {
	EntityStore
	LinkStore
	// Transaction runs f inside one database transaction. Any error returned by f,
	// or cancellation of ctx, rolls back every write made through tx.
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

// EntityStore offers read-only lookups on the entity tables.
type EntityStore interface {
	// Exists reports whether the entity with the given ID exists and is not soft-deleted.
	Exists(ctx context.Context, entity any, id uint) (bool, error)
	// MissingIDs returns the IDs with no live entity, in input order and without duplicates.
	MissingIDs(ctx context.Context, entity any, ids []uint) ([]uint, error)
	// FindByName loads the entity whose name column equals name into dest.
	FindByName(ctx context.Context, dest any, name string) error
}

type LinkStore interface {
	// ListTargetIDs retrieves the target IDs currently linked to a source.
	ListTargetIDs(ctx context.Context, rel model.Relation, sourceID uint) ([]uint, error)
	// ListSourceIDs retrieves the source IDs currently linked to a target.
	ListSourceIDs(ctx context.Context, rel model.Relation, targetID uint) ([]uint, error)
	// ListTargets loads the target entities linked to a source into dest.
	ListTargets(ctx context.Context, rel model.Relation, sourceID uint, dest any) error
	// ListSources loads the source entities linked to a target into dest.
	ListSources(ctx context.Context, rel model.Relation, targetID uint, dest any) error
	// GetLink retrieves the link for a pair.
	GetLink(ctx context.Context, rel model.Relation, sourceID, targetID uint) (*model.Link, error)
	// CreateLink creates a single link and fills in its ID and CreatedAt.
	CreateLink(ctx context.Context, rel model.Relation, link *model.Link) error
	// InsertLinks inserts links for sourceID, silently skipping pairs that already exist.
	InsertLinks(ctx context.Context, rel model.Relation, sourceID uint, targetIDs []uint, createdBy *uint) (int64, error)
	// DeleteLinks deletes the links between sourceID and targetIDs.
	DeleteLinks(ctx context.Context, rel model.Relation, sourceID uint, targetIDs []uint) (int64, error)
	// CountOrphanLinks counts links whose source or target no longer exists.
	CountOrphanLinks(ctx context.Context, rel model.Relation) (int64, error)
}

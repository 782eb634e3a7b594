package store

import (
	"context"
	"errors"
	"slices"

	"github.com/emrgen/linkset/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Statements over many IDs are split so that neither sqlite (32766) nor
// postgres (65535) runs out of bind variables. A junction row binds 4 values.
const (
	insertBatchSize = 1000
	idBatchSize     = 5000
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) Exists(ctx context.Context, entity any, id uint) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(entity).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (g *GormStore) MissingIDs(ctx context.Context, entity any, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	exists := make(map[uint]bool, len(ids))
	for part := range slices.Chunk(ids, idBatchSize) {
		var found []uint
		err := g.db.WithContext(ctx).Model(entity).Where("id IN ?", part).Pluck("id", &found).Error
		if err != nil {
			return nil, err
		}
		for _, id := range found {
			exists[id] = true
		}
	}

	var missing []uint
	for _, id := range ids {
		if exists[id] {
			continue
		}
		// mark as seen so a repeated missing ID is reported once
		exists[id] = true
		missing = append(missing, id)
	}

	return missing, nil
}

func (g *GormStore) FindByName(ctx context.Context, dest any, name string) error {
	err := g.db.WithContext(ctx).Where("name = ?", name).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

func (g *GormStore) ListTargetIDs(ctx context.Context, rel model.Relation, sourceID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := g.db.WithContext(ctx).Model(rel.NewLink()).
		Where(rel.SourceColumn+" = ?", sourceID).
		Order(rel.TargetColumn).
		Pluck(rel.TargetColumn, &ids).Error
	return ids, err
}

func (g *GormStore) ListSourceIDs(ctx context.Context, rel model.Relation, targetID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := g.db.WithContext(ctx).Model(rel.NewLink()).
		Where(rel.TargetColumn+" = ?", targetID).
		Order(rel.SourceColumn).
		Pluck(rel.SourceColumn, &ids).Error
	return ids, err
}

// ListTargets only returns live targets; links to soft-deleted targets are skipped.
func (g *GormStore) ListTargets(ctx context.Context, rel model.Relation, sourceID uint, dest any) error {
	linked := g.db.Model(rel.NewLink()).Select(rel.TargetColumn).Where(rel.SourceColumn+" = ?", sourceID)
	return g.db.WithContext(ctx).Model(rel.NewTarget()).Where("id IN (?)", linked).Order("id").Find(dest).Error
}

func (g *GormStore) ListSources(ctx context.Context, rel model.Relation, targetID uint, dest any) error {
	linked := g.db.Model(rel.NewLink()).Select(rel.SourceColumn).Where(rel.TargetColumn+" = ?", targetID)
	return g.db.WithContext(ctx).Model(rel.NewSource()).Where("id IN (?)", linked).Order("created_at desc").Find(dest).Error
}

func (g *GormStore) GetLink(ctx context.Context, rel model.Relation, sourceID, targetID uint) (*model.Link, error) {
	row := rel.NewLink()
	err := g.db.WithContext(ctx).
		Where(rel.SourceColumn+" = ? AND "+rel.TargetColumn+" = ?", sourceID, targetID).
		First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	link := row.AsLink()
	return &link, nil
}

// CreateLink returns ErrDuplicateLink when the pair already exists.
func (g *GormStore) CreateLink(ctx context.Context, rel model.Relation, link *model.Link) error {
	row := rel.NewLinkRow(link.SourceID, link.TargetID, link.CreatedBy)

	err := g.db.WithContext(ctx).Create(row).Error
	if IsDuplicateKey(err) {
		return ErrDuplicateLink
	}
	if err != nil {
		return err
	}

	*link = row.AsLink()
	return nil
}

// InsertLinks relies on the pair's unique index: a row inserted by a concurrent
// transaction after our read turns into a no-op instead of an error. The
// returned count is the number of rows actually written. Large inputs are
// written in several statements, run it inside Transaction to keep them atomic.
func (g *GormStore) InsertLinks(ctx context.Context, rel model.Relation, sourceID uint, targetIDs []uint, createdBy *uint) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}

	var inserted int64
	for part := range slices.Chunk(targetIDs, insertBatchSize) {
		res := g.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(rel.NewLinkRows(sourceID, part, createdBy))
		if res.Error != nil {
			return 0, res.Error
		}
		inserted += res.RowsAffected
	}

	if skipped := int64(len(targetIDs)) - inserted; skipped > 0 {
		logrus.Debugf("%s: %d of %d links for source %d already existed", rel.Name, skipped, len(targetIDs), sourceID)
	}

	return inserted, nil
}

// DeleteLinks is set based, deleting an already deleted pair changes nothing.
func (g *GormStore) DeleteLinks(ctx context.Context, rel model.Relation, sourceID uint, targetIDs []uint) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}

	var deleted int64
	for part := range slices.Chunk(targetIDs, idBatchSize) {
		res := g.db.WithContext(ctx).
			Where(rel.SourceColumn+" = ? AND "+rel.TargetColumn+" IN ?", sourceID, part).
			Delete(rel.NewLink())
		if res.Error != nil {
			return 0, res.Error
		}
		deleted += res.RowsAffected
	}

	return deleted, nil
}

func (g *GormStore) CountOrphanLinks(ctx context.Context, rel model.Relation) (int64, error) {
	sources := g.db.Model(rel.NewSource()).Select("id")
	targets := g.db.Model(rel.NewTarget()).Select("id")

	var count int64
	err := g.db.WithContext(ctx).Model(rel.NewLink()).
		Where(rel.SourceColumn+" NOT IN (?) OR "+rel.TargetColumn+" NOT IN (?)", sources, targets).
		Count(&count).Error
	return count, err
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/queue"
	"github.com/emrgen/linkset/internal/store"
	"github.com/emrgen/linkset/internal/tester"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recorder keeps every published change in memory.
type recorder struct {
	mu      sync.Mutex
	changes []*queue.LinkChange
	err     error
}

func (r *recorder) Publish(ctx context.Context, change *queue.LinkChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.changes = append(r.changes, change)
	return nil
}

func (r *recorder) Close() error {
	return nil
}

func (r *recorder) published() []*queue.LinkChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*queue.LinkChange(nil), r.changes...)
}

type fixture struct {
	db        *gorm.DB
	store     *store.GormStore
	publisher *recorder
	links     *LinkService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := tester.NewTestDB(t)
	s := store.NewGormStore(db)
	publisher := &recorder{}

	return &fixture{
		db:        db,
		store:     s,
		publisher: publisher,
		links:     NewLinkService(s, publisher),
	}
}

func (f *fixture) video(t *testing.T) *model.Video {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Video{}).Unscoped().Count(&count).Error)
	video := &model.Video{YoutubeID: fmt.Sprintf("yt-%d", count+1), Title: "video"}
	require.NoError(t, f.db.Create(video).Error)
	return video
}

func (f *fixture) tutorial(t *testing.T) *model.Tutorial {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Tutorial{}).Unscoped().Count(&count).Error)
	tutorial := &model.Tutorial{Title: "tutorial", Slug: fmt.Sprintf("tutorial-%d", count+1)}
	require.NoError(t, f.db.Create(tutorial).Error)
	return tutorial
}

func (f *fixture) product(t *testing.T) *model.Product {
	t.Helper()
	product := &model.Product{Name: "product"}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

// tags creates n tags and returns their IDs in creation order.
func (f *fixture) tags(t *testing.T, n int) []uint {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Tag{}).Unscoped().Count(&count).Error)

	tags := make([]model.Tag, n)
	for i := range tags {
		tags[i] = model.Tag{Name: fmt.Sprintf("tag-%d", int(count)+i+1)}
	}
	require.NoError(t, f.db.CreateInBatches(&tags, 500).Error)

	ids := make([]uint, n)
	for i, tag := range tags {
		ids[i] = tag.ID
	}
	return ids
}

func (f *fixture) categories(t *testing.T, n int) []uint {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Category{}).Unscoped().Count(&count).Error)

	categories := make([]model.Category, n)
	for i := range categories {
		categories[i] = model.Category{Name: fmt.Sprintf("category-%d", int(count)+i+1)}
	}
	require.NoError(t, f.db.Create(&categories).Error)

	ids := make([]uint, n)
	for i, category := range categories {
		ids[i] = category.ID
	}
	return ids
}

// link seeds links directly, bypassing the service.
func (f *fixture) link(t *testing.T, rel model.Relation, sourceID uint, targetIDs ...uint) {
	t.Helper()
	_, err := f.store.InsertLinks(context.Background(), rel, sourceID, targetIDs, nil)
	require.NoError(t, err)
}

func (f *fixture) current(t *testing.T, rel model.Relation, sourceID uint) []uint {
	t.Helper()
	ids, err := f.store.ListTargetIDs(context.Background(), rel, sourceID)
	require.NoError(t, err)
	return ids
}

var errPublish = errors.New("publisher unavailable")

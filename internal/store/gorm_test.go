package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedVideoAndTags(t *testing.T, db *gorm.DB, tags int) (*model.Video, []model.Tag) {
	t.Helper()

	video := &model.Video{YoutubeID: "yt-" + t.Name(), Title: "video"}
	require.NoError(t, db.Create(video).Error)

	list := make([]model.Tag, tags)
	for i := range list {
		list[i] = model.Tag{Name: fmt.Sprintf("tag-%d", i+1)}
	}
	if tags > 0 {
		require.NoError(t, db.Create(&list).Error)
	}

	return video, list
}

func TestGormStore_Exists(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	video, _ := seedVideoAndTags(t, db, 0)

	ok, err := s.Exists(ctx, &model.Video{}, video.ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, &model.Video{}, video.ID+100)
	assert.NoError(t, err)
	assert.False(t, ok)

	// soft-deleted entities do not exist
	require.NoError(t, db.Delete(&model.Video{}, video.ID).Error)
	ok, err = s.Exists(ctx, &model.Video{}, video.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGormStore_MissingIDs(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)

	_, tags := seedVideoAndTags(t, db, 2)

	missing, err := s.MissingIDs(context.TODO(), &model.Tag{}, []uint{999, tags[0].ID, 998, 999, tags[1].ID})
	assert.NoError(t, err)
	assert.Equal(t, []uint{999, 998}, missing)

	missing, err = s.MissingIDs(context.TODO(), &model.Tag{}, nil)
	assert.NoError(t, err)
	assert.Empty(t, missing)
}

func TestGormStore_InsertLinksSkipsExistingPairs(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	video, tags := seedVideoAndTags(t, db, 3)
	actor := uint(11)

	n, err := s.InsertLinks(ctx, model.VideoTags, video.ID, []uint{tags[0].ID, tags[1].ID}, &actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// same pairs again, as a racing transaction would
	n, err = s.InsertLinks(ctx, model.VideoTags, video.ID, []uint{tags[1].ID, tags[2].ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ids, err := s.ListTargetIDs(ctx, model.VideoTags, video.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{tags[0].ID, tags[1].ID, tags[2].ID}, ids)

	var count int64
	require.NoError(t, db.Model(&model.VideoTag{}).Where("video_id = ? AND tag_id = ?", video.ID, tags[1].ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	link, err := s.GetLink(ctx, model.VideoTags, video.ID, tags[1].ID)
	require.NoError(t, err)
	assert.Equal(t, &actor, link.CreatedBy)
	assert.False(t, link.CreatedAt.IsZero())
}

func TestGormStore_CreateLink(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	video, tags := seedVideoAndTags(t, db, 1)

	link := &model.Link{SourceID: video.ID, TargetID: tags[0].ID}
	require.NoError(t, s.CreateLink(ctx, model.VideoTags, link))
	assert.NotZero(t, link.ID)
	assert.Nil(t, link.CreatedBy)

	err := s.CreateLink(ctx, model.VideoTags, &model.Link{SourceID: video.ID, TargetID: tags[0].ID})
	assert.ErrorIs(t, err, ErrDuplicateLink)
}

func TestGormStore_DeleteLinksIsIdempotent(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	video, tags := seedVideoAndTags(t, db, 3)
	_, err := s.InsertLinks(ctx, model.VideoTags, video.ID, []uint{tags[0].ID, tags[1].ID, tags[2].ID}, nil)
	require.NoError(t, err)

	n, err := s.DeleteLinks(ctx, model.VideoTags, video.ID, []uint{tags[0].ID, tags[2].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.DeleteLinks(ctx, model.VideoTags, video.ID, []uint{tags[0].ID, tags[2].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = s.GetLink(ctx, model.VideoTags, video.ID, tags[0].ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	ids, err := s.ListTargetIDs(ctx, model.VideoTags, video.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{tags[1].ID}, ids)
}

func TestGormStore_ListTargetsAndSources(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	video, tags := seedVideoAndTags(t, db, 3)
	_, err := s.InsertLinks(ctx, model.VideoTags, video.ID, []uint{tags[2].ID, tags[0].ID}, nil)
	require.NoError(t, err)

	var linked []model.Tag
	require.NoError(t, s.ListTargets(ctx, model.VideoTags, video.ID, &linked))
	require.Len(t, linked, 2)
	assert.Equal(t, "tag-1", linked[0].Name)
	assert.Equal(t, "tag-3", linked[1].Name)

	var videos []model.Video
	require.NoError(t, s.ListSources(ctx, model.VideoTags, tags[2].ID, &videos))
	require.Len(t, videos, 1)
	assert.Equal(t, video.ID, videos[0].ID)

	sources, err := s.ListSourceIDs(ctx, model.VideoTags, tags[1].ID)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestGormStore_FindByName(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)

	_, tags := seedVideoAndTags(t, db, 2)

	var tag model.Tag
	require.NoError(t, s.FindByName(context.TODO(), &tag, "tag-2"))
	assert.Equal(t, tags[1].ID, tag.ID)

	err := s.FindByName(context.TODO(), &model.Tag{}, "nope")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGormStore_TransactionRollsBack(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	video, tags := seedVideoAndTags(t, db, 2)
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx Store) error {
		if _, err := tx.InsertLinks(ctx, model.VideoTags, video.ID, []uint{tags[0].ID, tags[1].ID}, nil); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ids, err := s.ListTargetIDs(ctx, model.VideoTags, video.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGormStore_TransactionCancelledContext(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)

	video, tags := seedVideoAndTags(t, db, 1)

	ctx, cancel := context.WithCancel(context.Background())
	err := s.Transaction(ctx, func(tx Store) error {
		if _, err := tx.InsertLinks(ctx, model.VideoTags, video.ID, []uint{tags[0].ID}, nil); err != nil {
			return err
		}
		cancel()
		return ctx.Err()
	})
	assert.Error(t, err)
	assert.True(t, IsTransient(err))

	ids, err := s.ListTargetIDs(context.Background(), model.VideoTags, video.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGormStore_CountOrphanLinks(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	video, tags := seedVideoAndTags(t, db, 3)
	_, err := s.InsertLinks(ctx, model.VideoTags, video.ID, []uint{tags[0].ID, tags[1].ID, tags[2].ID}, nil)
	require.NoError(t, err)

	n, err := s.CountOrphanLinks(ctx, model.VideoTags)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, db.Delete(&model.Tag{}, tags[1].ID).Error)

	n, err = s.CountOrphanLinks(ctx, model.VideoTags)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func seedTags(t *testing.T, db *gorm.DB, n int) []uint {
	t.Helper()

	tags := make([]model.Tag, n)
	for i := range tags {
		tags[i] = model.Tag{Name: fmt.Sprintf("bulk-%d", i+1)}
	}
	require.NoError(t, db.CreateInBatches(&tags, 500).Error)

	ids := make([]uint, n)
	for i, tag := range tags {
		ids[i] = tag.ID
	}
	return ids
}

func TestGormStore_LargeBatches(t *testing.T) {
	db := tester.NewTestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	video, _ := seedVideoAndTags(t, db, 0)
	ids := seedTags(t, db, 9000)

	missing, err := s.MissingIDs(ctx, &model.Tag{}, append(slices.Clone(ids), 100000))
	require.NoError(t, err)
	assert.Equal(t, []uint{100000}, missing)

	n, err := s.InsertLinks(ctx, model.VideoTags, video.ID, ids, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), n)

	// every batch skips the pairs that already exist
	n, err = s.InsertLinks(ctx, model.VideoTags, video.ID, ids, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = s.DeleteLinks(ctx, model.VideoTags, video.ID, ids[:8500])
	require.NoError(t, err)
	assert.Equal(t, int64(8500), n)

	current, err := s.ListTargetIDs(ctx, model.VideoTags, video.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[8500:], current)
}

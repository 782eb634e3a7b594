package service

import (
	"context"
	"errors"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/reconcile"
	"github.com/emrgen/linkset/internal/store"
)

// NewVideoTagService creates a new VideoTagService.
func NewVideoTagService(links *LinkService, entities store.EntityStore) *VideoTagService {
	return &VideoTagService{links: links, entities: entities}
}

type VideoTagService struct {
	links    *LinkService
	entities store.EntityStore
}

// UpsertForVideo replaces the tags of a video with tagIDs and returns the
// tags linked when the change committed.
func (v *VideoTagService) UpsertForVideo(ctx context.Context, videoID uint, tagIDs []uint, actor *uint) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	if _, err := v.links.ReconcileTargets(ctx, model.VideoTags, videoID, tagIDs, reconcile.Replace, actor, &tags); err != nil {
		return nil, err
	}

	return tags, nil
}

func (v *VideoTagService) AttachOne(ctx context.Context, videoID, tagID uint, actor *uint) (*model.Link, error) {
	return v.links.Attach(ctx, model.VideoTags, videoID, tagID, actor)
}

func (v *VideoTagService) DetachOne(ctx context.Context, videoID, tagID uint) error {
	return v.links.Detach(ctx, model.VideoTags, videoID, tagID)
}

func (v *VideoTagService) FindTagsByVideo(ctx context.Context, videoID uint) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	if err := v.links.ListTargets(ctx, model.VideoTags, videoID, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (v *VideoTagService) FindVideosByTag(ctx context.Context, tagID uint) ([]model.Video, error) {
	videos := make([]model.Video, 0)
	if err := v.links.ListSources(ctx, model.VideoTags, tagID, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// FindVideosByTagName returns an empty list when no tag has that name.
func (v *VideoTagService) FindVideosByTagName(ctx context.Context, name string) ([]model.Video, error) {
	var tag model.Tag
	err := v.entities.FindByName(ctx, &tag, name)
	if errors.Is(err, store.ErrRecordNotFound) {
		return []model.Video{}, nil
	}
	if err != nil {
		return nil, err
	}

	return v.FindVideosByTag(ctx, tag.ID)
}

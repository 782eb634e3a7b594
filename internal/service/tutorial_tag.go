package service

import (
	"context"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/reconcile"
)

// NewTutorialTagService creates a new TutorialTagService.
func NewTutorialTagService(links *LinkService) *TutorialTagService {
	return &TutorialTagService{links: links}
}

type TutorialTagService struct {
	links *LinkService
}

// UpsertTags makes the tags of a tutorial exactly tagIDs.
func (t *TutorialTagService) UpsertTags(ctx context.Context, tutorialID uint, tagIDs []uint, actor *uint) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	if _, err := t.links.ReconcileTargets(ctx, model.TutorialTags, tutorialID, tagIDs, reconcile.Replace, actor, &tags); err != nil {
		return nil, err
	}

	return tags, nil
}

func (t *TutorialTagService) LinkTag(ctx context.Context, tutorialID, tagID uint, actor *uint) (*model.Link, error) {
	return t.links.Attach(ctx, model.TutorialTags, tutorialID, tagID, actor)
}

func (t *TutorialTagService) UnlinkTag(ctx context.Context, tutorialID, tagID uint) error {
	return t.links.Detach(ctx, model.TutorialTags, tutorialID, tagID)
}

func (t *TutorialTagService) ListTags(ctx context.Context, tutorialID uint) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	if err := t.links.ListTargets(ctx, model.TutorialTags, tutorialID, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (t *TutorialTagService) ListTutorials(ctx context.Context, tagID uint) ([]model.Tutorial, error) {
	tutorials := make([]model.Tutorial, 0)
	if err := t.links.ListSources(ctx, model.TutorialTags, tagID, &tutorials); err != nil {
		return nil, err
	}
	return tutorials, nil
}

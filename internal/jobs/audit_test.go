package jobs

import (
	"context"
	"testing"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/store"
	"github.com/emrgen/linkset/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrphanAudit(t *testing.T) {
	db := tester.NewTestDB(t)
	s := store.NewGormStore(db)
	ctx := context.TODO()

	tutorial := &model.Tutorial{Title: "tutorial", Slug: "audit"}
	require.NoError(t, db.Create(tutorial).Error)
	tags := []model.Tag{{Name: "a"}, {Name: "b"}}
	require.NoError(t, db.Create(&tags).Error)

	_, err := s.InsertLinks(ctx, model.TutorialTags, tutorial.ID, []uint{tags[0].ID, tags[1].ID}, nil)
	require.NoError(t, err)

	audit := NewOrphanAudit(s, "")
	assert.Equal(t, DefaultAuditSchedule, audit.Schedule())

	counts, err := audit.Audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"product-categories": 0, "tutorial-tags": 0, "video-tags": 0}, counts)

	require.NoError(t, db.Delete(tutorial).Error)

	counts, err = audit.Audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["tutorial-tags"])

	// the audit only reports
	ids, err := s.ListTargetIDs(ctx, model.TutorialTags, tutorial.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	audit.Run()
}

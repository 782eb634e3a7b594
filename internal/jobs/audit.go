package jobs

import (
	"context"
	"time"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/store"
	"github.com/sirupsen/logrus"
)

const DefaultAuditSchedule = "@every 1h"

var _ CronJob = (*OrphanAudit)(nil)

// OrphanAudit counts links whose source or target is gone. It only reports,
// orphans are left for the owner of the entity tables to clean up.
type OrphanAudit struct {
	links     store.LinkStore
	relations []model.Relation
	schedule  string
	timeout   time.Duration
}

func NewOrphanAudit(links store.LinkStore, schedule string, relations ...model.Relation) *OrphanAudit {
	if schedule == "" {
		schedule = DefaultAuditSchedule
	}
	if len(relations) == 0 {
		relations = model.Relations()
	}

	return &OrphanAudit{
		links:     links,
		relations: relations,
		schedule:  schedule,
		timeout:   time.Minute,
	}
}

func (o *OrphanAudit) Name() string {
	return "orphan-audit"
}

func (o *OrphanAudit) Schedule() string {
	return o.schedule
}

func (o *OrphanAudit) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if _, err := o.Audit(ctx); err != nil {
		logrus.Errorf("orphan audit failed: %v", err)
	}
}

// Audit returns the orphan count per relation name.
func (o *OrphanAudit) Audit(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(o.relations))
	for _, rel := range o.relations {
		n, err := o.links.CountOrphanLinks(ctx, rel)
		if err != nil {
			return nil, err
		}
		counts[rel.Name] = n

		entry := logrus.WithFields(logrus.Fields{"relation": rel.Name, "orphans": n})
		if n > 0 {
			entry.Warn("orphan links found")
		} else {
			entry.Debug("no orphan links")
		}
	}

	return counts, nil
}

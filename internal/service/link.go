package service

import (
	"context"
	"errors"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/queue"
	"github.com/emrgen/linkset/internal/reconcile"
	"github.com/emrgen/linkset/internal/store"
	"github.com/sirupsen/logrus"
)

// NewLinkService creates a new LinkService. A nil publisher disables change
// notifications.
func NewLinkService(store store.Store, publisher queue.Publisher) *LinkService {
	if publisher == nil {
		publisher = queue.NewNop()
	}

	return &LinkService{
		store:     store,
		publisher: publisher,
	}
}

// LinkService applies link changes for any registered relation. It holds no
// link state between calls and is safe for concurrent use.
type LinkService struct {
	store     store.Store
	publisher queue.Publisher
}

// ReconcileResult describes one committed reconciliation.
type ReconcileResult struct {
	// Added is the size of the plan's add set. A pair inserted concurrently by
	// another caller is still counted here.
	Added int
	// Skipped counts desired targets that were already linked.
	Skipped int
	// Total is the size of the final link set.
	Total         int
	NewlyAdded    []uint
	AlreadyLinked []uint
	Removed       []uint
	Final         []uint
}

// Reconcile moves the link set of sourceID towards desired under mode inside
// a single transaction. Validation failures abort before any write.
func (l *LinkService) Reconcile(ctx context.Context, rel model.Relation, sourceID uint, desired []uint, mode reconcile.Mode, actor *uint) (*ReconcileResult, error) {
	return l.reconcile(ctx, rel, sourceID, desired, mode, actor, nil)
}

// ReconcileTargets is Reconcile that also loads the resulting live targets
// into dest, read in the same transaction as the links it reports.
func (l *LinkService) ReconcileTargets(ctx context.Context, rel model.Relation, sourceID uint, desired []uint, mode reconcile.Mode, actor *uint, dest any) (*ReconcileResult, error) {
	return l.reconcile(ctx, rel, sourceID, desired, mode, actor, dest)
}

func (l *LinkService) reconcile(ctx context.Context, rel model.Relation, sourceID uint, desired []uint, mode reconcile.Mode, actor *uint, dest any) (*ReconcileResult, error) {
	want := reconcile.NewSet(desired...)

	var (
		plan   reconcile.Plan
		result *ReconcileResult
	)

	err := l.store.Transaction(ctx, func(tx store.Store) error {
		if err := checkSource(ctx, tx, rel, sourceID); err != nil {
			return err
		}

		missing, err := tx.MissingIDs(ctx, rel.NewTarget(), desired)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &NotFoundError{What: NotFoundTargets, Entity: rel.TargetKind, IDs: missing}
		}

		currentIDs, err := tx.ListTargetIDs(ctx, rel, sourceID)
		if err != nil {
			return err
		}
		current := reconcile.NewSet(currentIDs...)

		plan = reconcile.Diff(current, want, mode)
		logrus.WithFields(logrus.Fields{
			"relation": rel.Name,
			"source":   sourceID,
			"mode":     mode.String(),
			"add":      plan.ToAdd.Cardinality(),
			"remove":   plan.ToRemove.Cardinality(),
		}).Debug("reconcile plan")

		toAdd := reconcile.Sorted(plan.ToAdd)
		if len(toAdd) > 0 {
			if _, err := tx.InsertLinks(ctx, rel, sourceID, toAdd, actor); err != nil {
				return err
			}
		}

		toRemove := reconcile.Sorted(plan.ToRemove)
		if len(toRemove) > 0 {
			if _, err := tx.DeleteLinks(ctx, rel, sourceID, toRemove); err != nil {
				return err
			}
		}

		final, err := tx.ListTargetIDs(ctx, rel, sourceID)
		if err != nil {
			return err
		}

		if dest != nil {
			if err := tx.ListTargets(ctx, rel, sourceID, dest); err != nil {
				return err
			}
		}

		already := reconcile.Sorted(want.Intersect(current))
		result = &ReconcileResult{
			Added:         len(toAdd),
			Skipped:       len(already),
			Total:         len(final),
			NewlyAdded:    toAdd,
			AlreadyLinked: already,
			Removed:       toRemove,
			Final:         final,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"relation": rel.Name,
		"source":   sourceID,
		"desired":  want.Cardinality(),
		"added":    result.Added,
		"removed":  len(result.Removed),
		"total":    result.Total,
	}).Info("links reconciled")

	if !plan.Empty() {
		l.publish(ctx, queue.NewLinkChange(rel.Name, sourceID, result.NewlyAdded, result.Removed, actor))
	}

	return result, nil
}

// Attach links a single pair. It fails with a ConflictError when the pair is
// already linked, including when a concurrent call linked it first.
func (l *LinkService) Attach(ctx context.Context, rel model.Relation, sourceID, targetID uint, actor *uint) (*model.Link, error) {
	link := &model.Link{SourceID: sourceID, TargetID: targetID, CreatedBy: actor}

	err := l.store.Transaction(ctx, func(tx store.Store) error {
		if err := checkSource(ctx, tx, rel, sourceID); err != nil {
			return err
		}

		ok, err := tx.Exists(ctx, rel.NewTarget(), targetID)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{What: NotFoundTargets, Entity: rel.TargetKind, IDs: []uint{targetID}}
		}

		_, err = tx.GetLink(ctx, rel, sourceID, targetID)
		if err == nil {
			return &ConflictError{Relation: rel.Name, SourceID: sourceID, TargetID: targetID}
		}
		if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		err = tx.CreateLink(ctx, rel, link)
		if errors.Is(err, store.ErrDuplicateLink) {
			return &ConflictError{Relation: rel.Name, SourceID: sourceID, TargetID: targetID}
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("%s: linked %d to %d", rel.Name, sourceID, targetID)
	l.publish(ctx, queue.NewLinkChange(rel.Name, sourceID, []uint{targetID}, nil, actor))

	return link, nil
}

// Detach removes a single link and fails with a NotFoundError when the pair
// was not linked.
func (l *LinkService) Detach(ctx context.Context, rel model.Relation, sourceID, targetID uint) error {
	err := l.store.Transaction(ctx, func(tx store.Store) error {
		deleted, err := tx.DeleteLinks(ctx, rel, sourceID, []uint{targetID})
		if err != nil {
			return err
		}
		if deleted == 0 {
			return &NotFoundError{What: NotFoundLink, Entity: rel.Name, IDs: []uint{sourceID, targetID}}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.Infof("%s: unlinked %d from %d", rel.Name, sourceID, targetID)
	l.publish(ctx, queue.NewLinkChange(rel.Name, sourceID, nil, []uint{targetID}, nil))

	return nil
}

// ListTargets loads the live targets linked to sourceID into dest, which must
// be a pointer to a slice of the relation's target model.
func (l *LinkService) ListTargets(ctx context.Context, rel model.Relation, sourceID uint, dest any) error {
	if err := checkSource(ctx, l.store, rel, sourceID); err != nil {
		return err
	}

	return l.store.ListTargets(ctx, rel, sourceID, dest)
}

// ListSources loads the live sources linked to targetID into dest.
func (l *LinkService) ListSources(ctx context.Context, rel model.Relation, targetID uint, dest any) error {
	ok, err := l.store.Exists(ctx, rel.NewTarget(), targetID)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{What: NotFoundTargets, Entity: rel.TargetKind, IDs: []uint{targetID}}
	}

	return l.store.ListSources(ctx, rel, targetID, dest)
}

// publish runs after commit, the change is durable whether or not it succeeds.
func (l *LinkService) publish(ctx context.Context, change *queue.LinkChange) {
	if err := l.publisher.Publish(ctx, change); err != nil {
		logrus.WithFields(logrus.Fields{
			"relation": change.Relation,
			"source":   change.SourceID,
			"change":   change.ID.String(),
		}).Errorf("failed to publish link change: %v", err)
	}
}

func checkSource(ctx context.Context, s store.EntityStore, rel model.Relation, sourceID uint) error {
	ok, err := s.Exists(ctx, rel.NewSource(), sourceID)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{What: NotFoundSource, Entity: rel.SourceKind, IDs: []uint{sourceID}}
	}
	return nil
}

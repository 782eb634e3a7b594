package reconcile

import (
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Mode selects how a desired set is reconciled against the current one.
type Mode int

const (
	// Additive only adds missing links and never removes existing ones.
	Additive Mode = iota
	// Replace makes the resulting link set exactly equal to the desired set.
	Replace
)

func (m Mode) String() string {
	switch m {
	case Additive:
		return "additive"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses the textual form produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "additive", "add":
		return Additive, nil
	case "replace":
		return Replace, nil
	default:
		return 0, fmt.Errorf("unknown reconcile mode %q", s)
	}
}

// Plan is the minimal set of changes that moves current to desired.
// ToAdd never intersects current and ToRemove is always a subset of it.
type Plan struct {
	ToAdd    mapset.Set[uint]
	ToRemove mapset.Set[uint]
}

// Empty reports whether applying the plan would change nothing.
func (p Plan) Empty() bool {
	return (p.ToAdd == nil || p.ToAdd.Cardinality() == 0) &&
		(p.ToRemove == nil || p.ToRemove.Cardinality() == 0)
}

// Apply returns (current - ToRemove) ∪ ToAdd.
func (p Plan) Apply(current mapset.Set[uint]) mapset.Set[uint] {
	return unsafeCopy(current).Difference(unsafeCopy(p.ToRemove)).Union(unsafeCopy(p.ToAdd))
}

// Diff computes the plan for moving current to desired under mode.
// It has no side effects and panics only on an undefined Mode.
func Diff(current, desired mapset.Set[uint], mode Mode) Plan {
	cur := unsafeCopy(current)
	want := unsafeCopy(desired)

	switch mode {
	case Additive:
		return Plan{
			ToAdd:    want.Difference(cur),
			ToRemove: mapset.NewThreadUnsafeSet[uint](),
		}
	case Replace:
		return Plan{
			ToAdd:    want.Difference(cur),
			ToRemove: cur.Difference(want),
		}
	default:
		panic(fmt.Sprintf("reconcile: undefined mode %d", int(mode)))
	}
}

// NewSet builds a set from ids, dropping duplicates.
func NewSet(ids ...uint) mapset.Set[uint] {
	return mapset.NewThreadUnsafeSet[uint](ids...)
}

// Sorted returns the members of s in ascending order.
func Sorted(s mapset.Set[uint]) []uint {
	if s == nil {
		return []uint{}
	}
	ids := s.ToSlice()
	slices.Sort(ids)
	return ids
}

// unsafeCopy normalises any set implementation (or nil) into a private
// thread-unsafe copy; golang-set refuses to mix the two implementations.
func unsafeCopy(s mapset.Set[uint]) mapset.Set[uint] {
	if s == nil {
		return mapset.NewThreadUnsafeSet[uint]()
	}
	return mapset.NewThreadUnsafeSet[uint](s.ToSlice()...)
}

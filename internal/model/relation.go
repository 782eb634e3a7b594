package model

import (
	"errors"
	"reflect"
	"sort"
)

var ErrUnknownRelation = errors.New("unknown relation")

// Relation describes one junction table and the two tables it joins.
// Source, Target and Link hold zero values of the gorm models so queries can
// be scoped with db.Model(...), which keeps soft-deleted entities invisible.
type Relation struct {
	Name         string
	SourceKind   string
	TargetKind   string
	Source       any
	Target       any
	Link         Junction
	SourceColumn string
	TargetColumn string
}

var (
	ProductCategories = Relation{
		Name:         "product-categories",
		SourceKind:   "product",
		TargetKind:   "category",
		Source:       &Product{},
		Target:       &Category{},
		Link:         &ProductCategory{},
		SourceColumn: "product_id",
		TargetColumn: "category_id",
	}

	VideoTags = Relation{
		Name:         "video-tags",
		SourceKind:   "video",
		TargetKind:   "tag",
		Source:       &Video{},
		Target:       &Tag{},
		Link:         &VideoTag{},
		SourceColumn: "video_id",
		TargetColumn: "tag_id",
	}

	TutorialTags = Relation{
		Name:         "tutorial-tags",
		SourceKind:   "tutorial",
		TargetKind:   "tag",
		Source:       &Tutorial{},
		Target:       &Tag{},
		Link:         &TutorialTag{},
		SourceColumn: "tutorial_id",
		TargetColumn: "tag_id",
	}
)

var relations = map[string]Relation{
	ProductCategories.Name: ProductCategories,
	VideoTags.Name:         VideoTags,
	TutorialTags.Name:      TutorialTags,
}

// NewSource returns a fresh zero value of the source model.
func (r Relation) NewSource() any { return newOf(r.Source) }

// NewTarget returns a fresh zero value of the target model.
func (r Relation) NewTarget() any { return newOf(r.Target) }

// NewLink returns a fresh zero value of the junction model.
func (r Relation) NewLink() Junction { return newOf(r.Link).(Junction) }

// NewLinkRow returns a junction row for one pair.
func (r Relation) NewLinkRow(sourceID, targetID uint, createdBy *uint) Junction {
	row := r.NewLink()
	row.SetPair(sourceID, targetID, createdBy)
	return row
}

// NewLinkRows returns a pointer to a typed slice of junction rows, one per
// target, ready to be passed to a batch insert.
func (r Relation) NewLinkRows(sourceID uint, targetIDs []uint, createdBy *uint) any {
	rowType := reflect.TypeOf(r.Link).Elem()
	rows := reflect.MakeSlice(reflect.SliceOf(rowType), 0, len(targetIDs))
	for _, targetID := range targetIDs {
		row := r.NewLinkRow(sourceID, targetID, createdBy)
		rows = reflect.Append(rows, reflect.ValueOf(row).Elem())
	}

	ptr := reflect.New(rows.Type())
	ptr.Elem().Set(rows)
	return ptr.Interface()
}

func newOf(v any) any {
	return reflect.New(reflect.TypeOf(v).Elem()).Interface()
}

// LookupRelation returns the registered relation with the given name.
func LookupRelation(name string) (Relation, error) {
	rel, ok := relations[name]
	if !ok {
		return Relation{}, ErrUnknownRelation
	}
	return rel, nil
}

// Relations returns every registered relation ordered by name.
func Relations() []Relation {
	list := make([]Relation, 0, len(relations))
	for _, rel := range relations {
		list = append(list, rel)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

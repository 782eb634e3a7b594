package model

import "time"

// Link is a relation-agnostic view of one junction row.
// Rows are never updated: changing a link means deleting it and creating a new one.
type Link struct {
	ID        uint
	SourceID  uint
	TargetID  uint
	CreatedAt time.Time
	CreatedBy *uint // nil when no actor was supplied
}

// Junction is implemented by every junction row model.
type Junction interface {
	SetPair(sourceID, targetID uint, createdBy *uint)
	AsLink() Link
}

// ProductCategory maps to 'product_categories'.
type ProductCategory struct {
	ID         uint      `gorm:"primaryKey"`
	ProductID  uint      `gorm:"column:product_id;not null;uniqueIndex:idx_product_category"`
	Product    *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CategoryID uint      `gorm:"column:category_id;not null;uniqueIndex:idx_product_category;index"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	CreatedBy  *uint     `gorm:"column:created_by"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

func (pc *ProductCategory) SetPair(sourceID, targetID uint, createdBy *uint) {
	pc.ProductID, pc.CategoryID, pc.CreatedBy = sourceID, targetID, createdBy
}

func (pc *ProductCategory) AsLink() Link {
	return Link{ID: pc.ID, SourceID: pc.ProductID, TargetID: pc.CategoryID, CreatedAt: pc.CreatedAt, CreatedBy: pc.CreatedBy}
}

// VideoTag maps to 'video_tags'.
type VideoTag struct {
	ID        uint      `gorm:"primaryKey"`
	VideoID   uint      `gorm:"column:video_id;not null;uniqueIndex:idx_video_tag"`
	Video     *Video    `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	TagID     uint      `gorm:"column:tag_id;not null;uniqueIndex:idx_video_tag;index"`
	Tag       *Tag      `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	CreatedBy *uint     `gorm:"column:created_by"`
}

func (VideoTag) TableName() string {
	return "video_tags"
}

func (vt *VideoTag) SetPair(sourceID, targetID uint, createdBy *uint) {
	vt.VideoID, vt.TagID, vt.CreatedBy = sourceID, targetID, createdBy
}

func (vt *VideoTag) AsLink() Link {
	return Link{ID: vt.ID, SourceID: vt.VideoID, TargetID: vt.TagID, CreatedAt: vt.CreatedAt, CreatedBy: vt.CreatedBy}
}

// TutorialTag maps to 'tutorial_tags'.
type TutorialTag struct {
	ID         uint      `gorm:"primaryKey"`
	TutorialID uint      `gorm:"column:tutorial_id;not null;uniqueIndex:idx_tutorial_tag"`
	Tutorial   *Tutorial `gorm:"foreignKey:TutorialID;constraint:OnDelete:CASCADE"`
	TagID      uint      `gorm:"column:tag_id;not null;uniqueIndex:idx_tutorial_tag;index"`
	Tag        *Tag      `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	CreatedBy  *uint     `gorm:"column:created_by"`
}

func (TutorialTag) TableName() string {
	return "tutorial_tags"
}

func (tt *TutorialTag) SetPair(sourceID, targetID uint, createdBy *uint) {
	tt.TutorialID, tt.TagID, tt.CreatedBy = sourceID, targetID, createdBy
}

func (tt *TutorialTag) AsLink() Link {
	return Link{ID: tt.ID, SourceID: tt.TutorialID, TargetID: tt.TagID, CreatedAt: tt.CreatedAt, CreatedBy: tt.CreatedBy}
}

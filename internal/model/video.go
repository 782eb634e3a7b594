package model

import "gorm.io/gorm"

type Video struct {
	gorm.Model
	YoutubeID    string `gorm:"column:youtube_id;type:text;unique;not null"`
	Title        string `gorm:"type:text;not null"`
	ChannelTitle string `gorm:"type:text"`
	UploaderID   *uint
}

func (Video) TableName() string {
	return "videos"
}

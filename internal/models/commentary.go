package models

import "time"

type Commentary struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"user_id"`
	TaskID uint64 `gorm:"not null;index" json:"task_id"`
	// CreatedTime is written on insert only.
	CreatedTime time.Time `gorm:"autoCreateTime;<-:create" json:"created_time"`
	Content     string    `gorm:"type:text;not null" json:"content"`

	// Relations
	Author Worker `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Task   Task   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the plural the rest of the schema uses.
func (Commentary) TableName() string {
	return "commentaries"
}

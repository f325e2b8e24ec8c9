package models

type Position struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// WorkerCount is filled by list queries only.
	WorkerCount int64 `gorm:"->;-:migration" json:"worker_count"`

	// Relations
	Workers []Worker `gorm:"foreignKey:PositionID" json:"workers,omitempty"`
}

package models

type TaskType struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// TasksCount is filled by list queries only.
	TasksCount int64 `gorm:"->;-:migration" json:"tasks_count"`

	// Relations
	Tasks []Task `gorm:"foreignKey:TaskTypeID" json:"tasks,omitempty"`
}

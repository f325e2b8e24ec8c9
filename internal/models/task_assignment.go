package models

// TaskAssignment links a Task to an assigned Worker. The composite key keeps
// a worker from being assigned twice.
type TaskAssignment struct {
	TaskID   uint64 `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	WorkerID uint64 `gorm:"primarykey;autoIncrement:false" json:"worker_id"`

	// Relations
	Task   Task   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Worker Worker `gorm:"foreignKey:WorkerID;references:UserID;constraint:OnDelete:CASCADE" json:"worker,omitempty"`
}

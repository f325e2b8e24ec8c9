package models

// Worker holds the domain side of an account. It shares its identifier with
// the User that carries the credentials.
type Worker struct {
	UserID     uint64 `gorm:"primarykey;autoIncrement:false" json:"id"`
	PositionID uint64 `gorm:"not null;index" json:"position_id"`
	Avatar     string `gorm:"type:varchar(255)" json:"avatar,omitempty"`

	// Relations
	User        User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Position    Position         `gorm:"foreignKey:PositionID;constraint:OnDelete:CASCADE" json:"position,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:WorkerID" json:"-"`
}

func (w *Worker) GetID() uint64 {
	return w.UserID
}

func (w *Worker) GetUsername() string {
	return w.User.Username
}

func (w *Worker) IsSuper() bool {
	return w.User.IsSuperuser
}

func (w *Worker) CheckPassword(password string) bool {
	return w.User.CheckPassword(password)
}

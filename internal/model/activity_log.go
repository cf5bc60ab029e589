package model

const (
	ActionLogin            = "login"
	ActionViewMaterial     = "view_material"
	ActionSubmitAssignment = "submit_assignment"
)

// ActivityLog records user actions. CreatedAt doubles as the event
// timestamp for recency ordering.
// swagger:model ActivityLog
type ActivityLog struct {
	BaseModel
	UserID   uint   `gorm:"index;not null" json:"userId"`
	CourseID *uint  `gorm:"index" json:"courseId,omitempty"`
	Action   string `gorm:"size:50;index;not null" json:"action"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

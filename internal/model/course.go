package model

// swagger:model Course
type Course struct {
	BaseModel
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	TeacherID   uint   `gorm:"index;not null" json:"teacherId"`
	Teacher     *User  `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

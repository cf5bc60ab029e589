package model

// Enrollment links one student to one course.
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID   uint    `gorm:"index;not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID uint    `gorm:"index;not null;uniqueIndex:idx_enrollment_user_course" json:"courseId"`
	User     *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course   *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

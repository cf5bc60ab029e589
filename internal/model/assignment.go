package model

import "time"

// swagger:model Assignment
type Assignment struct {
	BaseModel
	Title    string     `gorm:"size:200;not null" json:"title"`
	CourseID uint       `gorm:"index;not null" json:"courseId"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Course   *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}

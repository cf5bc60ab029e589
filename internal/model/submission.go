package model

// Submission is one student's answer to an assignment. Score stays nil
// until a teacher grades it; analytics treat nil as "not yet scored",
// never as zero.
// swagger:model Submission
type Submission struct {
	BaseModel
	AssignmentID uint        `gorm:"index;not null" json:"assignmentId"`
	StudentID    uint        `gorm:"index;not null" json:"studentId"`
	Score        *float64    `json:"score,omitempty"`
	FilePath     string      `gorm:"size:255" json:"filePath,omitempty"`
	Assignment   *Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:50;unique;not null" json:"username"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;index;default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsTeacher() bool {
	return u.Role == Teacher
}

func (u *User) IsStudent() bool {
	return u.Role == Student
}

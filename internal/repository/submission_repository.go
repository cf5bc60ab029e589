package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Assignment").First(&submission, id).Error
	return &submission, err
}

// ListByStudent returns a student's submissions newest-first by ID,
// the recency order the profile's recent-topics walk relies on.
func (r *SubmissionRepository) ListByStudent(studentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Preload("Assignment").Where("student_id = ?", studentID).Order("id DESC").Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) ListByAssignments(assignmentIDs []uint) ([]model.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	var submissions []model.Submission
	err := r.DB.Where("assignment_id IN ?", assignmentIDs).Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) ListByStudentAndCourse(studentID, courseID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Preload("Assignment").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.student_id = ? AND assignments.course_id = ?", studentID, courseID).
		Order("submissions.id DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) Update(submission *model.Submission) error {
	return r.DB.Save(submission).Error
}

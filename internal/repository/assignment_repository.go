package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(assignment *model.Assignment) error {
	return r.DB.Create(assignment).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.DB.Preload("Course").First(&assignment, id).Error
	return &assignment, err
}

func (r *AssignmentRepository) ListByCourse(courseID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("course_id = ?", courseID).Order("id").Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) IDsByCourse(courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Assignment{}).Where("course_id = ?", courseID).Pluck("id", &ids).Error
	return ids, err
}

func (r *AssignmentRepository) Update(assignment *model.Assignment) error {
	return r.DB.Save(assignment).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Assignment{}, id).Error
}

package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("id").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByTeacher(teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("teacher_id = ?", teacherID).Order("id").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) SearchByName(q string) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("name LIKE ?", "%"+q+"%").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Count(&count).Error
	return count, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

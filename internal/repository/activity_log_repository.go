package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityLogRepository struct {
	DB *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

func (r *ActivityLogRepository) Create(log *model.ActivityLog) error {
	return r.DB.Create(log).Error
}

func (r *ActivityLogRepository) CountByUserAndAction(userID uint, action string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ActivityLog{}).
		Where("user_id = ? AND action = ?", userID, action).
		Count(&count).Error
	return count, err
}

func (r *ActivityLogRepository) CountByAction(action string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ActivityLog{}).Where("action = ?", action).Count(&count).Error
	return count, err
}

// RecentByCourses returns the latest events across the given courses,
// newest first.
func (r *ActivityLogRepository) RecentByCourses(courseIDs []uint, limit int) ([]model.ActivityLog, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var logs []model.ActivityLog
	err := r.DB.Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

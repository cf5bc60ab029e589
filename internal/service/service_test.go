package service

import (
	"fmt"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testRepos struct {
	User       *repository.UserRepository
	Course     *repository.CourseRepository
	Enrollment *repository.EnrollmentRepository
	Assignment *repository.AssignmentRepository
	Submission *repository.SubmissionRepository
	Activity   *repository.ActivityLogRepository
}

func newTestRepos(db *gorm.DB) *testRepos {
	return &testRepos{
		User:       repository.NewUserRepository(db),
		Course:     repository.NewCourseRepository(db),
		Enrollment: repository.NewEnrollmentRepository(db),
		Assignment: repository.NewAssignmentRepository(db),
		Submission: repository.NewSubmissionRepository(db),
		Activity:   repository.NewActivityLogRepository(db),
	}
}

func newTestAnalytics(r *testRepos) *AnalyticsService {
	return NewAnalyticsService(r.User, r.Course, r.Enrollment, r.Assignment, r.Submission, r.Activity)
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	require.NoError(t, db.Create(value).Error)
}

func newStudent(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Password: "x", Role: model.Student}
	mustCreate(t, db, u)
	return u
}

func newTeacher(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Password: "x", Role: model.Teacher}
	mustCreate(t, db, u)
	return u
}

func ptr(v float64) *float64 {
	return &v
}

func logins(t *testing.T, db *gorm.DB, userID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		mustCreate(t, db, &model.ActivityLog{UserID: userID, Action: model.ActionLogin})
	}
}

package service

import (
	"context"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAssignmentService(t *testing.T, db *gorm.DB) *AssignmentService {
	t.Helper()
	repos := newTestRepos(db)
	storage, err := NewStorageService(config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	return NewAssignmentService(repos.Assignment, repos.Submission, repos.Course, repos.Enrollment, repos.Activity, storage)
}

func TestGradeRoundsAndValidates(t *testing.T) {
	db := setupTestDB(t)
	svc := newAssignmentService(t, db)

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "student1")
	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)
	mustCreate(t, db, &model.Enrollment{UserID: student.ID, CourseID: course.ID})
	assignment := &model.Assignment{Title: "A", CourseID: course.ID}
	mustCreate(t, db, assignment)

	submission, err := svc.Submit(context.Background(), student.ID, assignment.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, submission.Score)

	graded, err := svc.Grade(teacher.ID, submission.ID, 7.84)
	require.NoError(t, err)
	require.NotNil(t, graded.Score)
	assert.Equal(t, 7.8, *graded.Score)

	_, err = svc.Grade(teacher.ID, submission.ID, 10.5)
	assert.ErrorIs(t, err, util.ErrScoreOutOfRange)
	_, err = svc.Grade(teacher.ID, submission.ID, -0.1)
	assert.ErrorIs(t, err, util.ErrScoreOutOfRange)
}

func TestGradeRequiresCourseOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := newAssignmentService(t, db)

	owner := newTeacher(t, db, "owner")
	other := newTeacher(t, db, "other")
	student := newStudent(t, db, "student1")
	course := &model.Course{Name: "Toán", TeacherID: owner.ID}
	mustCreate(t, db, course)
	mustCreate(t, db, &model.Enrollment{UserID: student.ID, CourseID: course.ID})
	assignment := &model.Assignment{Title: "A", CourseID: course.ID}
	mustCreate(t, db, assignment)

	submission, err := svc.Submit(context.Background(), student.ID, assignment.ID, nil)
	require.NoError(t, err)

	_, err = svc.Grade(other.ID, submission.ID, 8.0)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	svc := newAssignmentService(t, db)

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "student1")
	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)
	assignment := &model.Assignment{Title: "A", CourseID: course.ID}
	mustCreate(t, db, assignment)

	_, err := svc.Submit(context.Background(), student.ID, assignment.ID, nil)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestSubmitLogsActivity(t *testing.T) {
	db := setupTestDB(t)
	svc := newAssignmentService(t, db)

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "student1")
	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)
	mustCreate(t, db, &model.Enrollment{UserID: student.ID, CourseID: course.ID})
	assignment := &model.Assignment{Title: "A", CourseID: course.ID}
	mustCreate(t, db, assignment)

	_, err := svc.Submit(context.Background(), student.ID, assignment.ID, nil)
	require.NoError(t, err)

	repos := newTestRepos(db)
	count, err := repos.Activity.CountByUserAndAction(student.ID, model.ActionSubmitAssignment)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

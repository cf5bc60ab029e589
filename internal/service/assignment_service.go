package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	SubmissionRepo *repository.SubmissionRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ActivityRepo   *repository.ActivityLogRepository
	Storage        *StorageService
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	submissionRepo *repository.SubmissionRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	activityRepo *repository.ActivityLogRepository,
	storage *StorageService,
) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		SubmissionRepo: submissionRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ActivityRepo:   activityRepo,
		Storage:        storage,
	}
}

func (s *AssignmentService) Create(teacherID, courseID uint, title string, deadline *time.Time) (*model.Assignment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}

	assignment := &model.Assignment{
		Title:    title,
		CourseID: courseID,
		Deadline: deadline,
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) GetByID(id uint) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) ListByCourse(courseID uint) ([]model.Assignment, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.AssignmentRepo.ListByCourse(courseID)
}

func (s *AssignmentService) Update(teacherID, assignmentID uint, title string, deadline *time.Time) (*model.Assignment, error) {
	assignment, err := s.GetByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Course == nil || assignment.Course.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}
	if title != "" {
		assignment.Title = title
	}
	assignment.Deadline = deadline
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(teacherID, assignmentID uint) error {
	assignment, err := s.GetByID(assignmentID)
	if err != nil {
		return err
	}
	if assignment.Course == nil || assignment.Course.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return s.AssignmentRepo.Delete(assignmentID)
}

// Submit stores a student's answer. Enrollment in the assignment's
// course is required; the upload is optional and only its stored path
// is kept. A submit_assignment event is logged for the activity feed.
func (s *AssignmentService) Submit(ctx context.Context, studentID, assignmentID uint, file *multipart.FileHeader) (*model.Submission, error) {
	assignment, err := s.GetByID(assignmentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.EnrollmentRepo.Find(studentID, assignment.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	var filePath string
	if file != nil {
		filePath, err = s.Storage.SaveSubmission(ctx, file)
		if err != nil {
			return nil, err
		}
	}

	submission := &model.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		FilePath:     filePath,
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}

	cid := assignment.CourseID
	if err := s.ActivityRepo.Create(&model.ActivityLog{
		UserID:   studentID,
		CourseID: &cid,
		Action:   model.ActionSubmitAssignment,
	}); err != nil {
		logger.Log.Warn("failed to record submission event", zap.Uint("user_id", studentID), zap.Error(err))
	}

	return submission, nil
}

// Grade sets a submission's score. Scores live on a 0-10 scale and are
// rounded to one decimal. Only the teacher who owns the course may
// grade.
func (s *AssignmentService) Grade(teacherID, submissionID uint, score float64) (*model.Submission, error) {
	if score < 0 || score > 10 {
		return nil, util.ErrScoreOutOfRange
	}

	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	if submission.Assignment == nil {
		return nil, util.ErrAssignmentNotFound
	}
	course, err := s.CourseRepo.FindByID(submission.Assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}

	rounded := util.Round1(score)
	submission.Score = &rounded
	if err := s.SubmissionRepo.Update(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// SubmissionsForAssignment lists a single assignment's submissions for
// the owning teacher, student names included.
func (s *AssignmentService) SubmissionsForAssignment(teacherID, assignmentID uint) ([]model.Submission, error) {
	assignment, err := s.GetByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Course == nil || assignment.Course.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}
	return s.SubmissionRepo.ListByAssignments([]uint{assignmentID})
}

func (s *AssignmentService) MySubmissions(studentID uint) ([]model.Submission, error) {
	return s.SubmissionRepo.ListByStudent(studentID)
}

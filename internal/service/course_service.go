package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	AssignmentRepo *repository.AssignmentRepository
	SubmissionRepo *repository.SubmissionRepository
	ActivityRepo   *repository.ActivityLogRepository
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	assignmentRepo *repository.AssignmentRepository,
	submissionRepo *repository.SubmissionRepository,
	activityRepo *repository.ActivityLogRepository,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		AssignmentRepo: assignmentRepo,
		SubmissionRepo: submissionRepo,
		ActivityRepo:   activityRepo,
	}
}

func (s *CourseService) Create(teacherID uint, name, description string) (*model.Course, error) {
	course := &model.Course{
		Name:        name,
		Description: description,
		TeacherID:   teacherID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetByID(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// ListForUser returns the courses relevant to the caller: a teacher
// sees the courses they own, a student sees every course plus an
// enrollment marker.
func (s *CourseService) ListForTeacher(teacherID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByTeacher(teacherID)
}

func (s *CourseService) ListAll(q string) ([]model.Course, error) {
	if q != "" {
		return s.CourseRepo.SearchByName(q)
	}
	return s.CourseRepo.List()
}

func (s *CourseService) Update(teacherID, courseID uint, name, description string) (*model.Course, error) {
	course, err := s.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}
	if name != "" {
		course.Name = name
	}
	course.Description = description
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(teacherID, courseID uint) error {
	course, err := s.GetByID(courseID)
	if err != nil {
		return err
	}
	if course.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return s.CourseRepo.Delete(courseID)
}

func (s *CourseService) Enroll(userID, courseID uint) error {
	if _, err := s.GetByID(courseID); err != nil {
		return err
	}
	if _, err := s.EnrollmentRepo.Find(userID, courseID); err == nil {
		return util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.EnrollmentRepo.Create(&model.Enrollment{UserID: userID, CourseID: courseID})
}

func (s *CourseService) Unenroll(userID, courseID uint) error {
	if _, err := s.EnrollmentRepo.Find(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotEnrolled
		}
		return err
	}
	return s.EnrollmentRepo.Delete(userID, courseID)
}

func (s *CourseService) EnrolledCourses(userID uint) ([]model.Course, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	courses := make([]model.Course, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course != nil {
			courses = append(courses, *e.Course)
		}
	}
	return courses, nil
}

// AddStudent enrolls a student on the teacher's behalf.
func (s *CourseService) AddStudent(teacherID, courseID, studentID uint) error {
	course, err := s.GetByID(courseID)
	if err != nil {
		return err
	}
	if course.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	if _, err := s.EnrollmentRepo.Find(studentID, courseID); err == nil {
		return util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.EnrollmentRepo.Create(&model.Enrollment{UserID: studentID, CourseID: courseID})
}

// RemoveStudent drops a student from the teacher's course.
func (s *CourseService) RemoveStudent(teacherID, courseID, studentID uint) error {
	course, err := s.GetByID(courseID)
	if err != nil {
		return err
	}
	if course.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	if _, err := s.EnrollmentRepo.Find(studentID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotEnrolled
		}
		return err
	}
	return s.EnrollmentRepo.Delete(studentID, courseID)
}

// RecordView logs a view_material event against the course. Views feed
// the platform analytics counters.
func (s *CourseService) RecordView(userID, courseID uint) error {
	if _, err := s.GetByID(courseID); err != nil {
		return err
	}
	cid := courseID
	return s.ActivityRepo.Create(&model.ActivityLog{
		UserID:   userID,
		CourseID: &cid,
		Action:   model.ActionViewMaterial,
	})
}

// RosterEntry is one student of a course roster with their per-course
// performance numbers.
type RosterEntry struct {
	StudentID      uint     `json:"studentId"`
	Username       string   `json:"username"`
	AverageScore   *float64 `json:"avgScore"`
	SubmittedCount int      `json:"submittedCount"`
}

// Roster lists a course's students with their average score in this
// course. Only the owning teacher may call it.
func (s *CourseService) Roster(teacherID, courseID uint) ([]RosterEntry, error) {
	course, err := s.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}

	enrollments, err := s.EnrollmentRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	roster := make([]RosterEntry, 0, len(enrollments))
	for _, e := range enrollments {
		if e.User == nil {
			continue
		}
		subs, err := s.SubmissionRepo.ListByStudentAndCourse(e.UserID, courseID)
		if err != nil {
			return nil, err
		}
		var scores []float64
		for _, sub := range subs {
			if sub.Score != nil {
				scores = append(scores, *sub.Score)
			}
		}
		avg := util.Mean(scores)
		if avg != nil {
			rounded := util.Round1(*avg)
			avg = &rounded
		}
		roster = append(roster, RosterEntry{
			StudentID:      e.UserID,
			Username:       e.User.Username,
			AverageScore:   avg,
			SubmittedCount: len(subs),
		})
	}
	return roster, nil
}

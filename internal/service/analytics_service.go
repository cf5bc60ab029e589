package service

import (
	"fmt"
	"sort"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

const recentTopicsLimit = 5
const recentEventsLimit = 5

// AnalyticsService aggregates the raw tables into the learning
// profiles, cohort summaries and reports every advisory and chat
// feature reads from.
type AnalyticsService struct {
	UserRepo       *repository.UserRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	AssignmentRepo *repository.AssignmentRepository
	SubmissionRepo *repository.SubmissionRepository
	ActivityRepo   *repository.ActivityLogRepository
}

func NewAnalyticsService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	assignmentRepo *repository.AssignmentRepository,
	submissionRepo *repository.SubmissionRepository,
	activityRepo *repository.ActivityLogRepository,
) *AnalyticsService {
	return &AnalyticsService{
		UserRepo:       userRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		AssignmentRepo: assignmentRepo,
		SubmissionRepo: submissionRepo,
		ActivityRepo:   activityRepo,
	}
}

// StudentProfile builds a student's learning snapshot. The average and
// the completed count cover only scored submissions; the average stays
// nil when there are none.
// Recent topics are the titles of the latest distinct assignments the
// student submitted to, newest first, capped at five.
func (s *AnalyticsService) StudentProfile(studentID uint) (*model.LearningProfile, error) {
	submissions, err := s.SubmissionRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	var scores []float64
	topics := make([]string, 0, recentTopicsLimit)
	seen := make(map[string]bool)
	for _, sub := range submissions {
		if sub.Score != nil {
			scores = append(scores, *sub.Score)
		}
		if sub.Assignment != nil && len(topics) < recentTopicsLimit && !seen[sub.Assignment.Title] {
			seen[sub.Assignment.Title] = true
			topics = append(topics, sub.Assignment.Title)
		}
	}

	avg := util.Mean(scores)
	if avg != nil {
		rounded := util.Round1(*avg)
		avg = &rounded
	}

	logins, err := s.ActivityRepo.CountByUserAndAction(studentID, model.ActionLogin)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.EnrollmentRepo.CountByUser(studentID)
	if err != nil {
		return nil, err
	}

	return &model.LearningProfile{
		AverageScore:         avg,
		LoginCount:           int(logins),
		AssignmentsCompleted: len(scores),
		CoursesEnrolled:      int(enrolled),
		RecentTopics:         topics,
	}, nil
}

// TeacherOverview summarizes a teacher's cohort. The overall average
// is the mean of per-course means, so small courses weigh as much as
// large ones. Courses without a single scored submission contribute no
// mean.
func (s *AnalyticsService) TeacherOverview(teacherID uint) (*model.CohortSummary, error) {
	courses, err := s.CourseRepo.ListByTeacher(teacherID)
	if err != nil {
		return nil, err
	}

	summary := &model.CohortSummary{
		Courses:         make([]string, 0, len(courses)),
		CourseSummaries: make([]string, 0, len(courses)),
	}

	var courseMeans []float64
	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.ID)
		summary.Courses = append(summary.Courses, course.Name)

		students, err := s.EnrollmentRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		summary.TotalStudents += int(students)

		assignmentIDs, err := s.AssignmentRepo.IDsByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		summary.CourseSummaries = append(summary.CourseSummaries,
			fmt.Sprintf("%s: %d sinh viên, %d bài tập", course.Name, students, len(assignmentIDs)))

		if mean, err := s.courseMean(assignmentIDs); err != nil {
			return nil, err
		} else if mean != nil {
			courseMeans = append(courseMeans, *mean)
		}
	}

	if avg := util.Mean(courseMeans); avg != nil {
		rounded := util.Round1(*avg)
		summary.AverageScore = &rounded
	}

	logs, err := s.ActivityRepo.RecentByCourses(courseIDs, recentEventsLimit)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		summary.RecentEvents = append(summary.RecentEvents, model.ActivityEvent{
			Action:    l.Action,
			UserID:    l.UserID,
			CourseID:  l.CourseID,
			Timestamp: l.CreatedAt,
		})
	}

	return summary, nil
}

func (s *AnalyticsService) courseMean(assignmentIDs []uint) (*float64, error) {
	submissions, err := s.SubmissionRepo.ListByAssignments(assignmentIDs)
	if err != nil {
		return nil, err
	}
	var scores []float64
	for _, sub := range submissions {
		if sub.Score != nil {
			scores = append(scores, *sub.Score)
		}
	}
	return util.Mean(scores), nil
}

// StudentMetricsFor gathers one student's raw advisory numbers.
func (s *AnalyticsService) StudentMetricsFor(student *model.User) (model.StudentMetrics, error) {
	m := model.StudentMetrics{
		StudentID: student.ID,
		Username:  student.Username,
	}

	submissions, err := s.SubmissionRepo.ListByStudent(student.ID)
	if err != nil {
		return m, err
	}
	var scores []float64
	for _, sub := range submissions {
		if sub.Score != nil {
			scores = append(scores, *sub.Score)
		}
	}
	if avg := util.Mean(scores); avg != nil {
		rounded := util.Round1(*avg)
		m.AverageScore = &rounded
	}
	m.AssignmentsCompleted = len(scores)

	logins, err := s.ActivityRepo.CountByUserAndAction(student.ID, model.ActionLogin)
	if err != nil {
		return m, err
	}
	m.LoginCount = int(logins)

	enrolled, err := s.EnrollmentRepo.CountByUser(student.ID)
	if err != nil {
		return m, err
	}
	m.CoursesEnrolled = int(enrolled)

	return m, nil
}

// AllStudentMetrics gathers the advisory numbers for every student.
func (s *AnalyticsService) AllStudentMetrics() ([]model.StudentMetrics, error) {
	students, err := s.UserRepo.ListByRole(model.Student)
	if err != nil {
		return nil, err
	}
	metrics := make([]model.StudentMetrics, 0, len(students))
	for i := range students {
		m, err := s.StudentMetricsFor(&students[i])
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// SystemAnalytics is the platform-wide teacher report.
func (s *AnalyticsService) SystemAnalytics() (*model.SystemAnalytics, error) {
	report := &model.SystemAnalytics{}

	var err error
	if report.TotalViews, err = s.ActivityRepo.CountByAction(model.ActionViewMaterial); err != nil {
		return nil, err
	}
	if report.TotalLogins, err = s.ActivityRepo.CountByAction(model.ActionLogin); err != nil {
		return nil, err
	}
	if report.TotalStudents, err = s.UserRepo.CountByRole(model.Student); err != nil {
		return nil, err
	}
	if report.TotalSubmissions, err = s.SubmissionRepo.Count(); err != nil {
		return nil, err
	}

	students, err := s.UserRepo.ListByRole(model.Student)
	if err != nil {
		return nil, err
	}

	var allScores []float64
	assignmentCounts := make(map[uint]int)
	totalPossible := 0
	for i := range students {
		subs, err := s.SubmissionRepo.ListByStudent(students[i].ID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			if sub.Score != nil {
				allScores = append(allScores, *sub.Score)
			}
		}

		enrollments, err := s.EnrollmentRepo.ListByUser(students[i].ID)
		if err != nil {
			return nil, err
		}
		for _, e := range enrollments {
			n, ok := assignmentCounts[e.CourseID]
			if !ok {
				ids, err := s.AssignmentRepo.IDsByCourse(e.CourseID)
				if err != nil {
					return nil, err
				}
				n = len(ids)
				assignmentCounts[e.CourseID] = n
			}
			totalPossible += n
		}
	}

	if avg := util.Mean(allScores); avg != nil {
		rounded := util.Round1(*avg)
		report.AverageScore = &rounded
	}
	// Completion rate is submissions over the number every enrolled
	// student could have made.
	if totalPossible > 0 {
		report.CompletionRate = util.Round1(float64(report.TotalSubmissions) / float64(totalPossible) * 100)
	}
	report.ScoreDistribution = distribute(allScores)

	courses, err := s.CourseRepo.List()
	if err != nil {
		return nil, err
	}
	for _, course := range courses {
		n, err := s.EnrollmentRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		report.TopCourses = append(report.TopCourses, model.CoursePopularity{
			Name:        course.Name,
			Enrollments: n,
		})
	}
	sortCoursesByEnrollment(report.TopCourses)
	if len(report.TopCourses) > 5 {
		report.TopCourses = report.TopCourses[:5]
	}

	return report, nil
}

// PersonalAnalytics is a student's own report.
func (s *AnalyticsService) PersonalAnalytics(studentID uint) (*model.PersonalAnalytics, error) {
	report := &model.PersonalAnalytics{}

	submissions, err := s.SubmissionRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	var scores []float64
	for _, sub := range submissions {
		if sub.Score != nil {
			scores = append(scores, *sub.Score)
		}
	}
	if avg := util.Mean(scores); avg != nil {
		rounded := util.Round1(*avg)
		report.AverageScore = &rounded
	}
	report.TotalSubmissions = len(submissions)
	report.ScoreDistribution = distribute(scores)

	logins, err := s.ActivityRepo.CountByUserAndAction(studentID, model.ActionLogin)
	if err != nil {
		return nil, err
	}
	report.LoginCount = int(logins)

	views, err := s.ActivityRepo.CountByUserAndAction(studentID, model.ActionViewMaterial)
	if err != nil {
		return nil, err
	}
	report.ViewCount = int(views)

	enrollments, err := s.EnrollmentRepo.ListByUser(studentID)
	if err != nil {
		return nil, err
	}
	report.CoursesEnrolled = len(enrollments)

	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		subs, err := s.SubmissionRepo.ListByStudentAndCourse(studentID, e.CourseID)
		if err != nil {
			return nil, err
		}
		var courseScores []float64
		for _, sub := range subs {
			if sub.Score != nil {
				courseScores = append(courseScores, *sub.Score)
			}
		}
		avg := util.Mean(courseScores)
		if avg != nil {
			rounded := util.Round1(*avg)
			avg = &rounded
		}
		report.CourseScores = append(report.CourseScores, model.CourseScore{
			Course:       e.Course.Name,
			AverageScore: avg,
		})
	}

	return report, nil
}

// UserStats builds the per-user platform stats table, one advisory
// line per student.
func (s *AnalyticsService) UserStats(advisor *AdvisorService) ([]model.UserStatRow, error) {
	users, err := s.UserRepo.List()
	if err != nil {
		return nil, err
	}

	rows := make([]model.UserStatRow, 0, len(users))
	for i := range users {
		u := &users[i]
		row := model.UserStatRow{
			UserID:   u.ID,
			Username: u.Username,
			Role:     u.Role,
		}

		logins, err := s.ActivityRepo.CountByUserAndAction(u.ID, model.ActionLogin)
		if err != nil {
			return nil, err
		}
		row.LoginCount = int(logins)

		if u.IsStudent() {
			m, err := s.StudentMetricsFor(u)
			if err != nil {
				return nil, err
			}
			row.AverageScore = m.AverageScore
			row.CoursesEnrolled = m.CoursesEnrolled
			row.AssignmentsSubmitted = m.AssignmentsCompleted
			_, row.Advice = advisor.TeacherAdvice(m)
		}

		rows = append(rows, row)
	}
	return rows, nil
}

func distribute(scores []float64) model.ScoreDistribution {
	var d model.ScoreDistribution
	for _, score := range scores {
		switch {
		case score >= 9:
			d.Excellent++
		case score >= 7:
			d.Good++
		case score >= 5:
			d.Average++
		default:
			d.Poor++
		}
	}
	return d
}

func sortCoursesByEnrollment(courses []model.CoursePopularity) {
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Enrollments > courses[j].Enrollments
	})
}

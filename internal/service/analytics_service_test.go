package service

import (
	"fmt"
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentProfile(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	analytics := newTestAnalytics(repos)

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "student1")

	course := &model.Course{Name: "Nhập môn Lập trình", TeacherID: teacher.ID}
	mustCreate(t, db, course)
	mustCreate(t, db, &model.Enrollment{UserID: student.ID, CourseID: course.ID})

	a1 := &model.Assignment{Title: "Bài tập Python cơ bản", CourseID: course.ID}
	a2 := &model.Assignment{Title: "Bài tập SQL", CourseID: course.ID}
	mustCreate(t, db, a1)
	mustCreate(t, db, a2)

	mustCreate(t, db, &model.Submission{AssignmentID: a1.ID, StudentID: student.ID, Score: ptr(8.5)})
	mustCreate(t, db, &model.Submission{AssignmentID: a2.ID, StudentID: student.ID, Score: ptr(7.0)})
	logins(t, db, student.ID, 3)

	profile, err := analytics.StudentProfile(student.ID)
	require.NoError(t, err)

	require.NotNil(t, profile.AverageScore)
	assert.Equal(t, 7.8, *profile.AverageScore)
	assert.Equal(t, 3, profile.LoginCount)
	assert.Equal(t, 2, profile.AssignmentsCompleted)
	assert.Equal(t, 1, profile.CoursesEnrolled)
	// Newest submission first.
	assert.Equal(t, []string{"Bài tập SQL", "Bài tập Python cơ bản"}, profile.RecentTopics)
}

func TestStudentProfileEmpty(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	student := newStudent(t, db, "student1")

	profile, err := analytics.StudentProfile(student.ID)
	require.NoError(t, err)

	assert.Nil(t, profile.AverageScore)
	assert.Zero(t, profile.LoginCount)
	assert.Zero(t, profile.AssignmentsCompleted)
	assert.Zero(t, profile.CoursesEnrolled)
	assert.Empty(t, profile.RecentTopics)
}

func TestStudentProfileRecentTopicsDistinctAndCapped(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "student1")
	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)

	var assignments []*model.Assignment
	for i := 1; i <= 7; i++ {
		a := &model.Assignment{Title: fmt.Sprintf("Bài tập %d", i), CourseID: course.ID}
		mustCreate(t, db, a)
		assignments = append(assignments, a)
	}

	// Two submissions to the same assignment must yield one topic.
	mustCreate(t, db, &model.Submission{AssignmentID: assignments[0].ID, StudentID: student.ID})
	for _, a := range assignments {
		mustCreate(t, db, &model.Submission{AssignmentID: a.ID, StudentID: student.ID})
	}

	profile, err := analytics.StudentProfile(student.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bài tập 7", "Bài tập 6", "Bài tập 5", "Bài tập 4", "Bài tập 3"}, profile.RecentTopics)
}

func TestStudentProfileSkipsUngradedInCompletedCount(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	analytics := newTestAnalytics(repos)

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "student1")
	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)

	a1 := &model.Assignment{Title: "A1", CourseID: course.ID}
	a2 := &model.Assignment{Title: "A2", CourseID: course.ID}
	mustCreate(t, db, a1)
	mustCreate(t, db, a2)

	mustCreate(t, db, &model.Submission{AssignmentID: a1.ID, StudentID: student.ID, Score: ptr(9.0)})
	mustCreate(t, db, &model.Submission{AssignmentID: a2.ID, StudentID: student.ID})

	profile, err := analytics.StudentProfile(student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.AssignmentsCompleted)

	m, err := analytics.StudentMetricsFor(student)
	require.NoError(t, err)
	assert.Equal(t, 1, m.AssignmentsCompleted)
}

func TestTeacherOverviewEqualCourseWeighting(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	teacher := newTeacher(t, db, "teacher1")
	s1 := newStudent(t, db, "s1")
	s2 := newStudent(t, db, "s2")

	big := &model.Course{Name: "Khóa lớn", TeacherID: teacher.ID}
	small := &model.Course{Name: "Khóa nhỏ", TeacherID: teacher.ID}
	mustCreate(t, db, big)
	mustCreate(t, db, small)

	mustCreate(t, db, &model.Enrollment{UserID: s1.ID, CourseID: big.ID})
	mustCreate(t, db, &model.Enrollment{UserID: s2.ID, CourseID: big.ID})
	mustCreate(t, db, &model.Enrollment{UserID: s1.ID, CourseID: small.ID})

	bigA := &model.Assignment{Title: "A", CourseID: big.ID}
	smallA := &model.Assignment{Title: "B", CourseID: small.ID}
	mustCreate(t, db, bigA)
	mustCreate(t, db, smallA)

	// Big course mean 4.0 over three submissions, small course mean
	// 10.0 over one. Equal weighting puts the cohort at 7.0; a pooled
	// mean would give 5.5.
	mustCreate(t, db, &model.Submission{AssignmentID: bigA.ID, StudentID: s1.ID, Score: ptr(4.0)})
	mustCreate(t, db, &model.Submission{AssignmentID: bigA.ID, StudentID: s2.ID, Score: ptr(4.0)})
	mustCreate(t, db, &model.Submission{AssignmentID: bigA.ID, StudentID: s1.ID, Score: ptr(4.0)})
	mustCreate(t, db, &model.Submission{AssignmentID: smallA.ID, StudentID: s1.ID, Score: ptr(10.0)})

	summary, err := analytics.TeacherOverview(teacher.ID)
	require.NoError(t, err)

	require.NotNil(t, summary.AverageScore)
	assert.Equal(t, 7.0, *summary.AverageScore)
	assert.Equal(t, 3, summary.TotalStudents)
	assert.Equal(t, []string{"Khóa lớn", "Khóa nhỏ"}, summary.Courses)
	assert.Contains(t, summary.CourseSummaries, "Khóa lớn: 2 sinh viên, 1 bài tập")
	assert.Contains(t, summary.CourseSummaries, "Khóa nhỏ: 1 sinh viên, 1 bài tập")
}

func TestTeacherOverviewIgnoresUnscoredCourses(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "s1")

	scored := &model.Course{Name: "Có điểm", TeacherID: teacher.ID}
	unscored := &model.Course{Name: "Chưa có điểm", TeacherID: teacher.ID}
	mustCreate(t, db, scored)
	mustCreate(t, db, unscored)

	a := &model.Assignment{Title: "A", CourseID: scored.ID}
	mustCreate(t, db, a)
	mustCreate(t, db, &model.Submission{AssignmentID: a.ID, StudentID: student.ID, Score: ptr(6.0)})

	summary, err := analytics.TeacherOverview(teacher.ID)
	require.NoError(t, err)

	require.NotNil(t, summary.AverageScore)
	assert.Equal(t, 6.0, *summary.AverageScore)
}

func TestTeacherOverviewRecentEventsCapped(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "s1")
	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)

	cid := course.ID
	for i := 0; i < 8; i++ {
		mustCreate(t, db, &model.ActivityLog{UserID: student.ID, CourseID: &cid, Action: model.ActionViewMaterial})
	}

	summary, err := analytics.TeacherOverview(teacher.ID)
	require.NoError(t, err)

	assert.Len(t, summary.RecentEvents, 5)
}

func TestTeacherOverviewNoCourses(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	teacher := newTeacher(t, db, "teacher1")

	summary, err := analytics.TeacherOverview(teacher.ID)
	require.NoError(t, err)

	assert.Nil(t, summary.AverageScore)
	assert.Zero(t, summary.TotalStudents)
	assert.Empty(t, summary.Courses)
	assert.Empty(t, summary.RecentEvents)
}

func TestStudentProfileIdempotent(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	teacher := newTeacher(t, db, "teacher1")
	student := newStudent(t, db, "s1")
	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)
	a := &model.Assignment{Title: "A", CourseID: course.ID}
	mustCreate(t, db, a)
	mustCreate(t, db, &model.Submission{AssignmentID: a.ID, StudentID: student.ID, Score: ptr(5.5)})

	first, err := analytics.StudentProfile(student.ID)
	require.NoError(t, err)
	second, err := analytics.StudentProfile(student.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSystemAnalytics(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	teacher := newTeacher(t, db, "teacher1")
	s1 := newStudent(t, db, "s1")
	s2 := newStudent(t, db, "s2")

	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)
	mustCreate(t, db, &model.Enrollment{UserID: s1.ID, CourseID: course.ID})
	mustCreate(t, db, &model.Enrollment{UserID: s2.ID, CourseID: course.ID})

	a1 := &model.Assignment{Title: "A1", CourseID: course.ID}
	a2 := &model.Assignment{Title: "A2", CourseID: course.ID}
	mustCreate(t, db, a1)
	mustCreate(t, db, a2)
	mustCreate(t, db, &model.Submission{AssignmentID: a1.ID, StudentID: s1.ID, Score: ptr(9.5)})
	mustCreate(t, db, &model.Submission{AssignmentID: a2.ID, StudentID: s1.ID, Score: ptr(4.0)})

	logins(t, db, s1.ID, 2)
	cid := course.ID
	mustCreate(t, db, &model.ActivityLog{UserID: s1.ID, CourseID: &cid, Action: model.ActionViewMaterial})

	report, err := analytics.SystemAnalytics()
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.TotalStudents)
	assert.Equal(t, int64(2), report.TotalSubmissions)
	assert.Equal(t, int64(2), report.TotalLogins)
	assert.Equal(t, int64(1), report.TotalViews)
	require.NotNil(t, report.AverageScore)
	assert.Equal(t, 6.8, *report.AverageScore)
	// Two submissions against four possible: two students enrolled in a
	// course with two assignments.
	assert.Equal(t, 50.0, report.CompletionRate)
	assert.Equal(t, 1, report.ScoreDistribution.Excellent)
	assert.Equal(t, 1, report.ScoreDistribution.Poor)
}

func TestSystemAnalyticsNoAssignments(t *testing.T) {
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	teacher := newTeacher(t, db, "teacher1")
	s1 := newStudent(t, db, "s1")
	course := &model.Course{Name: "Toán", TeacherID: teacher.ID}
	mustCreate(t, db, course)
	mustCreate(t, db, &model.Enrollment{UserID: s1.ID, CourseID: course.ID})

	report, err := analytics.SystemAnalytics()
	require.NoError(t, err)

	assert.Zero(t, report.CompletionRate)
}

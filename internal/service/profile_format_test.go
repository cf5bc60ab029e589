package service

import (
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFormatProfileContext(t *testing.T) {
	fields := []model.ProfileField{
		{Name: "avg_score", Value: ptr(7.75)},
		{Name: "login_count", Value: 12},
		{Name: "recent_topics", Value: []string{"Bài tập 1", "Bài tập 2"}},
	}

	got := FormatProfileContext(fields)
	assert.Equal(t,
		"- Avg score: 7.8\n"+
			"- Login count: 12\n"+
			"- Recent topics: Bài tập 1, Bài tập 2",
		got)
}

func TestFormatProfileContextSkipsEmptyValues(t *testing.T) {
	fields := []model.ProfileField{
		{Name: "avg_score", Value: (*float64)(nil)},
		{Name: "login_count", Value: 0},
		{Name: "recent_topics", Value: []string{}},
		{Name: "extras", Value: map[string]interface{}{}},
	}

	got := FormatProfileContext(fields)
	assert.Equal(t, "- Login count: 0", got)
}

func TestFormatProfileContextNestedMap(t *testing.T) {
	fields := []model.ProfileField{
		{Name: "course_scores", Value: map[string]interface{}{
			"toan": 8.3,
			"ly":   6.0,
		}},
	}

	got := FormatProfileContext(fields)
	assert.Equal(t,
		"- Course scores:\n"+
			"  • ly: 6.0\n"+
			"  • toan: 8.3",
		got)
}

func TestFormatProfileContextLearningProfile(t *testing.T) {
	profile := &model.LearningProfile{
		AverageScore:         ptr(7.8),
		LoginCount:           5,
		AssignmentsCompleted: 2,
		CoursesEnrolled:      1,
		RecentTopics:         []string{"Vòng lặp"},
	}

	got := FormatProfileContext(profile.Fields())
	assert.Contains(t, got, "- Avg score: 7.8")
	assert.Contains(t, got, "- Assignments completed: 2")
	assert.Contains(t, got, "- Recent topics: Vòng lặp")
}

func TestFormatProfileContextCohortWithNoData(t *testing.T) {
	summary := &model.CohortSummary{TotalStudents: 0}

	got := FormatProfileContext(summary.Fields())
	assert.NotContains(t, got, "Courses:")
	assert.NotContains(t, got, "Avg score")
	assert.Contains(t, got, "- Total students: 0")
}

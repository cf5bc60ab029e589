package model

import (
	"fmt"
	"time"
)

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// ProfileField is one labelled value of a learning profile, in render
// order. The advice formatter consumes these; they are never persisted.
type ProfileField struct {
	Name  string
	Value interface{}
}

// LearningProfile is a student's per-request snapshot of learning
// metrics. AverageScore is nil when the student has no scored
// submissions; that is "no data yet", not zero.
type LearningProfile struct {
	AverageScore         *float64 `json:"avgScore"`
	LoginCount           int      `json:"loginCount"`
	AssignmentsCompleted int      `json:"assignmentsCompleted"`
	CoursesEnrolled      int      `json:"coursesEnrolled"`
	RecentTopics         []string `json:"recentTopics"`
}

func (p *LearningProfile) Fields() []ProfileField {
	return []ProfileField{
		{Name: "avg_score", Value: p.AverageScore},
		{Name: "login_count", Value: p.LoginCount},
		{Name: "assignments_completed", Value: p.AssignmentsCompleted},
		{Name: "courses_enrolled", Value: p.CoursesEnrolled},
		{Name: "recent_topics", Value: p.RecentTopics},
	}
}

// ActivityEvent is a denormalized activity-log row for cohort views.
type ActivityEvent struct {
	Action    string    `json:"action"`
	UserID    uint      `json:"userId"`
	CourseID  *uint     `json:"courseId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e ActivityEvent) String() string {
	if e.CourseID != nil {
		return fmt.Sprintf("%s (user %d, course %d, %s)", e.Action, e.UserID, *e.CourseID, e.Timestamp.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s (user %d, %s)", e.Action, e.UserID, e.Timestamp.Format(time.RFC3339))
}

// CohortSummary aggregates a teacher's courses. AverageScore is the
// mean of per-course means, weighting every course equally regardless
// of how many submissions it has.
type CohortSummary struct {
	Courses         []string        `json:"courses"`
	TotalStudents   int             `json:"totalStudents"`
	AverageScore    *float64        `json:"avgScore"`
	CourseSummaries []string        `json:"courseSummaries"`
	RecentEvents    []ActivityEvent `json:"recentEvents"`
}

func (c *CohortSummary) Fields() []ProfileField {
	events := make([]string, 0, len(c.RecentEvents))
	for _, e := range c.RecentEvents {
		events = append(events, e.String())
	}
	return []ProfileField{
		{Name: "courses", Value: c.Courses},
		{Name: "total_students", Value: c.TotalStudents},
		{Name: "avg_score", Value: c.AverageScore},
		{Name: "course_summaries", Value: c.CourseSummaries},
		{Name: "recent_events", Value: events},
	}
}

// StudentMetrics are the raw per-student numbers the advisor
// classifies. AverageScore nil means no scored submissions.
type StudentMetrics struct {
	StudentID            uint     `json:"studentId"`
	Username             string   `json:"username"`
	AverageScore         *float64 `json:"avgScore"`
	LoginCount           int      `json:"loginCount"`
	AssignmentsCompleted int      `json:"assignmentsCompleted"`
	CoursesEnrolled      int      `json:"coursesEnrolled"`
}

// StudentRiskRow is one row of the teacher's advisory table.
type StudentRiskRow struct {
	StudentMetrics
	Advice    string    `json:"advice"`
	RiskLevel RiskLevel `json:"riskLevel"`
}

// StudentDetail is the teacher's drill-down view of one student.
type StudentDetail struct {
	StudentMetrics
	Advice          string    `json:"advice"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Recommendations []string  `json:"recommendations"`
}

// SelfAdvisory is the student's own advisory view.
type SelfAdvisory struct {
	LearningProfile
	Advice          string    `json:"advice"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Recommendations []string  `json:"recommendations"`
}

// ScoreDistribution buckets scored submissions.
type ScoreDistribution struct {
	Excellent int `json:"excellent"` // >= 9
	Good      int `json:"good"`      // [7, 9)
	Average   int `json:"average"`   // [5, 7)
	Poor      int `json:"poor"`      // < 5
}

// SystemAnalytics is the teacher-facing platform-wide report.
type SystemAnalytics struct {
	TotalViews        int64              `json:"totalViews"`
	TotalLogins       int64              `json:"totalLogins"`
	TotalStudents     int64              `json:"totalStudents"`
	TotalSubmissions  int64              `json:"totalSubmissions"`
	AverageScore      *float64           `json:"avgScore"`
	CompletionRate    float64            `json:"completionRate"`
	ScoreDistribution ScoreDistribution  `json:"scoreDistribution"`
	TopCourses        []CoursePopularity `json:"topCourses"`
}

// CoursePopularity pairs a course name with its enrollment count.
type CoursePopularity struct {
	Name        string `json:"name"`
	Enrollments int64  `json:"enrollments"`
}

// CourseScore pairs a course name with a student's average in it.
type CourseScore struct {
	Course       string   `json:"course"`
	AverageScore *float64 `json:"avgScore"`
}

// PersonalAnalytics is the student-facing analytics report.
type PersonalAnalytics struct {
	AverageScore      *float64          `json:"avgScore"`
	LoginCount        int               `json:"loginCount"`
	ViewCount         int               `json:"viewCount"`
	TotalSubmissions  int               `json:"totalSubmissions"`
	CoursesEnrolled   int               `json:"coursesEnrolled"`
	CourseScores      []CourseScore     `json:"courseScores"`
	ScoreDistribution ScoreDistribution `json:"scoreDistribution"`
}

// UserStatRow is one row of the platform stats report.
type UserStatRow struct {
	UserID               uint     `json:"userId"`
	Username             string   `json:"username"`
	Role                 UserRole `json:"role"`
	LoginCount           int      `json:"loginCount"`
	AverageScore         *float64 `json:"avgScore"`
	CoursesEnrolled      int      `json:"coursesEnrolled"`
	AssignmentsSubmitted int      `json:"assignmentsSubmitted"`
	Advice               string   `json:"advice"`
}

// ChatOutcome is the transient result of one chat request.
type ChatOutcome struct {
	Text         string `json:"text"`
	UsedFallback bool   `json:"usedFallback"`
	Model        string `json:"model"`
}

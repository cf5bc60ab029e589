package service

import (
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	advisor := NewAdvisorService()

	tests := []struct {
		name   string
		avg    *float64
		logins int
		want   model.RiskLevel
	}{
		{"low average is high risk", ptr(4.9), 20, model.RiskHigh},
		{"average exactly five is not high", ptr(5.0), 2, model.RiskMedium},
		{"few logins is medium", ptr(7.0), 4, model.RiskMedium},
		{"strong average with enough logins is low", ptr(8.5), 10, model.RiskLow},
		{"average exactly eight is low", ptr(8.0), 5, model.RiskLow},
		{"strong average with few logins stays medium", ptr(9.0), 3, model.RiskMedium},
		{"middling average is medium", ptr(6.5), 12, model.RiskMedium},
		{"no scores counts as zero", nil, 30, model.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, advisor.ClassifyRisk(tt.avg, tt.logins))
		})
	}
}

func TestClassifyRiskTotality(t *testing.T) {
	advisor := NewAdvisorService()

	for score := 0.0; score <= 10.0; score += 0.5 {
		for _, logins := range []int{0, 4, 5, 50} {
			level := advisor.ClassifyRisk(ptr(score), logins)
			assert.Contains(t, []model.RiskLevel{model.RiskHigh, model.RiskMedium, model.RiskLow}, level)
		}
	}
}

func TestTeacherAdvice(t *testing.T) {
	advisor := NewAdvisorService()

	level, advice := advisor.TeacherAdvice(model.StudentMetrics{
		Username:     "an",
		AverageScore: ptr(3.5),
		LoginCount:   10,
	})
	assert.Equal(t, model.RiskHigh, level)
	assert.Equal(t, "Sinh viên an có điểm thấp (3.5). Nên hỗ trợ thêm và kiểm tra tiến độ học tập.", advice)

	level, advice = advisor.TeacherAdvice(model.StudentMetrics{
		Username:     "binh",
		AverageScore: ptr(7.0),
		LoginCount:   2,
	})
	assert.Equal(t, model.RiskMedium, level)
	assert.Equal(t, "Sinh viên binh ít đăng nhập (2 lần). Nên nhắc nhở tham gia lớp học thường xuyên hơn.", advice)

	level, advice = advisor.TeacherAdvice(model.StudentMetrics{
		Username:     "cuong",
		AverageScore: ptr(9.2),
		LoginCount:   8,
	})
	assert.Equal(t, model.RiskLow, level)
	assert.Equal(t, "Sinh viên cuong học tốt (9.2). Có thể giao thêm bài tập nâng cao.", advice)

	level, advice = advisor.TeacherAdvice(model.StudentMetrics{
		Username:     "dung",
		AverageScore: ptr(6.5),
		LoginCount:   9,
	})
	assert.Equal(t, model.RiskMedium, level)
	assert.Equal(t, "Sinh viên dung có tiến bộ tốt. Tiếp tục theo dõi và hỗ trợ.", advice)
}

func TestSelfAdviceBands(t *testing.T) {
	advisor := NewAdvisorService()

	level, advice, recs := advisor.SelfAdvice(ptr(4.0), 10)
	assert.Equal(t, model.RiskHigh, level)
	assert.Contains(t, advice, "ôn lại các chương cơ bản")
	assert.Len(t, recs, 4)

	level, _, recs = advisor.SelfAdvice(ptr(8.5), 10)
	assert.Equal(t, model.RiskLow, level)
	assert.Contains(t, recs, "Tham gia dự án nâng cao")

	level, advice, recs = advisor.SelfAdvice(ptr(7.0), 2)
	assert.Equal(t, model.RiskMedium, level)
	assert.Contains(t, advice, "đăng nhập thường xuyên hơn")
	assert.Len(t, recs, 4)
}

func TestInterventionStepsMatchBand(t *testing.T) {
	advisor := NewAdvisorService()

	assert.Contains(t, advisor.InterventionSteps(ptr(3.0), 10), "Gặp riêng sinh viên để trao đổi")
	assert.Contains(t, advisor.InterventionSteps(ptr(7.0), 1), "Gửi email nhắc nhở")
	assert.Contains(t, advisor.InterventionSteps(ptr(9.0), 10), "Giao dự án nâng cao")
	assert.Contains(t, advisor.InterventionSteps(ptr(6.0), 10), "Duy trì động lực học tập")
}

package service

import (
	"fmt"
	"strings"

	"lms_backend/internal/model"
)

// ResponderService answers chat messages from a fixed rule table when
// the external AI is unavailable. Matching is case-insensitive
// substring containment over an ordered table; the first matching rule
// wins and a role-specific default guarantees a non-empty answer.
type ResponderService struct{}

func NewResponderService() *ResponderService {
	return &ResponderService{}
}

// ScoreContext carries the numbers score questions are answered from.
// Average is nil when there is nothing graded yet.
type ScoreContext struct {
	Average       *float64
	TotalStudents int
}

var scoreKeywords = []string{"điểm", "grade", "score", "điểm số", "điểm của tôi"}

type responderRule struct {
	keywords []string
	response string
}

var responderRules = []responderRule{
	{
		keywords: []string{"gợi ý học tập", "học tập", "study", "học như thế nào", "cách học"},
		response: "Để cải thiện điểm số, bạn nên ôn lại kiến thức cốt lõi, làm thêm bài tập tự luyện và trao đổi với giảng viên khi gặp khó khăn.",
	},
	{
		keywords: []string{"bài tập", "bài tập về nhà", "assignment"},
		response: "Hãy lập kế hoạch giải các bài tập theo mức độ ưu tiên, bắt đầu từ những bài còn gặp khó khăn và hoàn thành trước hạn.",
	},
	{
		keywords: []string{"khóa học", "course"},
		response: "Bạn có thể tham gia thảo luận nhóm, xem lại ghi chú bài giảng và nhờ hỗ trợ từ giảng viên để hiểu sâu hơn nội dung khóa học.",
	},
	{
		keywords: []string{"lịch học", "schedule", "time"},
		response: "Hãy chia nhỏ thời gian học từng chủ đề, duy trì lịch học cố định 2-3 giờ mỗi ngày và dành thời gian ôn tập cuối tuần.",
	},
	{
		keywords: []string{"mục tiêu", "goal"},
		response: "Đặt mục tiêu SMART: Cụ thể, Đo lường được, Khả thi, Liên quan và Có thời hạn. Theo dõi tiến độ hàng tuần để điều chỉnh.",
	},
}

// Respond never returns an empty string.
func (r *ResponderService) Respond(message string, role model.UserRole, scores ScoreContext) string {
	lower := strings.ToLower(message)

	// Score questions come first so "điểm" is not shadowed by the
	// generic study rule.
	if containsAny(lower, scoreKeywords) {
		return r.scoreAnswer(role, scores)
	}

	for _, rule := range responderRules {
		if containsAny(lower, rule.keywords) {
			return rule.response
		}
	}

	if role == model.Teacher {
		answer := "Bạn nên theo dõi tiến độ lớp học, hỗ trợ sinh viên gặp khó khăn và cập nhật kịp thời các tài liệu giảng dạy."
		if scores.TotalStudents > 0 {
			answer += fmt.Sprintf(" Lớp của bạn hiện có %d sinh viên.", scores.TotalStudents)
		}
		return answer
	}
	return "Hãy duy trì thói quen học tập đều đặn, chủ động đặt câu hỏi và tự đánh giá tiến độ của bản thân."
}

func (r *ResponderService) scoreAnswer(role model.UserRole, scores ScoreContext) string {
	if role == model.Teacher {
		if scores.Average == nil {
			return "Chưa có dữ liệu điểm số."
		}
		answer := fmt.Sprintf("Điểm trung bình của lớp là %.1f.", *scores.Average)
		if scores.TotalStudents > 0 {
			answer += fmt.Sprintf(" Lớp có %d sinh viên.", scores.TotalStudents)
		}
		return answer
	}
	if scores.Average == nil {
		return "Bạn chưa có điểm số nào. Hãy nộp bài tập để nhận điểm."
	}
	return fmt.Sprintf("Điểm trung bình hiện tại của bạn là %.1f.", *scores.Average)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

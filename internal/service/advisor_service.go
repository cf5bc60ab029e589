package service

import (
	"fmt"

	"lms_backend/internal/model"
)

// AdvisorService turns raw learning metrics into a risk level, an
// advice sentence and a recommendation list. It is pure: no storage,
// no I/O, fully deterministic.
type AdvisorService struct{}

func NewAdvisorService() *AdvisorService {
	return &AdvisorService{}
}

// ClassifyRisk maps metrics to a risk level. Rules apply in order and
// the first match wins:
//
//	avg < 5               -> high
//	logins < 5            -> medium
//	avg >= 8              -> low
//	otherwise             -> medium
//
// The boundaries are strict: an average of exactly 5 is not high risk,
// and exactly 8 with enough logins is low. A student with no scored
// submissions is treated as averaging 0 and lands in high.
func (a *AdvisorService) ClassifyRisk(avg *float64, loginCount int) model.RiskLevel {
	score := 0.0
	if avg != nil {
		score = *avg
	}
	switch {
	case score < 5:
		return model.RiskHigh
	case loginCount < 5:
		return model.RiskMedium
	case score >= 8:
		return model.RiskLow
	default:
		return model.RiskMedium
	}
}

// TeacherAdvice phrases one student's situation for their teacher.
func (a *AdvisorService) TeacherAdvice(m model.StudentMetrics) (model.RiskLevel, string) {
	score := 0.0
	if m.AverageScore != nil {
		score = *m.AverageScore
	}
	level := a.ClassifyRisk(m.AverageScore, m.LoginCount)
	switch {
	case score < 5:
		return level, fmt.Sprintf("Sinh viên %s có điểm thấp (%.1f). Nên hỗ trợ thêm và kiểm tra tiến độ học tập.", m.Username, score)
	case m.LoginCount < 5:
		return level, fmt.Sprintf("Sinh viên %s ít đăng nhập (%d lần). Nên nhắc nhở tham gia lớp học thường xuyên hơn.", m.Username, m.LoginCount)
	case score >= 8:
		return level, fmt.Sprintf("Sinh viên %s học tốt (%.1f). Có thể giao thêm bài tập nâng cao.", m.Username, score)
	default:
		return level, fmt.Sprintf("Sinh viên %s có tiến bộ tốt. Tiếp tục theo dõi và hỗ trợ.", m.Username)
	}
}

// SelfAdvice phrases a student's own situation back to them, with a
// concrete recommendation list per band.
func (a *AdvisorService) SelfAdvice(avg *float64, loginCount int) (model.RiskLevel, string, []string) {
	score := 0.0
	if avg != nil {
		score = *avg
	}
	level := a.ClassifyRisk(avg, loginCount)
	switch {
	case score < 5:
		return level,
			"Bạn nên ôn lại các chương cơ bản và làm thêm bài tập để cải thiện điểm số.",
			[]string{
				"Xem lại video bài giảng",
				"Làm thêm bài tập cơ bản",
				"Tham gia thảo luận nhóm",
				"Hỏi giảng viên khi gặp khó khăn",
			}
	case loginCount < 5:
		return level,
			"Bạn cần dành thêm thời gian học và đăng nhập thường xuyên hơn.",
			[]string{
				"Đặt lịch học cố định mỗi ngày",
				"Tham gia lớp học trực tuyến",
				"Tương tác với bạn học",
				"Sử dụng tính năng nhắc nhở",
			}
	case score >= 8:
		return level,
			"Bạn đang học rất tốt! Hãy tiếp tục phát huy và thử thách bản thân.",
			[]string{
				"Tham gia dự án nâng cao",
				"Giúp đỡ bạn học khác",
				"Khám phá chủ đề mở rộng",
				"Chuẩn bị cho kỳ thi cuối",
			}
	default:
		return level,
			"Bạn đang có tiến bộ tốt! Hãy tiếp tục cố gắng để đạt mục tiêu cao hơn.",
			[]string{
				"Tăng cường thời gian học",
				"Làm bài tập đều đặn",
				"Tham gia hoạt động nhóm",
				"Đặt mục tiêu cụ thể",
			}
	}
}

// InterventionSteps are the teacher-side follow-up actions for one
// student, keyed off the same bands as ClassifyRisk.
func (a *AdvisorService) InterventionSteps(avg *float64, loginCount int) []string {
	score := 0.0
	if avg != nil {
		score = *avg
	}
	switch {
	case score < 5:
		return []string{
			"Gặp riêng sinh viên để trao đổi",
			"Giao bài tập bổ sung",
			"Kiểm tra sự hiểu biết cơ bản",
			"Đề xuất học nhóm",
		}
	case loginCount < 5:
		return []string{
			"Gửi email nhắc nhở",
			"Kiểm tra lý do ít tham gia",
			"Đề xuất lịch học cố định",
			"Tạo động lực học tập",
		}
	case score >= 8:
		return []string{
			"Giao dự án nâng cao",
			"Đề xuất làm mentor cho bạn khác",
			"Khuyến khích tham gia cuộc thi",
			"Tạo cơ hội nghiên cứu",
		}
	default:
		return []string{
			"Duy trì động lực học tập",
			"Đề xuất mục tiêu cao hơn",
			"Khuyến khích tham gia hoạt động",
			"Theo dõi tiến độ định kỳ",
		}
	}
}

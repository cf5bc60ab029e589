package service

import (
	"context"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// FallbackModelName is reported in chat metadata whenever the answer
// did not come from the external model.
const FallbackModelName = "rule-based"

// ChatService orchestrates one chat turn: build the user's context,
// try the external AI exactly once, and fall back to the rule-based
// responder on any failure. The fallback path cannot fail, so a chat
// request always gets a non-empty answer.
type ChatService struct {
	Analytics *AnalyticsService
	Responder *ResponderService
	Gemini    *GeminiService
}

func NewChatService(analytics *AnalyticsService, responder *ResponderService, gemini *GeminiService) *ChatService {
	return &ChatService{
		Analytics: analytics,
		Responder: responder,
		Gemini:    gemini,
	}
}

// Ask answers one chat message for the given user.
func (s *ChatService) Ask(ctx context.Context, user *model.User, message string) (*model.ChatOutcome, error) {
	profileText, scores, err := s.contextFor(user)
	if err != nil {
		return nil, err
	}

	if s.Gemini.Configured() {
		answer, aiErr := s.Gemini.Generate(ctx, s.systemPrompt(user, profileText), s.userPrompt(message))
		if aiErr == nil {
			return &model.ChatOutcome{
				Text:         answer,
				UsedFallback: false,
				Model:        s.Gemini.Model(),
			}, nil
		}
		logger.Log.Warn("ai request failed, using fallback",
			zap.Uint("user_id", user.ID),
			zap.Error(aiErr))
		monitoring.ChatFallbackCounter.WithLabelValues("ai_error").Inc()
	} else {
		monitoring.ChatFallbackCounter.WithLabelValues("not_configured").Inc()
	}

	return &model.ChatOutcome{
		Text:         s.Responder.Respond(message, user.Role, scores),
		UsedFallback: true,
		Model:        FallbackModelName,
	}, nil
}

// contextFor builds the prompt context and the score numbers the
// fallback responder answers score questions from.
func (s *ChatService) contextFor(user *model.User) (string, ScoreContext, error) {
	if user.IsTeacher() {
		summary, err := s.Analytics.TeacherOverview(user.ID)
		if err != nil {
			return "", ScoreContext{}, err
		}
		return FormatProfileContext(summary.Fields()), ScoreContext{
			Average:       summary.AverageScore,
			TotalStudents: summary.TotalStudents,
		}, nil
	}

	profile, err := s.Analytics.StudentProfile(user.ID)
	if err != nil {
		return "", ScoreContext{}, err
	}
	return FormatProfileContext(profile.Fields()), ScoreContext{
		Average: profile.AverageScore,
	}, nil
}

func (s *ChatService) systemPrompt(user *model.User, profileText string) string {
	audience := "sinh viên"
	if user.IsTeacher() {
		audience = "giảng viên"
	}
	prompt := fmt.Sprintf("Bạn là trợ lý học tập bằng tiếng Việt cho %s. Hãy đưa ra lời khuyên ngắn gọn và thực tế.", audience)
	if profileText != "" {
		prompt += "\n\nThông tin người dùng:\n" + profileText
	}
	return prompt
}

func (s *ChatService) userPrompt(message string) string {
	return fmt.Sprintf("Câu hỏi: %s\n\nTrả lời:", message)
}

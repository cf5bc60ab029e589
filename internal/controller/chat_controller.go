package controller

import (
	"net/http"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatMeta struct {
	UsedFallback bool   `json:"usedFallback"`
	Model        string `json:"model,omitempty"`
}

type chatResponse struct {
	Response string   `json:"response"`
	Meta     chatMeta `json:"meta"`
}

// Chat godoc
// @Summary Ask the study assistant
// @Description Tries the external model once; any failure falls back to the rule-based responder, flagged in meta.usedFallback.
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body chatRequest true "Question"
// @Success 200 {object} chatResponse
// @Failure 400 {object} map[string]string
// @Router /api/ai/chat [post]
func (ctl *ChatController) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu nội dung câu hỏi."})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu nội dung câu hỏi."})
		return
	}

	claims := util.GetUserFromContext(c)
	user := &model.User{Role: claims.Role}
	user.ID = claims.UserID
	user.Username = claims.Username

	outcome, err := ctl.ChatService.Ask(c.Request.Context(), user, message)
	if err != nil {
		logger.Log.Error("chat request failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, chatResponse{
			Response: "Xin lỗi, hiện tại trợ lý AI chưa thể phản hồi. Vui lòng thử lại sau.",
			Meta:     chatMeta{UsedFallback: true, Model: service.FallbackModelName},
		})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Response: outcome.Text,
		Meta: chatMeta{
			UsedFallback: outcome.UsedFallback,
			Model:        outcome.Model,
		},
	})
}

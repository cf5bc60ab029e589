package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

type chatEnvelope struct {
	Response string `json:"response"`
	Meta     struct {
		UsedFallback bool   `json:"usedFallback"`
		Model        string `json:"model"`
	} `json:"meta"`
	Error string `json:"error"`
}

func newChatRouter(t *testing.T, aiCfg config.AIConfig) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	student := &model.User{Username: "student1", Password: "x", Role: model.Student}
	require.NoError(t, db.Create(student).Error)

	userRepo := repository.NewUserRepository(db)
	analytics := service.NewAnalyticsService(
		userRepo,
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewActivityLogRepository(db),
	)
	chatService := service.NewChatService(analytics, service.NewResponderService(), service.NewGeminiService(aiCfg))
	ctl := NewChatController(chatService)

	r := gin.New()
	r.POST("/api/ai/chat", func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: student.ID, Role: student.Role, Username: student.Username})
		c.Next()
	}, ctl.Chat)
	return r, db
}

func postChat(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	var aiCalls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&aiCalls, 1)
	}))
	defer server.Close()

	router, _ := newChatRouter(t, config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "k",
		Model:          "m",
		TimeoutSeconds: 5,
	})

	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"   "}`, `not json`} {
		w := postChat(router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)

		var envelope chatEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Equal(t, "Thiếu nội dung câu hỏi.", envelope.Error)
	}

	// An empty question never reaches the external model.
	assert.Zero(t, atomic.LoadInt64(&aiCalls))
}

func TestChatEndpointFallbackShape(t *testing.T) {
	router, _ := newChatRouter(t, config.AIConfig{TimeoutSeconds: 1})

	w := postChat(router, `{"message":"xin chào"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope chatEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Response)
	assert.True(t, envelope.Meta.UsedFallback)
	assert.Equal(t, "rule-based", envelope.Meta.Model)
}

func TestChatEndpointInternalErrorShape(t *testing.T) {
	router, db := newChatRouter(t, config.AIConfig{TimeoutSeconds: 1})

	// Breaking the submissions table makes context building fail, so
	// even the fallback path cannot answer.
	require.NoError(t, db.Migrator().DropTable(&model.Submission{}))

	w := postChat(router, `{"message":"xin chào"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var envelope chatEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Xin lỗi, hiện tại trợ lý AI chưa thể phản hồi. Vui lòng thử lại sau.", envelope.Response)
	assert.True(t, envelope.Meta.UsedFallback)
	assert.Equal(t, "rule-based", envelope.Meta.Model)
}

func TestChatEndpointExternalSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content":      map[string]interface{}{"parts": []map[string]string{{"text": "Chăm chỉ lên nhé."}}},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	router, _ := newChatRouter(t, config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "k",
		Model:          "gemini-test",
		TimeoutSeconds: 5,
	})

	w := postChat(router, `{"message":"học như thế nào?"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope chatEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Chăm chỉ lên nhé.", envelope.Response)
	assert.False(t, envelope.Meta.UsedFallback)
	assert.Equal(t, "gemini-test", envelope.Meta.Model)
}

package app

import (
	"time"

	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "lms_backend/docs"
)

func (a *App) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(security.CORS(a.Config.CORS.AllowedOrigins))
	r.Use(security.Secure())
	if a.Config.RateLimit.MaxRequests > 0 {
		window := time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute
		r.Use(security.RateLimiter(a.Config.RateLimit.MaxRequests, window))
	}
	if a.Config.Tracing.Enabled {
		r.Use(tracing.GinMiddleware())
	}
	r.Use(monitoring.MetricsMiddleware())

	r.GET("/health", a.Controllers.Health.Health)
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", a.Controllers.Auth.Register)
		auth.POST("/login", a.Controllers.Auth.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(a.Config.JWT.Secret))
	{
		authed.GET("/auth/me", a.Controllers.Auth.Me)

		authed.GET("/dashboard", a.Controllers.Dashboard.Counters)

		authed.GET("/courses", a.Controllers.Course.List)
		authed.GET("/courses/enrolled", a.Controllers.Course.MyCourses)
		authed.GET("/courses/:id", a.Controllers.Course.Get)
		authed.GET("/courses/:id/assignments", a.Controllers.Assignment.ListByCourse)
		authed.POST("/courses/:id/view", a.Controllers.Course.View)

		authed.GET("/submissions/mine", a.Controllers.Assignment.MySubmissions)
		authed.GET("/analytics/me", a.Controllers.Analytics.Personal)

		authed.POST("/ai/chat", a.Controllers.Chat.Chat)

		students := authed.Group("")
		students.Use(middleware.RoleMiddleware(model.Student))
		{
			students.POST("/courses/:id/enroll", a.Controllers.Course.Enroll)
			students.DELETE("/courses/:id/enroll", a.Controllers.Course.Unenroll)
			students.POST("/assignments/:id/submit", a.Controllers.Assignment.Submit)
			students.GET("/advisor/me", a.Controllers.Advisor.SelfAdvisory)
		}

		teachers := authed.Group("")
		teachers.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teachers.GET("/users", a.Controllers.User.List)
			teachers.GET("/users/:id", a.Controllers.User.Get)
			teachers.PUT("/users/:id", a.Controllers.User.Update)
			teachers.DELETE("/users/:id", a.Controllers.User.Delete)

			teachers.POST("/courses", a.Controllers.Course.Create)
			teachers.PUT("/courses/:id", a.Controllers.Course.Update)
			teachers.DELETE("/courses/:id", a.Controllers.Course.Delete)
			teachers.GET("/courses/:id/students", a.Controllers.Course.Roster)
			teachers.POST("/courses/:id/students", a.Controllers.Course.AddStudent)
			teachers.DELETE("/courses/:id/students/:sid", a.Controllers.Course.RemoveStudent)

			teachers.POST("/assignments", a.Controllers.Assignment.Create)
			teachers.PUT("/assignments/:id", a.Controllers.Assignment.Update)
			teachers.DELETE("/assignments/:id", a.Controllers.Assignment.Delete)
			teachers.GET("/assignments/:id/submissions", a.Controllers.Assignment.Submissions)
			teachers.POST("/submissions/:id/grade", a.Controllers.Grade.Grade)

			teachers.GET("/analytics/system", a.Controllers.Analytics.System)
			teachers.GET("/analytics/overview", a.Controllers.Analytics.Overview)
			teachers.GET("/analytics/users", a.Controllers.Analytics.UserStats)

			teachers.GET("/advisor/students", a.Controllers.Advisor.StudentTable)
			teachers.GET("/advisor/students/:id", a.Controllers.Advisor.StudentDetail)
		}
	}

	return r
}

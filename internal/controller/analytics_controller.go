package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Analytics *service.AnalyticsService
	Advisor   *service.AdvisorService
}

func NewAnalyticsController(analytics *service.AnalyticsService, advisor *service.AdvisorService) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics, Advisor: advisor}
}

// System godoc
// @Summary Platform-wide analytics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.SystemAnalytics}
// @Router /api/analytics/system [get]
func (ctl *AnalyticsController) System(c *gin.Context) {
	report, err := ctl.Analytics.SystemAnalytics()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, report)
}

// Personal godoc
// @Summary The caller's own analytics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.PersonalAnalytics}
// @Router /api/analytics/me [get]
func (ctl *AnalyticsController) Personal(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	report, err := ctl.Analytics.PersonalAnalytics(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, report)
}

// Overview godoc
// @Summary Cohort summary for the teacher's courses
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.CohortSummary}
// @Router /api/analytics/overview [get]
func (ctl *AnalyticsController) Overview(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	summary, err := ctl.Analytics.TeacherOverview(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, summary)
}

// UserStats godoc
// @Summary Per-user platform statistics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.UserStatRow}
// @Router /api/analytics/users [get]
func (ctl *AnalyticsController) UserStats(c *gin.Context) {
	rows, err := ctl.Analytics.UserStats(ctl.Advisor)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, rows)
}

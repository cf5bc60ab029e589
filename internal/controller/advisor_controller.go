package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdvisorController serves the risk and advice views built from the
// analytics aggregates.
type AdvisorController struct {
	Analytics *service.AnalyticsService
	Advisor   *service.AdvisorService
	Users     *service.UserService
}

func NewAdvisorController(analytics *service.AnalyticsService, advisor *service.AdvisorService, users *service.UserService) *AdvisorController {
	return &AdvisorController{Analytics: analytics, Advisor: advisor, Users: users}
}

// StudentTable godoc
// @Summary Advisory table over all students
// @Description One row per student with risk level and advice. Filterable by risk.
// @Tags advisor
// @Produce json
// @Security BearerAuth
// @Param risk query string false "Filter: high, medium or low"
// @Success 200 {object} util.Response{data=[]model.StudentRiskRow}
// @Router /api/advisor/students [get]
func (ctl *AdvisorController) StudentTable(c *gin.Context) {
	metrics, err := ctl.Analytics.AllStudentMetrics()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	filter := model.RiskLevel(c.Query("risk"))
	rows := make([]model.StudentRiskRow, 0, len(metrics))
	for _, m := range metrics {
		level, advice := ctl.Advisor.TeacherAdvice(m)
		if filter != "" && level != filter {
			continue
		}
		rows = append(rows, model.StudentRiskRow{
			StudentMetrics: m,
			Advice:         advice,
			RiskLevel:      level,
		})
	}
	util.Success(c, rows)
}

// StudentDetail godoc
// @Summary Drill-down advisory for one student
// @Tags advisor
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} util.Response{data=model.StudentDetail}
// @Failure 404 {object} util.Response
// @Router /api/advisor/students/{id} [get]
func (ctl *AdvisorController) StudentDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid student id")
		return
	}

	student, err := ctl.Users.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	if !student.IsStudent() {
		util.NotFound(c)
		return
	}

	metrics, err := ctl.Analytics.StudentMetricsFor(student)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	level, advice := ctl.Advisor.TeacherAdvice(metrics)
	util.Success(c, model.StudentDetail{
		StudentMetrics:  metrics,
		Advice:          advice,
		RiskLevel:       level,
		Recommendations: ctl.Advisor.InterventionSteps(metrics.AverageScore, metrics.LoginCount),
	})
}

// SelfAdvisory godoc
// @Summary The student's own advisory view
// @Tags advisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.SelfAdvisory}
// @Router /api/advisor/me [get]
func (ctl *AdvisorController) SelfAdvisory(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	profile, err := ctl.Analytics.StudentProfile(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	level, advice, recommendations := ctl.Advisor.SelfAdvice(profile.AverageScore, profile.LoginCount)
	util.Success(c, model.SelfAdvisory{
		LearningProfile: *profile,
		Advice:          advice,
		RiskLevel:       level,
		Recommendations: recommendations,
	})
}

package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Dashboard *service.DashboardService
}

func NewDashboardController(dashboard *service.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

// Counters godoc
// @Summary Headline platform counters
// @Description Cached for 60 seconds.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DashboardCounters}
// @Router /api/dashboard [get]
func (ctl *DashboardController) Counters(c *gin.Context) {
	counters, err := ctl.Dashboard.Counters(c.Request.Context())
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, counters)
}

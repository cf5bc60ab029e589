package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	AssignmentService *service.AssignmentService
}

func NewGradeController(assignmentService *service.AssignmentService) *GradeController {
	return &GradeController{AssignmentService: assignmentService}
}

type gradeRequest struct {
	Score *float64 `json:"score" binding:"required"`
}

// Grade godoc
// @Summary Grade a submission
// @Description Scores are on a 0-10 scale and rounded to one decimal.
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body gradeRequest true "Score"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response
// @Router /api/submissions/{id}/grade [post]
func (ctl *GradeController) Grade(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid submission id")
		return
	}

	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	submission, err := ctl.AssignmentService.Grade(claims.UserID, uint(id), *req.Score)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrScoreOutOfRange):
			util.BadRequest(c, err.Error())
		case errors.Is(err, util.ErrSubmissionNotFound), errors.Is(err, util.ErrAssignmentNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(c)
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, submission)
}

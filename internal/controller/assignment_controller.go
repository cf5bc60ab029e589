package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

type assignmentRequest struct {
	Title    string     `json:"title" binding:"required,max=200"`
	CourseID uint       `json:"courseId" binding:"required"`
	Deadline *time.Time `json:"deadline"`
}

// Create godoc
// @Summary Create an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body assignmentRequest true "Assignment details"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Router /api/assignments [post]
func (ctl *AssignmentController) Create(c *gin.Context) {
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	assignment, err := ctl.AssignmentService.Create(claims.UserID, req.CourseID, req.Title, req.Deadline)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Created(c, assignment)
}

// ListByCourse godoc
// @Summary List a course's assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/courses/{id}/assignments [get]
func (ctl *AssignmentController) ListByCourse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid course id")
		return
	}
	assignments, err := ctl.AssignmentService.ListByCourse(uint(id))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, assignments)
}

type assignmentUpdateRequest struct {
	Title    string     `json:"title" binding:"omitempty,max=200"`
	Deadline *time.Time `json:"deadline"`
}

// Update godoc
// @Summary Update an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body assignmentUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{id} [put]
func (ctl *AssignmentController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid assignment id")
		return
	}
	var req assignmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	assignment, err := ctl.AssignmentService.Update(claims.UserID, uint(id), req.Title, req.Deadline)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, assignment)
}

// Delete godoc
// @Summary Delete an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [delete]
func (ctl *AssignmentController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid assignment id")
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctl.AssignmentService.Delete(claims.UserID, uint(id)); err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, nil)
}

// Submit godoc
// @Summary Submit an assignment
// @Description Accepts an optional multipart file upload under the "file" field.
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param file formData file false "Submission file"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 413 {object} util.Response
// @Router /api/assignments/{id}/submit [post]
func (ctl *AssignmentController) Submit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid assignment id")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}
	if file != nil && file.Size > util.MaxUploadBytes {
		util.Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	claims := util.GetUserFromContext(c)
	submission, err := ctl.AssignmentService.Submit(c.Request.Context(), claims.UserID, uint(id), file)
	if err != nil {
		if errors.Is(err, util.ErrFileTypeNotAllowed) {
			util.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Forbidden(c)
			return
		}
		ctl.writeError(c, err)
		return
	}
	util.Created(c, submission)
}

// MySubmissions godoc
// @Summary The caller's submissions, newest first
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/submissions/mine [get]
func (ctl *AssignmentController) MySubmissions(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	submissions, err := ctl.AssignmentService.MySubmissions(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, submissions)
}

// Submissions godoc
// @Summary An assignment's submissions
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/assignments/{id}/submissions [get]
func (ctl *AssignmentController) Submissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid assignment id")
		return
	}
	claims := util.GetUserFromContext(c)
	submissions, err := ctl.AssignmentService.SubmissionsForAssignment(claims.UserID, uint(id))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, submissions)
}

func (ctl *AssignmentController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	default:
		util.LogInternalError(c, err)
	}
}

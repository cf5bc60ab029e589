package controller

import (
	"errors"
	"net/http"
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

type courseRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

func courseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid course id")
		return 0, false
	}
	return uint(id), true
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body courseRequest true "Course details"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/courses [post]
func (ctl *CourseController) Create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	course, err := ctl.CourseService.Create(claims.UserID, req.Name, req.Description)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, course)
}

// List godoc
// @Summary List courses
// @Description Teachers get the courses they own, students get the full catalog.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by name"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (ctl *CourseController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	if claims.Role == "teacher" {
		courses, err := ctl.CourseService.ListForTeacher(claims.UserID)
		if err != nil {
			util.LogInternalError(c, err)
			return
		}
		util.Success(c, courses)
		return
	}

	courses, err := ctl.CourseService.ListAll(c.Query("q"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, courses)
}

// Get godoc
// @Summary Get one course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (ctl *CourseController) Get(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	course, err := ctl.CourseService.GetByID(id)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, course)
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body courseRequest true "Course details"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [put]
func (ctl *CourseController) Update(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	course, err := ctl.CourseService.Update(claims.UserID, id, req.Name, req.Description)
	if err != nil {
		ctl.writeCourseError(c, err)
		return
	}
	util.Success(c, course)
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (ctl *CourseController) Delete(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctl.CourseService.Delete(claims.UserID, id); err != nil {
		ctl.writeCourseError(c, err)
		return
	}
	util.Success(c, nil)
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (ctl *CourseController) Enroll(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctl.CourseService.Enroll(claims.UserID, id); err != nil {
		if errors.Is(err, util.ErrAlreadyEnrolled) {
			util.Error(c, http.StatusConflict, err.Error())
			return
		}
		ctl.writeCourseError(c, err)
		return
	}
	util.Success(c, nil)
}

// Unenroll godoc
// @Summary Leave a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enroll [delete]
func (ctl *CourseController) Unenroll(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctl.CourseService.Unenroll(claims.UserID, id); err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Error(c, http.StatusConflict, err.Error())
			return
		}
		ctl.writeCourseError(c, err)
		return
	}
	util.Success(c, nil)
}

// MyCourses godoc
// @Summary Courses the student is enrolled in
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses/enrolled [get]
func (ctl *CourseController) MyCourses(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	courses, err := ctl.CourseService.EnrolledCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, courses)
}

// View godoc
// @Summary Record a material view
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/view [post]
func (ctl *CourseController) View(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctl.CourseService.RecordView(claims.UserID, id); err != nil {
		ctl.writeCourseError(c, err)
		return
	}
	util.Success(c, nil)
}

// Roster godoc
// @Summary Course roster with per-student averages
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]service.RosterEntry}
// @Router /api/courses/{id}/students [get]
func (ctl *CourseController) Roster(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	roster, err := ctl.CourseService.Roster(claims.UserID, id)
	if err != nil {
		ctl.writeCourseError(c, err)
		return
	}
	util.Success(c, roster)
}

type rosterRequest struct {
	StudentID uint `json:"studentId" binding:"required"`
}

// AddStudent godoc
// @Summary Enroll a student on the teacher's behalf
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body rosterRequest true "Student"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/courses/{id}/students [post]
func (ctl *CourseController) AddStudent(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctl.CourseService.AddStudent(claims.UserID, id, req.StudentID); err != nil {
		if errors.Is(err, util.ErrAlreadyEnrolled) {
			util.Error(c, http.StatusConflict, err.Error())
			return
		}
		ctl.writeCourseError(c, err)
		return
	}
	util.Success(c, nil)
}

// RemoveStudent godoc
// @Summary Drop a student from the course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param sid path int true "Student ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/students/{sid} [delete]
func (ctl *CourseController) RemoveStudent(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	sid, err := strconv.ParseUint(c.Param("sid"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid student id")
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctl.CourseService.RemoveStudent(claims.UserID, id, uint(sid)); err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Error(c, http.StatusConflict, err.Error())
			return
		}
		ctl.writeCourseError(c, err)
		return
	}
	util.Success(c, nil)
}

func (ctl *CourseController) writeCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	default:
		util.LogInternalError(c, err)
	}
}

package controller

import (
	"errors"
	"net/http"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param q query string false "Search by username"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users [get]
func (ctl *UserController) List(c *gin.Context) {
	users, err := ctl.UserService.List(c.Query("role"), c.Query("q"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, users)
}

// Get godoc
// @Summary Get one user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [get]
func (ctl *UserController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid user id")
		return
	}
	user, err := ctl.UserService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, user)
}

type userUpdateRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=student teacher"`
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body userUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [put]
func (ctl *UserController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid user id")
		return
	}
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	user, err := ctl.UserService.Update(uint(id), req.Username, req.Password, model.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrUsernameTaken):
			util.Error(c, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [delete]
func (ctl *UserController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid user id")
		return
	}
	if err := ctl.UserService.Delete(uint(id)); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

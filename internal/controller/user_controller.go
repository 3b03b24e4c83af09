package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-backoffice/internal/dto"
	"autoparts-backoffice/internal/middleware"
	"autoparts-backoffice/internal/model"
	"autoparts-backoffice/internal/service"
)

type UserController struct {
	Service *service.UserService
}

func NewUserController(s *service.UserService) *UserController {
	return &UserController{Service: s}
}

// PATCH /users/:userId — admin only. Actualización genérica que el panel
// reutiliza para aprobar/revocar distribuidores y cambiar roles.
func (ctl *UserController) PatchUser(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	session, _ := middleware.SessionFrom(c)
	ctx := c.Request.Context()

	var (
		u   *model.User
		err error
	)
	switch {
	case req.IsApproved != nil && *req.IsApproved:
		u, err = ctl.Service.Approve(ctx, session, userID)
	case req.IsApproved != nil:
		u, err = ctl.Service.Revoke(ctx, session, userID)
	case req.Role != nil:
		u, err = ctl.Service.ChangeRole(ctx, session, userID, model.Role(*req.Role))
	default:
		err = service.ErrEmptyPatch
	}

	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// GET /users — admin only, acepta ?role= para filtrar
func (ctl *UserController) ListUsers(c *gin.Context) {
	var role *model.Role
	if raw := c.Query("role"); raw != "" {
		r := model.Role(raw)
		role = &r
	}

	users, err := ctl.Service.List(c.Request.Context(), role)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, users)
}

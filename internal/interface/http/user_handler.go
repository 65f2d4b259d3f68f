package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/interface/middleware"
	"github.com/oksasatya/go-user-registration/pkg/apperror"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/response"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

const msgInvalidJSON = "Invalid JSON payload"

// UserService is the application API the handler drives.
type UserService interface {
	Register(ctx context.Context, in userapp.RegisterUserInput) (*entity.User, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
	UpdateUser(ctx context.Context, id int64, in userapp.UpdateUserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, id int64) (*entity.User, error)
}

type UserHandler struct {
	Svc    UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req userapp.RegisterUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, msgInvalidJSON, validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "register", err)
		return
	}
	response.Success(c, http.StatusCreated, userapp.ToUserResponse(u), "User registered successfully", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, "list users", err)
		return
	}
	res := userapp.ToUserResponses(users)
	response.Success(c, http.StatusOK, res, "Users retrieved successfully", map[string]any{"count": len(res)})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get user", err)
		return
	}
	response.Success(c, http.StatusOK, userapp.ToUserResponse(u), "User retrieved successfully", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	var req userapp.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, msgInvalidJSON, validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, "update user", err)
		return
	}
	response.Success(c, http.StatusOK, userapp.ToUserResponse(u), "User updated successfully", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	u, err := h.Svc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "delete user", err)
		return
	}
	response.Success(c, http.StatusOK, userapp.ToUserResponse(u), "User deleted successfully", nil)
}

// userID parses the :id path parameter. An id that cannot name a stored user
// is reported the same way as a missing one.
func (h *UserHandler) userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusNotFound, userapp.MsgUserNotFound, nil)
		return 0, false
	}
	return id, true
}

// fail writes the envelope for err. Internal errors are logged here with the
// request id; their detail never reaches the client.
func (h *UserHandler) fail(c *gin.Context, op string, err error) {
	if apperror.KindOf(err) == apperror.KindInternal {
		helpers.LogError(h.Logger, "request failed", err, logrus.Fields{
			"op":         op,
			"request_id": c.GetString(middleware.RequestIDKey),
		})
		_ = c.Error(err)
	}
	response.FromError(c, err)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/apiedpiper/task-api/internal/dto"
	apierrors "github.com/apiedpiper/task-api/internal/errors"
	"github.com/apiedpiper/task-api/internal/services"
	"github.com/apiedpiper/task-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// ListUsers returns users matching the where/sort/select/skip/limit query
// parameters, or just the matching count when count=true.
func (h *UserHandler) ListUsers(c *gin.Context) {
	opts := utils.ParseListOptions(c)

	if utils.WantsCount(c) {
		count, err := h.users.Count(opts.Where)
		if err != nil {
			apierrors.ServerError(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, dto.Envelope{Message: "OK", Data: count})
		return
	}

	users, err := h.users.List(opts)
	if err != nil {
		apierrors.ServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "OK", Data: users})
}

// GetUser returns a single user, honoring the select projection.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(id, utils.ParseListOptions(c).Select)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c)
			return
		}
		apierrors.ServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "OK", Data: user})
}

// CreateUser creates a new user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var payload dto.UserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.Create(userInput(payload))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{Message: "User created", Data: user})
}

// ReplaceUser overwrites a user with the supplied full document and
// reconciles task assignments against the new pendingTasks list.
func (h *UserHandler) ReplaceUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload dto.UserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.Replace(id, userInput(payload))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "OK", Data: user})
}

// DeleteUser removes a user; its tasks survive unassigned.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, dto.Envelope{Message: apierrors.MsgNoContent, Data: nil})
}

func (h *UserHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrUserNotFound) {
		apierrors.NotFound(c)
		return
	}
	apierrors.BadRequest(c, err.Error())
}

func userInput(payload dto.UserPayload) services.UserInput {
	return services.UserInput{
		Name:         payload.Name,
		Email:        payload.Email,
		PendingTasks: payload.PendingTasks,
	}
}

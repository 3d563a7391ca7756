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

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
	}
}

// ListTasks returns tasks matching the where/sort/select/skip/limit query
// parameters, or just the matching count when count=true.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	opts := utils.ParseListOptions(c)

	if utils.WantsCount(c) {
		count, err := h.tasks.Count(opts.Where)
		if err != nil {
			apierrors.ServerError(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, dto.Envelope{Message: "OK", Data: count})
		return
	}

	tasks, err := h.tasks.List(opts)
	if err != nil {
		apierrors.ServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "OK", Data: tasks})
}

// GetTask returns a single task, honoring the select projection.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(id, utils.ParseListOptions(c).Select)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c)
			return
		}
		apierrors.ServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "OK", Data: task})
}

// CreateTask creates a new task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var payload dto.TaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.Create(taskInput(payload))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{Message: "Task created", Data: task})
}

// ReplaceTask overwrites a task with the supplied full document.
func (h *TaskHandler) ReplaceTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload dto.TaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.Replace(id, taskInput(payload))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "OK", Data: task})
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, dto.Envelope{Message: apierrors.MsgNoContent, Data: nil})
}

// writeError maps service errors on write paths: missing targets are 404,
// everything else (validation, broken references, store rejections of bad
// input) is a client error.
func (h *TaskHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrTaskNotFound) {
		apierrors.NotFound(c)
		return
	}
	apierrors.BadRequest(c, err.Error())
}

func taskInput(payload dto.TaskPayload) services.TaskInput {
	return services.TaskInput{
		Name:             payload.Name,
		Description:      payload.Description,
		Deadline:         payload.Deadline,
		Completed:        payload.Completed,
		AssignedUser:     payload.AssignedUser,
		AssignedUserName: payload.AssignedUserName,
	}
}

package api

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/nibzard/tickoff/internal/todo"
)

// taskPayload is the POST /tasks/ body. Only types are checked.
type taskPayload struct {
	Title     *string `json:"title" binding:"required"`
	Deadline  *string `json:"deadline"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"created_at"`
}

// TaskHandler serves the task endpoints.
type TaskHandler struct {
	tasks  *todo.Manager
	logger *log.Logger
}

// NewTaskHandler returns a handler backed by tasks.
func NewTaskHandler(tasks *todo.Manager, logger *log.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// AddTask handles POST /tasks/.
func (h *TaskHandler) AddTask(c *gin.Context) {
	var p taskPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		h.logger.Warn("AddTask: invalid payload", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}

	t, err := h.tasks.AddTask(todo.Task{
		Title:     *p.Title,
		Deadline:  p.Deadline,
		Completed: p.Completed,
		CreatedAt: p.CreatedAt,
	})
	if err != nil {
		h.logger.Error("AddTask: failed to store task", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("AddTask: success", "id", t.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Task added successfully"})
}

// ListTasks handles GET /tasks/.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.tasks.List())
}

// CompleteTask handles PUT /tasks/:task_id/complete/. The parameter is a
// 1-based position or a task id. Unknown tasks still answer 200.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	ref := c.Param("task_id")

	var (
		done bool
		err  error
	)
	if position, convErr := strconv.Atoi(ref); convErr == nil {
		done, err = h.tasks.MarkComplete(position)
	} else {
		done, err = h.tasks.MarkCompleteByID(ref)
	}
	if err != nil {
		h.logger.Error("CompleteTask: failed to store task", "task", ref, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !done {
		h.logger.Debug("CompleteTask: not found", "task", ref)
		c.JSON(http.StatusOK, gin.H{"message": "ID not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task completed"})
}

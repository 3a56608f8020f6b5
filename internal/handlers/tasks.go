package handlers

import (
	"net/http"
	"strconv"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"` // pending | in-progress | completed
}

// Pointers distinguish "absent" from "set to empty".
type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// taskID parses the :id route parameter; writes a 400 on failure.
func (h *Handler) taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidTaskID})
		return 0, false
	}
	return id, true
}

// mustClaims fetches claims placed by the middleware; a miss means the
// route was wired without it.
func (h *Handler) mustClaims(c *gin.Context) (*service.Claims, bool) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing credentials"})
		return nil, false
	}
	return claims, true
}

// @Summary      List tasks
// @Description  Admins see every task; other users only their own. Newest first.
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   models.Task
// @Failure      401  {object}  map[string]string
// @Router       /api/tasks [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	claims, ok := h.mustClaims(c)
	if !ok {
		return
	}

	tasks, err := h.services.TaskManager.List(c.Request.Context(), claims)
	if err != nil {
		h.respondError(c, err, "tasks_list_failed", "user_id", claims.UserID)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	claims, ok := h.mustClaims(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.services.TaskManager.Get(c.Request.Context(), claims, id)
	if err != nil {
		h.respondError(c, err, "tasks_get_failed", "task_id", id, "user_id", claims.UserID)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body  createTaskRequest  true  "Task payload"
// @Success      201   {object}  map[string]interface{}  "message, task"
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Router       /api/tasks [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	claims, ok := h.mustClaims(c)
	if !ok {
		return
	}
	var input createTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	task, err := h.services.TaskManager.Create(c.Request.Context(), claims, service.CreateTaskInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	})
	if err != nil {
		h.respondError(c, err, "tasks_create_failed", "user_id", claims.UserID)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "task created",
		"task":    task,
	})
}

// @Summary      Update a task
// @Description  Partial update; only supplied fields change.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "Task ID"
// @Param        body  body  updateTaskRequest  true  "Fields to update"
// @Success      200   {object}  map[string]interface{}  "message, task"
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	claims, ok := h.mustClaims(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	var input updateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	task, err := h.services.TaskManager.Update(c.Request.Context(), claims, id, service.UpdateTaskInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	})
	if err != nil {
		h.respondError(c, err, "tasks_update_failed", "task_id", id, "user_id", claims.UserID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "task updated",
		"task":    task,
	})
}

// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	claims, ok := h.mustClaims(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.services.TaskManager.Delete(c.Request.Context(), claims, id); err != nil {
		h.respondError(c, err, "tasks_delete_failed", "task_id", id, "user_id", claims.UserID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

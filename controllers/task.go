package controllers

import (
	"errors"
	"net/http"

	"github.com/SamriekLeeuwin/righthand-ops-hub/db"
	"github.com/SamriekLeeuwin/righthand-ops-hub/forms"
	"github.com/SamriekLeeuwin/righthand-ops-hub/middleware"
	"github.com/gin-gonic/gin"
)

// TaskController is thin plumbing over the persistence collaborator.
type TaskController struct {
	db db.Database
}

func NewTaskController(db db.Database) *TaskController {
	return &TaskController{db: db}
}

// List returns the tasks of a project.
func (ctrl TaskController) List(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.db.GetProject(c.Request.Context(), projectID); errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Project not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	tasks, err := ctrl.db.ListTasks(c.Request.Context(), projectID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Create adds a task to a project in the todo status.
func (ctrl TaskController) Create(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var taskForm forms.CreateTaskForm
	if err := c.ShouldBindJSON(&taskForm); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "Task title is required"})
		return
	}

	if _, err := ctrl.db.GetProject(c.Request.Context(), projectID); errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Project not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	user, _ := middleware.CurrentUser(c)

	task, err := ctrl.db.CreateTask(c.Request.Context(), db.CreateTask{
		ProjectID: projectID,
		Title:     taskForm.Title,
		CreatorID: user.ID,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Task created", "task": task})
}

// UpdateStatus moves a task to one of the known statuses.
func (ctrl TaskController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var statusForm forms.UpdateTaskStatusForm
	if err := c.ShouldBindJSON(&statusForm); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "Status must be one of todo, in_progress, done"})
		return
	}

	task, err := ctrl.db.UpdateTaskStatus(c.Request.Context(), id, statusForm.Status)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Task not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated", "task": task})
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SamriekLeeuwin/righthand-ops-hub/db"
	"github.com/SamriekLeeuwin/righthand-ops-hub/forms"
	"github.com/SamriekLeeuwin/righthand-ops-hub/middleware"
	"github.com/gin-gonic/gin"
)

// ProjectController is thin plumbing over the persistence collaborator; all
// interesting decisions happen in the guards in front of it.
type ProjectController struct {
	db db.Database
}

func NewProjectController(db db.Database) *ProjectController {
	return &ProjectController{db: db}
}

// pathID parses a positive integer id from the named path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "Path id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// List returns projects. Anonymous callers only see public projects;
// authenticated callers see everything.
func (ctrl ProjectController) List(c *gin.Context) {
	_, authenticated := middleware.CurrentUser(c)

	projects, err := ctrl.db.ListProjects(c.Request.Context(), authenticated)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Get returns a single project by id.
func (ctrl ProjectController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := ctrl.db.GetProject(c.Request.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Project not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// Create opens a new project owned by the caller.
func (ctrl ProjectController) Create(c *gin.Context) {
	var projectForm forms.CreateProjectForm

	if err := c.ShouldBindJSON(&projectForm); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "Project name is required"})
		return
	}

	user, _ := middleware.CurrentUser(c)

	project, err := ctrl.db.CreateProject(c.Request.Context(), db.CreateProject{
		Name:        projectForm.Name,
		Description: projectForm.Description,
		Public:      projectForm.Public,
		OwnerID:     user.ID,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Project created", "project": project})
}

// Delete removes a project and its tasks.
func (ctrl ProjectController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := ctrl.db.DeleteProject(c.Request.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Project not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

package db

import (
	"context"
	"errors"

	"github.com/SamriekLeeuwin/righthand-ops-hub/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("db: not found")

// Database is the persistence collaborator for users, projects and tasks.
type Database interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	CreateUser(ctx context.Context, user CreateUser) (models.User, error)
	// TouchLastLogin stamps last_login and updated_at with the current time.
	TouchLastLogin(ctx context.Context, id int64) error

	ListProjects(ctx context.Context, includePrivate bool) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	CreateProject(ctx context.Context, project CreateProject) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	ListTasks(ctx context.Context, projectID int64) ([]models.Task, error)
	CreateTask(ctx context.Context, task CreateTask) (models.Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status string) (models.Task, error)
}

type CreateUser struct {
	Email   string
	PwdHash string
	Role    string
}

type CreateProject struct {
	Name        string
	Description string
	Public      bool
	OwnerID     int64
}

type CreateTask struct {
	ProjectID int64
	Title     string
	CreatorID int64
}

package forms

// CreateProjectForm contains the fields required to open a new project.
type CreateProjectForm struct {
	Name        string `form:"name" json:"name" binding:"required,min=1,max=120"`
	Description string `form:"description" json:"description" binding:"max=2000"`
	Public      bool   `form:"public" json:"public"`
}

// CreateTaskForm contains the fields required to add a task to a project.
type CreateTaskForm struct {
	Title string `form:"title" json:"title" binding:"required,min=1,max=200"`
}

// UpdateTaskStatusForm moves a task to one of the known statuses.
type UpdateTaskStatusForm struct {
	Status string `form:"status" json:"status" binding:"required,taskstatus"`
}

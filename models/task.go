package models

// Task statuses form a flat set, no workflow engine behind them.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type Task struct {
	ID        int64 `json:"id" bson:"_id"`
	CreatedAt int64 `json:"createdAt" bson:"created_at"`
	UpdatedAt int64 `json:"-" bson:"updated_at"`

	ProjectID int64  `json:"projectId" bson:"project_id"`
	Title     string `json:"title" bson:"title"`
	Status    string `json:"status" bson:"status"`
	CreatorID int64  `json:"creatorId" bson:"creator_id"`
}

package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SamriekLeeuwin/righthand-ops-hub/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// verify MongoDB implements the database interface at compile time
var _ Database = (*MongoDB)(nil)

const (
	userColl    = "users"
	projectColl = "projects"
	taskColl    = "tasks"
	counterColl = "counters"
)

type MongoDB struct {
	client *mongo.Client
	db     string
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, conn string, db string) (*MongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conn))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return &MongoDB{client: client, db: db}, nil
}

// Close disconnects the underlying client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.db).Collection(name)
}

// nextID allocates the next sequential id for the named collection from the
// counters collection. Ids start at 1.
func (m *MongoDB) nextID(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := m.collection(counterColl).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq, nil
}

func (m *MongoDB) CreateUser(ctx context.Context, user CreateUser) (models.User, error) {
	id, err := m.nextID(ctx, userColl)
	if err != nil {
		slog.Error("failed to allocate user id", "error", err)
		return models.User{}, err
	}

	now := time.Now().Unix()
	dbuser := models.User{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Email:     normalizeEmail(user.Email),
		Role:      user.Role,
		Password:  user.PwdHash,
	}

	if _, err := m.collection(userColl).InsertOne(ctx, dbuser); err != nil {
		slog.Error("failed to insert user", "error", err)
		return models.User{}, err
	}

	return dbuser, nil
}

func (m *MongoDB) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *MongoDB) FindByEmail(ctx context.Context, email string) (user models.User, err error) {
	err = m.collection(userColl).FindOne(ctx, bson.D{{Key: "email", Value: normalizeEmail(email)}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, ErrNotFound
	}
	return user, err
}

func (m *MongoDB) FindByID(ctx context.Context, id int64) (user models.User, err error) {
	err = m.collection(userColl).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, ErrNotFound
	}
	return user, err
}

func (m *MongoDB) TouchLastLogin(ctx context.Context, id int64) error {
	now := time.Now().Unix()
	result, err := m.collection(userColl).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "last_login", Value: now},
			{Key: "updated_at", Value: now},
		}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoDB) ListProjects(ctx context.Context, includePrivate bool) ([]models.Project, error) {
	filter := bson.D{}
	if !includePrivate {
		filter = bson.D{{Key: "public", Value: true}}
	}

	cursor, err := m.collection(projectColl).Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (m *MongoDB) GetProject(ctx context.Context, id int64) (project models.Project, err error) {
	err = m.collection(projectColl).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return project, ErrNotFound
	}
	return project, err
}

func (m *MongoDB) CreateProject(ctx context.Context, project CreateProject) (models.Project, error) {
	id, err := m.nextID(ctx, projectColl)
	if err != nil {
		slog.Error("failed to allocate project id", "error", err)
		return models.Project{}, err
	}

	now := time.Now().Unix()
	dbproject := models.Project{
		ID:          id,
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        project.Name,
		Description: project.Description,
		Public:      project.Public,
		OwnerID:     project.OwnerID,
	}

	if _, err := m.collection(projectColl).InsertOne(ctx, dbproject); err != nil {
		slog.Error("failed to insert project", "error", err)
		return models.Project{}, err
	}

	return dbproject, nil
}

func (m *MongoDB) DeleteProject(ctx context.Context, id int64) error {
	result, err := m.collection(projectColl).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	// tasks of a deleted project go with it
	if _, err := m.collection(taskColl).DeleteMany(ctx, bson.D{{Key: "project_id", Value: id}}); err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	cursor, err := m.collection(taskColl).Find(ctx, bson.D{{Key: "project_id", Value: projectID}})
	if err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (m *MongoDB) CreateTask(ctx context.Context, task CreateTask) (models.Task, error) {
	id, err := m.nextID(ctx, taskColl)
	if err != nil {
		slog.Error("failed to allocate task id", "error", err)
		return models.Task{}, err
	}

	now := time.Now().Unix()
	dbtask := models.Task{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		ProjectID: task.ProjectID,
		Title:     task.Title,
		Status:    models.TaskStatusTodo,
		CreatorID: task.CreatorID,
	}

	if _, err := m.collection(taskColl).InsertOne(ctx, dbtask); err != nil {
		slog.Error("failed to insert task", "error", err)
		return models.Task{}, err
	}

	return dbtask, nil
}

func (m *MongoDB) UpdateTaskStatus(ctx context.Context, id int64, status string) (task models.Task, err error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = m.collection(taskColl).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "updated_at", Value: time.Now().Unix()},
		}}},
		opts,
	).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return task, ErrNotFound
	}
	return task, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

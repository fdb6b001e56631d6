package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SamriekLeeuwin/righthand-ops-hub/db"
	"github.com/SamriekLeeuwin/righthand-ops-hub/models"
)

// fakeStore is an in-memory db.Database for tests.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

var _ db.Database = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]models.User{}}
}

func (f *fakeStore) addUser(user models.User) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	} else if user.ID > f.nextID {
		f.nextID = user.ID
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	if err == db.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == strings.ToLower(strings.TrimSpace(email)) {
			return user, nil
		}
	}
	return models.User{}, db.ErrNotFound
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, db.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user db.CreateUser) (models.User, error) {
	return f.addUser(models.User{
		CreatedAt: time.Now().Unix(),
		Email:     strings.ToLower(strings.TrimSpace(user.Email)),
		Role:      user.Role,
		Password:  user.PwdHash,
	}), nil
}

func (f *fakeStore) TouchLastLogin(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return db.ErrNotFound
	}
	user.LastLogin = time.Now().Unix()
	f.users[id] = user
	return nil
}

func (f *fakeStore) ListProjects(context.Context, bool) ([]models.Project, error) {
	return nil, nil
}

func (f *fakeStore) GetProject(context.Context, int64) (models.Project, error) {
	return models.Project{}, db.ErrNotFound
}

func (f *fakeStore) CreateProject(context.Context, db.CreateProject) (models.Project, error) {
	return models.Project{}, nil
}

func (f *fakeStore) DeleteProject(context.Context, int64) error {
	return db.ErrNotFound
}

func (f *fakeStore) ListTasks(context.Context, int64) ([]models.Task, error) {
	return nil, nil
}

func (f *fakeStore) CreateTask(context.Context, db.CreateTask) (models.Task, error) {
	return models.Task{}, nil
}

func (f *fakeStore) UpdateTaskStatus(context.Context, int64, string) (models.Task, error) {
	return models.Task{}, db.ErrNotFound
}

// fakeKV is an in-memory counter store, expiry ignored.
type fakeKV struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeKV() *fakeKV {
	return &fakeKV{counters: map[string]int64{}}
}

func (f *fakeKV) Incr(key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeKV) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count, ok := f.counters[key]
	if !ok {
		return "", errors.New("kv: miss")
	}
	return strconv.FormatInt(count, 10), nil
}

func (f *fakeKV) Del(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.counters, key)
	return nil
}

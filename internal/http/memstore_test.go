package http

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Adama-mariko/notejour/internal/model"
)

// errCheckViolation mirrors the tasks table constraint: a validated task keeps
// statut 'validé' and its validation date.
var errCheckViolation = errors.New("tasks check constraint violated")

// memStore backs handler tests without postgres. It mirrors the repository
// semantics, pgx.ErrNoRows and the validation check constraint included.
type memStore struct {
	mu         sync.Mutex
	nextUserID int64
	nextTaskID int64
	users      map[int64]model.User
	tasks      map[int64]model.Task
}

func newMemStore() *memStore {
	return &memStore{
		nextUserID: 1,
		nextTaskID: 1,
		users:      make(map[int64]model.User),
		tasks:      make(map[int64]model.Task),
	}
}

func (m *memStore) CreateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	user.ID = m.nextUserID
	m.nextUserID++
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return model.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, pgx.ErrNoRows
}

func (m *memStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) TelephoneExists(_ context.Context, telephone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Telephone == telephone {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]model.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *memStore) ListUsersByRole(_ context.Context, role string) ([]model.User, error) {
	all, _ := m.ListUsers(context.Background())
	var users []model.User
	for _, user := range all {
		if strings.EqualFold(user.Role, role) {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *memStore) CreateTask(_ context.Context, task model.Task) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	task.ID = m.nextTaskID
	m.nextTaskID++
	task.CreatedAt = now
	task.UpdatedAt = now
	m.tasks[task.ID] = task
	return m.withOwner(task), nil
}

func (m *memStore) GetTask(_ context.Context, taskID int64) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return model.Task{}, pgx.ErrNoRows
	}
	return m.withOwner(task), nil
}

func (m *memStore) ListTasks(_ context.Context) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]model.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, m.withOwner(task))
	}
	sortTasksNewestFirst(tasks)
	return tasks, nil
}

func (m *memStore) ListTasksByUser(_ context.Context, userID int64) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var tasks []model.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			tasks = append(tasks, m.withOwner(task))
		}
	}
	sortTasksNewestFirst(tasks)
	return tasks, nil
}

func (m *memStore) UpdateTask(_ context.Context, taskID int64, update model.TaskUpdate) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return model.Task{}, pgx.ErrNoRows
	}
	if update.Titre != nil {
		task.Titre = *update.Titre
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Statut != nil {
		task.Statut = *update.Statut
	}
	if task.ValideParAdmin && (task.Statut != model.StatusValidated || task.DateValidation == nil) {
		return model.Task{}, errCheckViolation
	}
	task.UpdatedAt = time.Now().UTC()
	m.tasks[taskID] = task
	return m.withOwner(task), nil
}

func (m *memStore) SetTaskStatus(_ context.Context, taskID int64, statut string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return model.Task{}, pgx.ErrNoRows
	}
	task.Statut = statut
	if task.ValideParAdmin && task.Statut != model.StatusValidated {
		return model.Task{}, errCheckViolation
	}
	task.UpdatedAt = time.Now().UTC()
	m.tasks[taskID] = task
	return m.withOwner(task), nil
}

func (m *memStore) SetTaskNote(_ context.Context, taskID int64, note string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return model.Task{}, pgx.ErrNoRows
	}
	task.NoteUtilisateur = &note
	task.UpdatedAt = time.Now().UTC()
	m.tasks[taskID] = task
	return m.withOwner(task), nil
}

func (m *memStore) ValidateTask(_ context.Context, taskID int64, validatedAt time.Time) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return model.Task{}, pgx.ErrNoRows
	}
	task.Statut = model.StatusValidated
	task.ValideParAdmin = true
	task.DateValidation = &validatedAt
	task.UpdatedAt = time.Now().UTC()
	m.tasks[taskID] = task
	return m.withOwner(task), nil
}

func (m *memStore) DeleteTask(_ context.Context, taskID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[taskID]; !ok {
		return false, nil
	}
	delete(m.tasks, taskID)
	return true, nil
}

func (m *memStore) withOwner(task model.Task) model.Task {
	if owner, ok := m.users[task.UserID]; ok {
		task.User = &owner
	}
	return task
}

func sortTasksNewestFirst(tasks []model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

package app

import (
	"context"
	"errors"
	"time"

	"todolist/internal/domain"
)

// ErrTaskNotFound indicates that a task does not exist for the requesting user.
var ErrTaskNotFound = errors.New("task not found")

// TaskService encapsulates owner-scoped task use cases.
type TaskService struct {
	repo domain.TaskRepository
	now  func() time.Time
}

// NewTaskService creates a TaskService backed by the given repository.
func NewTaskService(repo domain.TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

// List returns the owner's tasks matching q.
func (s *TaskService) List(ctx context.Context, ownerID int64, q domain.TaskQuery) ([]domain.Task, error) {
	if q.Top < 0 {
		q.Top = 0
	}
	return s.repo.ListTasks(ctx, ownerID, q)
}

// Create validates in and stores a new task, returning its ID.
func (s *TaskService) Create(ctx context.Context, ownerID int64, in domain.TaskInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return s.repo.CreateTask(ctx, ownerID, in, s.now())
}

// Get returns a task owned by ownerID. Tasks of other owners are reported as
// ErrTaskNotFound, the same as missing ones.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.OwnerID != ownerID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// Update overwrites the editable fields of the owner's task. Updating a task
// that does not exist or belongs to someone else is a silent no-op.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID int64, in domain.TaskInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateTask(ctx, ownerID, taskID, in)
}

// Delete removes the owner's task if present.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID int64) error {
	return s.repo.DeleteTask(ctx, ownerID, taskID)
}

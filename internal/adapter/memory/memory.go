// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"todolist/internal/domain"
)

// DB implements an in-memory database storage. Tasks are kept in insertion
// order, which is also ascending ID order.
type DB struct {
	mu    sync.Mutex
	users []*domain.User
	tasks []domain.Task

	userIDCounter int64
	taskIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Close is a no-op; it lets the in-memory store stand in for the SQL stores.
func (db *DB) Close() error {
	return nil
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.TaskRepository = (*DB)(nil)

// --- UserRepository ---

// GetByLogin retrieves a user by login.
func (db *DB) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Login == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateUser creates a new user.
func (db *DB) CreateUser(ctx context.Context, login, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Login == login {
			return nil, domain.ErrDuplicateUser
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Login:        login,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// --- TaskRepository ---

// ListTasks returns the owner's tasks matching q.
func (db *DB) ListTasks(ctx context.Context, ownerID int64, q domain.TaskQuery) ([]domain.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Task, 0)
	for _, t := range db.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if q.Search != "" && !strings.Contains(t.Title, q.Search) && !strings.Contains(t.Description, q.Search) {
			continue
		}
		result = append(result, t)
	}

	if q.Top > 0 {
		// stable, so equal priorities keep storage order
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Priority > result[j].Priority
		})
		if len(result) > q.Top {
			result = result[:q.Top]
		}
		return result, nil
	}

	slices.SortFunc(result, func(a, b domain.Task) int {
		c := q.Order.Compare(a, b)
		if q.Reverse {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})
	return result, nil
}

// CreateTask adds a task and returns its ID.
func (db *DB) CreateTask(ctx context.Context, ownerID int64, in domain.TaskInput, createdAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.taskIDCounter++
	id := db.taskIDCounter

	db.tasks = append(db.tasks, domain.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedAt:   createdAt.UTC(),
		OwnerID:     ownerID,
	})
	return id, nil
}

// GetTask retrieves a task by ID regardless of owner.
func (db *DB) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, t := range db.tasks {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

// UpdateTask overwrites the editable fields of a task owned by ownerID.
func (db *DB) UpdateTask(ctx context.Context, ownerID, id int64, in domain.TaskInput) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.tasks {
		t := &db.tasks[i]
		if t.ID == id && t.OwnerID == ownerID {
			t.Title = in.Title
			t.Description = in.Description
			t.Status = in.Status
			t.Priority = in.Priority
			return nil
		}
	}
	return nil
}

// DeleteTask removes a task owned by ownerID.
func (db *DB) DeleteTask(ctx context.Context, ownerID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, t := range db.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			db.tasks = append(db.tasks[:i], db.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"todolist/internal/adapter/memory"
	"todolist/internal/domain"
)

type mockTaskRepo struct {
	listFn   func(ctx context.Context, ownerID int64, q domain.TaskQuery) ([]domain.Task, error)
	createFn func(ctx context.Context, ownerID int64, in domain.TaskInput, createdAt time.Time) (int64, error)
	getFn    func(ctx context.Context, id int64) (*domain.Task, error)
	updateFn func(ctx context.Context, ownerID, id int64, in domain.TaskInput) error
	deleteFn func(ctx context.Context, ownerID, id int64) error
}

func (m *mockTaskRepo) ListTasks(ctx context.Context, ownerID int64, q domain.TaskQuery) ([]domain.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID, q)
	}
	return nil, nil
}

func (m *mockTaskRepo) CreateTask(ctx context.Context, ownerID int64, in domain.TaskInput, createdAt time.Time) (int64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, in, createdAt)
	}
	return 1, nil
}

func (m *mockTaskRepo) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTaskRepo) UpdateTask(ctx context.Context, ownerID, id int64, in domain.TaskInput) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ownerID, id, in)
	}
	return nil
}

func (m *mockTaskRepo) DeleteTask(ctx context.Context, ownerID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, id)
	}
	return nil
}

func TestTaskService_List_ClampsTop(t *testing.T) {
	var got domain.TaskQuery
	repo := &mockTaskRepo{
		listFn: func(ctx context.Context, ownerID int64, q domain.TaskQuery) ([]domain.Task, error) {
			got = q
			return nil, nil
		},
	}
	svc := NewTaskService(repo)
	if _, err := svc.List(context.Background(), 1, domain.TaskQuery{Top: -4, Search: "x"}); err != nil {
		t.Fatal(err)
	}
	if got.Top != 0 || got.Search != "x" {
		t.Errorf("query passed to repo = %+v", got)
	}
}

func TestTaskService_Create(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var stamped time.Time
	repo := &mockTaskRepo{
		createFn: func(ctx context.Context, ownerID int64, in domain.TaskInput, createdAt time.Time) (int64, error) {
			if ownerID != 7 {
				t.Errorf("ownerID = %d; want 7", ownerID)
			}
			stamped = createdAt
			return 42, nil
		},
	}
	svc := NewTaskService(repo)
	svc.now = func() time.Time { return fixed }

	id, err := svc.Create(context.Background(), 7, domain.TaskInput{Title: "t", Priority: domain.PriorityHigh})
	if err != nil {
		t.Fatal(err)
	}
	if id != 42 {
		t.Errorf("id = %d; want 42", id)
	}
	if !stamped.Equal(fixed) {
		t.Errorf("createdAt = %v; want %v", stamped, fixed)
	}
}

func TestTaskService_RejectsInvalidInput(t *testing.T) {
	called := false
	repo := &mockTaskRepo{
		createFn: func(context.Context, int64, domain.TaskInput, time.Time) (int64, error) {
			called = true
			return 0, nil
		},
		updateFn: func(context.Context, int64, int64, domain.TaskInput) error {
			called = true
			return nil
		},
	}
	svc := NewTaskService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, domain.TaskInput{Status: 5}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Create err = %v; want ErrInvalidStatus", err)
	}
	if err := svc.Update(ctx, 1, 1, domain.TaskInput{Priority: 3}); !errors.Is(err, domain.ErrInvalidPriority) {
		t.Errorf("Update err = %v; want ErrInvalidPriority", err)
	}
	if called {
		t.Error("repository reached with invalid input")
	}
}

func TestTaskService_Get(t *testing.T) {
	boom := errors.New("boom")
	repo := &mockTaskRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Task, error) {
			switch id {
			case 1:
				return &domain.Task{ID: 1, OwnerID: 10, Title: "mine"}, nil
			case 2:
				return &domain.Task{ID: 2, OwnerID: 20, Title: "theirs"}, nil
			case 3:
				return nil, boom
			}
			return nil, nil
		},
	}
	svc := NewTaskService(repo)
	ctx := context.Background()

	task, err := svc.Get(ctx, 10, 1)
	if err != nil || task.Title != "mine" {
		t.Fatalf("Get own task = %+v, %v", task, err)
	}
	if _, err := svc.Get(ctx, 10, 2); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("other owner's task: err = %v; want ErrTaskNotFound", err)
	}
	if _, err := svc.Get(ctx, 10, 99); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("missing task: err = %v; want ErrTaskNotFound", err)
	}
	if _, err := svc.Get(ctx, 10, 3); !errors.Is(err, boom) {
		t.Errorf("store error: err = %v; want boom", err)
	}
}

func TestTaskService_WithMemoryStore(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(memory.New())

	const alice, bob = 1, 2
	in := func(title string, p domain.Priority) domain.TaskInput {
		return domain.TaskInput{Title: title, Status: domain.StatusWaiting, Priority: p}
	}
	for _, tc := range []struct {
		title string
		p     domain.Priority
	}{
		{"a", domain.PriorityLow},
		{"b", domain.PriorityHigh},
		{"c", domain.PriorityMedium},
		{"d", domain.PriorityHigh},
	} {
		if _, err := svc.Create(ctx, alice, in(tc.title, tc.p)); err != nil {
			t.Fatal(err)
		}
	}
	bobID, _ := svc.Create(ctx, bob, in("bob's", domain.PriorityHigh))

	top, err := svc.List(ctx, alice, domain.TaskQuery{Top: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].Title != "b" || top[1].Title != "d" {
		t.Fatalf("top 2 = %+v; want b, d", top)
	}

	// Another owner's task can be neither changed nor removed.
	if err := svc.Update(ctx, alice, bobID, in("hijacked", domain.PriorityLow)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, alice, bobID); err != nil {
		t.Fatal(err)
	}
	task, err := svc.Get(ctx, bob, bobID)
	if err != nil {
		t.Fatalf("bob's task disappeared: %v", err)
	}
	if task.Title != "bob's" {
		t.Errorf("bob's task title = %q", task.Title)
	}

	// Updating or deleting a missing task is not an error.
	if err := svc.Update(ctx, alice, 999, in("x", domain.PriorityLow)); err != nil {
		t.Errorf("update missing: %v", err)
	}
	if err := svc.Delete(ctx, alice, 999); err != nil {
		t.Errorf("delete missing: %v", err)
	}

	list, _ := svc.List(ctx, alice, domain.TaskQuery{})
	if len(list) != 4 {
		t.Errorf("alice has %d tasks; want 4", len(list))
	}
}

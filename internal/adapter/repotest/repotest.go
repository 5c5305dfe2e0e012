// Package repotest holds a behavioural test suite shared by every storage
// adapter.
package repotest

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"todolist/internal/domain"
)

// Store is the full set of ports a storage adapter implements.
type Store interface {
	domain.UserRepository
	domain.TaskRepository
}

// Run exercises newStore with the shared suite. newStore must return an empty
// store for every call.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("TopPriority", func(t *testing.T) { testTopPriority(t, newStore(t)) })
	t.Run("Ordering", func(t *testing.T) { testOrdering(t, newStore(t)) })
	t.Run("Search", func(t *testing.T) { testSearch(t, newStore(t)) })
	t.Run("OwnerScope", func(t *testing.T) { testOwnerScope(t, newStore(t)) })
	t.Run("UpdateDelete", func(t *testing.T) { testUpdateDelete(t, newStore(t)) })
}

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mustUser(t *testing.T, s Store, login string) *domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), login, "hash-"+login)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", login, err)
	}
	return u
}

func mustTask(t *testing.T, s Store, owner int64, title, desc string, p domain.Priority, at time.Time) int64 {
	t.Helper()
	id, err := s.CreateTask(context.Background(), owner, domain.TaskInput{
		Title: title, Description: desc, Status: domain.StatusWaiting, Priority: p,
	}, at)
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", title, err)
	}
	return id
}

func ids(tasks []domain.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func list(t *testing.T, s Store, owner int64, q domain.TaskQuery) []domain.Task {
	t.Helper()
	tasks, err := s.ListTasks(context.Background(), owner, q)
	if err != nil {
		t.Fatalf("ListTasks(%+v): %v", q, err)
	}
	return tasks
}

func testUsers(t *testing.T, s Store) {
	ctx := context.Background()

	missing, err := s.GetByLogin(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetByLogin: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown login, got %+v", missing)
	}

	first := mustUser(t, s, "alice")
	if first.ID == 0 || first.Login != "alice" || first.PasswordHash != "hash-alice" {
		t.Fatalf("unexpected user: %+v", first)
	}

	_, err = s.CreateUser(ctx, "alice", "other-hash")
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	got, err := s.GetByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByLogin: %v", err)
	}
	if got == nil || got.ID != first.ID || got.PasswordHash != "hash-alice" {
		t.Fatalf("first user changed after duplicate insert: %+v", got)
	}

	// Lookup is exact.
	if u, _ := s.GetByLogin(ctx, "Alice"); u != nil {
		t.Fatalf("expected no match for different case, got %+v", u)
	}
}

func testTopPriority(t *testing.T, s Store) {
	u := mustUser(t, s, "alice")
	prios := []domain.Priority{
		domain.PriorityLow, domain.PriorityHigh, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityLow,
	}
	var created []int64
	for i, p := range prios {
		created = append(created, mustTask(t, s, u.ID, "task", "", p, base.Add(time.Duration(i)*time.Minute)))
	}

	got := list(t, s, u.ID, domain.TaskQuery{Top: 3})
	want := []int64{created[1], created[3], created[2]}
	if !slices.Equal(ids(got), want) {
		t.Fatalf("top 3 = %v; want %v", ids(got), want)
	}

	// Order and Reverse are ignored when Top is set.
	got = list(t, s, u.ID, domain.TaskQuery{Top: 3, Order: domain.OrderByTitle, Reverse: true})
	if !slices.Equal(ids(got), want) {
		t.Fatalf("top 3 with order = %v; want %v", ids(got), want)
	}

	got = list(t, s, u.ID, domain.TaskQuery{Top: 10})
	want = []int64{created[1], created[3], created[2], created[0], created[4]}
	if !slices.Equal(ids(got), want) {
		t.Fatalf("top 10 = %v; want %v", ids(got), want)
	}
}

func testOrdering(t *testing.T, s Store) {
	u := mustUser(t, s, "alice")
	a := mustTask(t, s, u.ID, "banana", "", domain.PriorityMedium, base.Add(2*time.Minute))
	b := mustTask(t, s, u.ID, "apple", "", domain.PriorityHigh, base)
	c := mustTask(t, s, u.ID, "cherry", "", domain.PriorityMedium, base.Add(time.Minute))

	tests := []struct {
		name string
		q    domain.TaskQuery
		want []int64
	}{
		{"default id", domain.TaskQuery{}, []int64{a, b, c}},
		{"id reverse", domain.TaskQuery{Order: domain.OrderByID, Reverse: true}, []int64{c, b, a}},
		{"title", domain.TaskQuery{Order: domain.OrderByTitle}, []int64{b, a, c}},
		{"title reverse", domain.TaskQuery{Order: domain.OrderByTitle, Reverse: true}, []int64{c, a, b}},
		{"date", domain.TaskQuery{Order: domain.OrderByCreatedAt}, []int64{b, c, a}},
		{"date reverse", domain.TaskQuery{Order: domain.OrderByCreatedAt, Reverse: true}, []int64{a, c, b}},
		{"priority ties by id", domain.TaskQuery{Order: domain.OrderByPriority}, []int64{a, c, b}},
		{"priority reverse", domain.TaskQuery{Order: domain.OrderByPriority, Reverse: true}, []int64{b, a, c}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := list(t, s, u.ID, tc.q)
			if !slices.Equal(ids(got), tc.want) {
				t.Fatalf("ListTasks(%+v) = %v; want %v", tc.q, ids(got), tc.want)
			}
		})
	}

	// Title reverse is strictly descending.
	got := list(t, s, u.ID, domain.TaskQuery{Order: domain.OrderByTitle, Reverse: true})
	for i := 1; i < len(got); i++ {
		if got[i-1].Title <= got[i].Title {
			t.Fatalf("titles not strictly descending at %d: %q, %q", i, got[i-1].Title, got[i].Title)
		}
	}
}

func testSearch(t *testing.T, s Store) {
	u := mustUser(t, s, "alice")
	milk := mustTask(t, s, u.ID, "Buy milk", "from the shop", domain.PriorityLow, base)
	call := mustTask(t, s, u.ID, "Call mom", "ask about milk recipes", domain.PriorityHigh, base.Add(time.Minute))
	mustTask(t, s, u.ID, "Fix bike", "tyre", domain.PriorityHigh, base.Add(2*time.Minute))
	pct := mustTask(t, s, u.ID, "Pay 100%", "", domain.PriorityMedium, base.Add(3*time.Minute))

	tests := []struct {
		name string
		q    domain.TaskQuery
		want []int64
	}{
		{"title or description", domain.TaskQuery{Search: "milk"}, []int64{milk, call}},
		{"case sensitive", domain.TaskQuery{Search: "MILK"}, []int64{}},
		{"title match", domain.TaskQuery{Search: "Call"}, []int64{call}},
		{"no wildcard", domain.TaskQuery{Search: "%"}, []int64{pct}},
		{"underscore literal", domain.TaskQuery{Search: "_"}, []int64{}},
		{"with order", domain.TaskQuery{Search: "milk", Order: domain.OrderByTitle, Reverse: true}, []int64{call, milk}},
		{"with top", domain.TaskQuery{Search: "milk", Top: 1}, []int64{call}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := list(t, s, u.ID, tc.q)
			if !slices.Equal(ids(got), tc.want) {
				t.Fatalf("ListTasks(%+v) = %v; want %v", tc.q, ids(got), tc.want)
			}
		})
	}
}

func testOwnerScope(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	aliceTask := mustTask(t, s, alice.ID, "alice task", "shared word", domain.PriorityHigh, base)
	mustTask(t, s, bob.ID, "bob task", "shared word", domain.PriorityHigh, base)

	for _, q := range []domain.TaskQuery{{}, {Top: 5}, {Search: "shared"}} {
		got := list(t, s, alice.ID, q)
		if !slices.Equal(ids(got), []int64{aliceTask}) {
			t.Fatalf("alice ListTasks(%+v) = %v; want only %d", q, ids(got), aliceTask)
		}
	}

	if got := list(t, s, 9999, domain.TaskQuery{}); len(got) != 0 {
		t.Fatalf("unknown owner sees %d tasks", len(got))
	}

	// GetTask is not owner scoped.
	task, err := s.GetTask(ctx, aliceTask)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task == nil || task.OwnerID != alice.ID || task.Title != "alice task" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if !task.CreatedAt.Equal(base) {
		t.Fatalf("CreatedAt = %v; want %v", task.CreatedAt, base)
	}

	missing, err := s.GetTask(ctx, 424242)
	if err != nil {
		t.Fatalf("GetTask missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing task, got %+v", missing)
	}
}

func testUpdateDelete(t *testing.T, s Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner")
	other := mustUser(t, s, "other")
	id := mustTask(t, s, owner.ID, "original", "desc", domain.PriorityLow, base)

	edit := domain.TaskInput{Title: "hijacked", Description: "x", Status: domain.StatusDone, Priority: domain.PriorityHigh}
	if err := s.UpdateTask(ctx, other.ID, id, edit); err != nil {
		t.Fatalf("UpdateTask by non-owner returned error: %v", err)
	}
	task, _ := s.GetTask(ctx, id)
	if task == nil || task.Title != "original" || task.Status != domain.StatusWaiting {
		t.Fatalf("non-owner update mutated task: %+v", task)
	}

	if err := s.UpdateTask(ctx, owner.ID, 424242, edit); err != nil {
		t.Fatalf("UpdateTask missing returned error: %v", err)
	}

	edit.Title = "renamed"
	if err := s.UpdateTask(ctx, owner.ID, id, edit); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	task, _ = s.GetTask(ctx, id)
	if task == nil || task.Title != "renamed" || task.Description != "x" ||
		task.Status != domain.StatusDone || task.Priority != domain.PriorityHigh {
		t.Fatalf("owner update not applied: %+v", task)
	}
	if !task.CreatedAt.Equal(base) || task.OwnerID != owner.ID {
		t.Fatalf("update changed immutable fields: %+v", task)
	}

	if err := s.DeleteTask(ctx, owner.ID, 424242); err != nil {
		t.Fatalf("DeleteTask missing returned error: %v", err)
	}
	if err := s.DeleteTask(ctx, other.ID, id); err != nil {
		t.Fatalf("DeleteTask by non-owner returned error: %v", err)
	}
	if task, _ := s.GetTask(ctx, id); task == nil {
		t.Fatal("non-owner delete removed the task")
	}

	if err := s.DeleteTask(ctx, owner.ID, id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if task, _ := s.GetTask(ctx, id); task != nil {
		t.Fatalf("task still present after delete: %+v", task)
	}
	if err := s.DeleteTask(ctx, owner.ID, id); err != nil {
		t.Fatalf("second DeleteTask returned error: %v", err)
	}
}

package domain

import (
	"cmp"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidStatus indicates a status code outside the known set.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrInvalidPriority indicates a priority code outside the known set.
	ErrInvalidPriority = errors.New("invalid task priority")
)

// Status is the progress state of a task. The integer values are the stored
// representation.
type Status int

const (
	StatusWaiting Status = iota
	StatusInProgress
	StatusDone
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusWaiting && s <= StatusDone
}

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "WAITING"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusDone:
		return "DONE"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// ParseStatus accepts either the integer code or the name of a status.
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if s := Status(n); s.Valid() {
			return s, nil
		}
		return 0, ErrInvalidStatus
	}
	for s := StatusWaiting; s <= StatusDone; s++ {
		if strings.EqualFold(v, s.String()) {
			return s, nil
		}
	}
	return 0, ErrInvalidStatus
}

// Priority ranks tasks; higher values are more urgent.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	}
	return "Priority(" + strconv.Itoa(int(p)) + ")"
}

// ParsePriority accepts either the integer code or the name of a priority.
// "MED" is accepted as a short form of MEDIUM.
func ParsePriority(v string) (Priority, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if p := Priority(n); p.Valid() {
			return p, nil
		}
		return 0, ErrInvalidPriority
	}
	if strings.EqualFold(v, "MED") {
		return PriorityMedium, nil
	}
	for p := PriorityLow; p <= PriorityHigh; p++ {
		if strings.EqualFold(v, p.String()) {
			return p, nil
		}
	}
	return 0, ErrInvalidPriority
}

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     int64     `json:"ownerId"`
}

// TaskInput carries the user-editable fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
}

// Validate checks the enumerated fields.
func (in TaskInput) Validate() error {
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if !in.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// OrderField selects the sort key for task listings.
type OrderField int

const (
	OrderByID OrderField = iota
	OrderByTitle
	OrderByCreatedAt
	OrderByPriority
)

// ParseOrderField maps a query value to an OrderField. Unknown values fall
// back to OrderByID.
func ParseOrderField(v string) OrderField {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "title":
		return OrderByTitle
	case "date", "createdat", "created_at":
		return OrderByCreatedAt
	case "priority":
		return OrderByPriority
	default:
		return OrderByID
	}
}

func (f OrderField) String() string {
	switch f {
	case OrderByTitle:
		return "title"
	case OrderByCreatedAt:
		return "date"
	case OrderByPriority:
		return "priority"
	default:
		return "id"
	}
}

// Compare orders a and b by the field alone, ascending. Callers break ties
// on ID.
func (f OrderField) Compare(a, b Task) int {
	switch f {
	case OrderByTitle:
		return strings.Compare(a.Title, b.Title)
	case OrderByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case OrderByPriority:
		return cmp.Compare(a.Priority, b.Priority)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

// TaskQuery describes a task listing.
//
// When Top is positive, Order and Reverse are ignored and at most Top tasks are
// returned by descending priority, ties in storage (ID) order. Search keeps
// only tasks whose title or description contains it as a case-sensitive
// substring; it is applied before Top.
type TaskQuery struct {
	Order   OrderField
	Reverse bool
	Search  string
	Top     int
}

// TaskRepository is the port for task persistence. Every method except
// GetTask is scoped to the owning user.
type TaskRepository interface {
	ListTasks(ctx context.Context, ownerID int64, q TaskQuery) ([]Task, error)
	CreateTask(ctx context.Context, ownerID int64, in TaskInput, createdAt time.Time) (int64, error)
	GetTask(ctx context.Context, id int64) (*Task, error)
	UpdateTask(ctx context.Context, ownerID, id int64, in TaskInput) error
	DeleteTask(ctx context.Context, ownerID, id int64) error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"todolist/internal/domain"
)

const taskColumns = "id, title, description, status, priority, created_at, owner_id"

// orderClause maps the query to a fixed ORDER BY list. Titles compare
// byte-wise so every adapter agrees on ordering.
func orderClause(q domain.TaskQuery) string {
	if q.Top > 0 {
		return "priority DESC, id ASC"
	}
	dir := "ASC"
	if q.Reverse {
		dir = "DESC"
	}
	switch q.Order {
	case domain.OrderByTitle:
		return `title COLLATE "C" ` + dir + ", id ASC"
	case domain.OrderByCreatedAt:
		return "created_at " + dir + ", id ASC"
	case domain.OrderByPriority:
		return "priority " + dir + ", id ASC"
	default:
		return "id " + dir
	}
}

// ListTasks returns the owner's tasks matching q.
func (d *DB) ListTasks(ctx context.Context, ownerID int64, q domain.TaskQuery) ([]domain.Task, error) {
	var b strings.Builder
	args := []any{ownerID}

	b.WriteString("SELECT " + taskColumns + " FROM tasks WHERE owner_id = $1")
	if q.Search != "" {
		args = append(args, q.Search)
		n := strconv.Itoa(len(args))
		b.WriteString(" AND (strpos(title, $" + n + ") > 0 OR strpos(description, $" + n + ") > 0)")
	}
	b.WriteString(" ORDER BY " + orderClause(q))
	if q.Top > 0 {
		args = append(args, q.Top)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}

	rows, err := d.sql.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.CreatedAt, &t.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTask inserts a new task.
func (d *DB) CreateTask(ctx context.Context, ownerID int64, in domain.TaskInput, createdAt time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO tasks(title, description, status, priority, created_at, owner_id) VALUES($1, $2, $3, $4, $5, $6) RETURNING id;",
		in.Title, in.Description, int(in.Status), int(in.Priority), createdAt.UTC(), ownerID,
	).Scan(&id)
	return id, err
}

// GetTask retrieves a task by ID regardless of owner.
func (d *DB) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := d.sql.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1", id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.CreatedAt, &t.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask overwrites the editable fields of a task, scoped to its owner.
func (d *DB) UpdateTask(ctx context.Context, ownerID, id int64, in domain.TaskInput) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE tasks SET title=$1, description=$2, status=$3, priority=$4 WHERE id=$5 AND owner_id=$6;",
		in.Title, in.Description, int(in.Status), int(in.Priority), id, ownerID,
	)
	return err
}

// DeleteTask removes a task by ID, scoped to its owner.
func (d *DB) DeleteTask(ctx context.Context, ownerID, id int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM tasks WHERE id=$1 AND owner_id=$2;", id, ownerID)
	return err
}

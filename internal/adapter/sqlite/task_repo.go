package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"todolist/internal/domain"
)

const taskColumns = "id, title, description, status, priority, created_at, owner_id"

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (domain.Task, error) {
	var (
		t         domain.Task
		createdAt int64
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &createdAt, &t.OwnerID); err != nil {
		return domain.Task{}, err
	}
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

// orderClause maps the query to a fixed ORDER BY list.
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
		return "title " + dir + ", id ASC"
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

	b.WriteString("SELECT " + taskColumns + " FROM tasks WHERE owner_id = ?")
	if q.Search != "" {
		// instr is case-sensitive and has no wildcards, unlike LIKE
		b.WriteString(" AND (instr(title, ?) > 0 OR instr(description, ?) > 0)")
		args = append(args, q.Search, q.Search)
	}
	b.WriteString(" ORDER BY " + orderClause(q))
	if q.Top > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Top)
	}

	rows, err := d.sql.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTask inserts a new task.
func (d *DB) CreateTask(ctx context.Context, ownerID int64, in domain.TaskInput, createdAt time.Time) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO tasks(title, description, status, priority, created_at, owner_id) VALUES(?, ?, ?, ?, ?, ?)",
		in.Title, in.Description, int(in.Status), int(in.Priority), toMillis(createdAt), ownerID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTask retrieves a task by ID regardless of owner.
func (d *DB) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(d.sql.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
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
		"UPDATE tasks SET title=?, description=?, status=?, priority=? WHERE id=? AND owner_id=?",
		in.Title, in.Description, int(in.Status), int(in.Priority), id, ownerID,
	)
	return err
}

// DeleteTask removes a task by ID, scoped to its owner.
func (d *DB) DeleteTask(ctx context.Context, ownerID, id int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM tasks WHERE id=? AND owner_id=?", id, ownerID)
	return err
}

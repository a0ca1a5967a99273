package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
	"github.com/BuzzLyutic/mileapp-task-api/internal/query"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

const taskColumns = `id, title, description, status, priority, to_char(due_date, 'YYYY-MM-DD'), user_id, created_at, updated_at`

// Поля сортировки API -> выражения SQL. COLLATE "C" дает побайтовое
// сравнение строк, как в in-memory реализации.
var sortColumns = map[string]string{
	"id":          "id",
	"title":       `title COLLATE "C"`,
	"description": `description COLLATE "C"`,
	"status":      `status COLLATE "C"`,
	"priority":    `priority COLLATE "C"`,
	"dueDate":     "due_date",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"userId":      "user_id",
}

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, user_id)
		VALUES ($1, $2, $3, $4, $5::date, $6)
		RETURNING `+taskColumns,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.UserID)

	created, err := scanTask(row)
	return created, mapError(err)
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context, q model.TaskQuery) (model.TaskPage, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = query.DefaultPage
	}
	if limit < 1 {
		limit = query.DefaultLimit
	}

	where, args := buildWhere(q.Filter)
	orderBy := buildOrderBy(q.Sort)

	// count и страница читаются из одного снимка
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return model.TaskPage{}, err
	}
	defer tx.Rollback(ctx)

	var total int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE `+where, args...).Scan(&total); err != nil {
		return model.TaskPage{}, fmt.Errorf("count tasks: %w", err)
	}

	offset := int64(page-1) * int64(limit)
	pageArgs := append(args, limit, offset)
	rows, err := tx.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM tasks WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, orderBy, len(args)+1, len(args)+2,
	), pageArgs...)
	if err != nil {
		return model.TaskPage{}, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	// limit приходит от клиента, емкость ограничена числом строк
	tasks := make([]model.Task, 0, min(limit, total))
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return model.TaskPage{}, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return model.TaskPage{}, err
	}

	return model.TaskPage{
		Tasks: tasks,
		Meta:  model.NewPageMeta(page, limit, total),
	}, tx.Commit(ctx)
}

func (r *TaskRepo) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($2::text, title),
			description = COALESCE($3::text, description),
			status = COALESCE($4::text, status),
			priority = COALESCE($5::text, priority),
			due_date = CASE WHEN $6::bool THEN $7::date ELSE due_date END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns,
		id, patch.Title, patch.Description, patch.Status, patch.Priority,
		patch.DueDate.Set, patch.DueDate.Value)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, mapError(err)
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) GetStats(ctx context.Context, ownerID *int64) (model.Stats, error) {
	var s model.Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'in-progress'),
			count(*) FILTER (WHERE status = 'completed'),
			count(*) FILTER (WHERE priority = 'high')
		FROM tasks
		WHERE ($1::bigint IS NULL OR user_id = $1)
	`, ownerID).Scan(&s.Total, &s.Pending, &s.InProgress, &s.Completed, &s.HighPriority)
	return s, err
}

// buildWhere повторяет порядок фильтров query.Filter: владелец всегда первым.
func buildWhere(f model.TaskFilter) (string, []any) {
	conds := []string{"TRUE"}
	args := make([]any, 0, 4)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.OwnerID != nil {
		conds = append(conds, "user_id = "+next(*f.OwnerID))
	}
	if f.Status != nil {
		conds = append(conds, "status = "+next(*f.Status))
	}
	if f.Priority != nil {
		conds = append(conds, "priority = "+next(*f.Priority))
	}
	if f.Search != "" {
		p := next(f.Search)
		conds = append(conds, fmt.Sprintf(
			"(strpos(lower(title), lower(%[1]s)) > 0 OR strpos(lower(description), lower(%[1]s)) > 0)", p))
	}
	return strings.Join(conds, " AND "), args
}

func buildOrderBy(s model.SortSpec) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		return "id"
	}
	if s.Desc {
		return col + " DESC NULLS LAST, id"
	}
	return col + " ASC NULLS FIRST, id"
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ErrorConflict
		}
	}
	return err
}

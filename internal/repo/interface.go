package repo

import (
	"context"

	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами.
// Проверка владельца - забота вызывающего, репозиторий ее не делает.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context, q model.TaskQuery) (model.TaskPage, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	// ownerID == nil - статистика по всем задачам
	GetStats(ctx context.Context, ownerID *int64) (model.Stats, error)
}

// UserRepository хранит пользователей; email уникален.
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

package repo

import (
	"context"
	"sync"
	"time"

	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
	"github.com/BuzzLyutic/mileapp-task-api/internal/query"
)

// MemoryTaskRepo - хранилище задач в памяти процесса.
// Записи отдаются наружу только копиями.
type MemoryTaskRepo struct {
	mu     sync.RWMutex
	tasks  map[int64]model.Task
	order  []int64
	nextID int64
	now    func() time.Time
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{
		tasks:  make(map[int64]model.Task),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryTaskRepo) Create(_ context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.nextID
	r.nextID++

	now := r.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.DueDate = cloneString(t.DueDate)

	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	return copyTask(t), nil
}

func (r *MemoryTaskRepo) Get(_ context.Context, id int64) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	return copyTask(t), nil
}

func (r *MemoryTaskRepo) List(_ context.Context, q model.TaskQuery) (model.TaskPage, error) {
	r.mu.RLock()
	snapshot := make([]model.Task, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, copyTask(r.tasks[id]))
	}
	r.mu.RUnlock()

	return query.Apply(snapshot, q), nil
}

func (r *MemoryTaskRepo) Update(_ context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrorNotFound
	}

	updated := patch.Apply(current)
	updated.ID = current.ID
	updated.UserID = current.UserID
	updated.CreatedAt = current.CreatedAt
	updated.DueDate = cloneString(updated.DueDate)
	updated.UpdatedAt = r.now()

	r.tasks[id] = updated
	return copyTask(updated), nil
}

func (r *MemoryTaskRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrorNotFound
	}
	delete(r.tasks, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryTaskRepo) GetStats(_ context.Context, ownerID *int64) (model.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s model.Stats
	for _, t := range r.tasks {
		if ownerID != nil && t.UserID != *ownerID {
			continue
		}
		s.Add(t)
	}
	return s, nil
}

// MemoryUserRepo - пользователи в памяти, уникальность email по точному совпадению.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	users   map[int64]model.User
	byEmail map[string]int64
	nextID  int64
	now     func() time.Time
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		users:   make(map[int64]model.User),
		byEmail: make(map[string]int64),
		nextID:  1,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryUserRepo) Create(_ context.Context, u model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return model.User{}, ErrorConflict
	}

	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = r.now()

	r.users[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *MemoryUserRepo) Get(_ context.Context, id int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return model.User{}, ErrorNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, ErrorNotFound
	}
	return r.users[id], nil
}

func copyTask(t model.Task) model.Task {
	t.DueDate = cloneString(t.DueDate)
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

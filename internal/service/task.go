package service

import (
	"context"
	"strings"
	"time"

	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
	"github.com/BuzzLyutic/mileapp-task-api/internal/query"
	"github.com/BuzzLyutic/mileapp-task-api/internal/repo"
)

// TaskInput - тело запроса на создание задачи.
type TaskInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, in TaskInput) (model.Task, error) {
	t := model.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		UserID:      ownerID,
	}
	// Значения по умолчанию
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.DueDate != nil && *t.DueDate == "" {
		t.DueDate = nil
	}

	if strings.TrimSpace(t.Title) == "" {
		return t, invalid("title", "Title is required")
	}
	if err := validateStatus(&t.Status); err != nil {
		return t, err
	}
	if err := validatePriority(&t.Priority); err != nil {
		return t, err
	}
	due, err := normalizeDueDate(t.DueDate)
	if err != nil {
		return t, err
	}
	t.DueDate = due

	return s.repo.Create(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, callerID, id int64) (model.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return t, err
	}
	if t.UserID != callerID {
		return model.Task{}, ErrForbidden
	}
	return t, nil
}

// List всегда ограничивает выборку задачами вызывающего.
func (s *TaskService) List(ctx context.Context, callerID int64, q model.TaskQuery) (model.TaskPage, error) {
	q.Filter.OwnerID = &callerID

	if err := validateStatus(q.Filter.Status); err != nil {
		return model.TaskPage{}, err
	}
	if err := validatePriority(q.Filter.Priority); err != nil {
		return model.TaskPage{}, err
	}
	if q.Sort.Field != "" && !query.SortableField(q.Sort.Field) {
		return model.TaskPage{}, invalid("sortBy", "Invalid sort field: "+q.Sort.Field)
	}
	if q.Page < 1 {
		q.Page = query.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = query.DefaultLimit
	}

	return s.repo.List(ctx, q)
}

func (s *TaskService) Update(ctx context.Context, callerID, id int64, patch model.TaskPatch) (model.Task, error) {
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return model.Task{}, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Task{}, invalid("title", "Title cannot be empty")
	}
	if err := validateStatus(patch.Status); err != nil {
		return model.Task{}, err
	}
	if err := validatePriority(patch.Priority); err != nil {
		return model.Task{}, err
	}
	if patch.DueDate.Set {
		if patch.DueDate.Value != nil && *patch.DueDate.Value == "" {
			patch.DueDate.Value = nil
		}
		due, err := normalizeDueDate(patch.DueDate.Value)
		if err != nil {
			return model.Task{}, err
		}
		patch.DueDate.Value = due
	}

	return s.repo.Update(ctx, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, callerID, id int64) error {
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) GetStats(ctx context.Context, callerID int64) (model.Stats, error) {
	return s.repo.GetStats(ctx, &callerID)
}

func validateStatus(status *string) error {
	if status != nil && !model.ValidStatus(*status) {
		return invalid("status", "Status must be one of: pending, in-progress, completed")
	}
	return nil
}

func validatePriority(priority *string) error {
	if priority != nil && !model.ValidPriority(*priority) {
		return invalid("priority", "Priority must be one of: low, medium, high")
	}
	return nil
}

// normalizeDueDate принимает YYYY-MM-DD или RFC 3339 и возвращает YYYY-MM-DD.
func normalizeDueDate(due *string) (*string, error) {
	if due == nil {
		return nil, nil
	}
	if d, err := time.Parse(time.DateOnly, *due); err == nil {
		v := d.Format(time.DateOnly)
		return &v, nil
	}
	if ts, err := time.Parse(time.RFC3339, *due); err == nil {
		v := ts.Format(time.DateOnly)
		return &v, nil
	}
	return nil, invalid("dueDate", "Due date must be an ISO date (YYYY-MM-DD)")
}

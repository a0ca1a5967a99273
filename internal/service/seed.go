package service

import (
	"context"
	"errors"
	"fmt"
)

type demoTask struct {
	title, description, status, priority, due string
}

var demoTasks = []demoTask{
	{"Setup Project", "Initialize project with all dependencies", "completed", "high", "2025-09-25"},
	{"Design Database Schema", "Create database schema design", "in-progress", "high", "2025-09-28"},
	{"Implement Authentication", "Add JWT-based authentication", "pending", "medium", "2025-10-01"},
	{"Create Task CRUD", "Build complete CRUD operations", "pending", "high", "2025-10-02"},
	{"Frontend Development", "Build Vue.js frontend", "pending", "medium", "2025-10-05"},
}

// SeedDemo создает демо-пользователей и задачи администратора.
// Повторный запуск не создает дубликатов пользователей.
func SeedDemo(ctx context.Context, creds *CredentialStore, tasks *TaskService) error {
	admin, err := creds.Create(ctx, "admin@mileapp.com", "admin123", "Admin User")
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, err := creds.Create(ctx, "user@mileapp.com", "user123", "Regular User"); err != nil && !errors.Is(err, ErrDuplicateEmail) {
		return fmt.Errorf("seed user: %w", err)
	}

	for _, d := range demoTasks {
		due := d.due
		if _, err := tasks.Create(ctx, admin.ID, TaskInput{
			Title:       d.title,
			Description: d.description,
			Status:      d.status,
			Priority:    d.priority,
			DueDate:     &due,
		}); err != nil {
			return fmt.Errorf("seed task %q: %w", d.title, err)
		}
	}
	return nil
}

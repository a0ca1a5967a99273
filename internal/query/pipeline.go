package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type compareFunc func(a, b model.Task) int

var comparators = map[string]compareFunc{
	"id":          func(a, b model.Task) int { return cmp.Compare(a.ID, b.ID) },
	"title":       func(a, b model.Task) int { return strings.Compare(a.Title, b.Title) },
	"description": func(a, b model.Task) int { return strings.Compare(a.Description, b.Description) },
	"status":      func(a, b model.Task) int { return strings.Compare(a.Status, b.Status) },
	"priority":    func(a, b model.Task) int { return strings.Compare(a.Priority, b.Priority) },
	"dueDate":     compareDueDate,
	"createdAt":   func(a, b model.Task) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt":   func(a, b model.Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"userId":      func(a, b model.Task) int { return cmp.Compare(a.UserID, b.UserID) },
}

// null раньше любой даты
func compareDueDate(a, b model.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return -1
	case b.DueDate == nil:
		return 1
	}
	return strings.Compare(*a.DueDate, *b.DueDate)
}

// SortableField сообщает, можно ли сортировать по полю.
func SortableField(field string) bool {
	_, ok := comparators[field]
	return ok
}

// Apply runs filter, sort and paginate over tasks, in that order.
// The input slice is not modified.
func Apply(tasks []model.Task, q model.TaskQuery) model.TaskPage {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	filtered := Filter(tasks, q.Filter)
	Sort(filtered, q.Sort)

	total := len(filtered)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	out := make([]model.Task, end-start)
	copy(out, filtered[start:end])

	return model.TaskPage{
		Tasks: out,
		Meta:  model.NewPageMeta(page, limit, total),
	}
}

// Filter returns a new slice of the tasks matching f. The owner check
// runs first whenever OwnerID is set.
func Filter(tasks []model.Task, f model.TaskFilter) []model.Task {
	search := strings.ToLower(f.Search)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.OwnerID != nil && t.UserID != *f.OwnerID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort orders tasks in place. Unknown or empty fields leave the order as is.
func Sort(tasks []model.Task, s model.SortSpec) {
	compare, ok := comparators[s.Field]
	if !ok {
		return
	}
	slices.SortStableFunc(tasks, func(a, b model.Task) int {
		if s.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

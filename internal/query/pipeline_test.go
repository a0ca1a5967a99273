package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
)

func ptr[T any](v T) *T { return &v }

func fixture() []model.Task {
	base := time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: 1, Title: "Setup Project", Description: "Initialize project", Status: "completed", Priority: "high", DueDate: ptr("2025-09-25"), UserID: 1, CreatedAt: base},
		{ID: 2, Title: "Design Schema", Description: "Create MongoDB schema design", Status: "in-progress", Priority: "high", DueDate: ptr("2025-09-28"), UserID: 1, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "Implement Auth", Description: "Add JWT-based authentication", Status: "pending", Priority: "medium", UserID: 1, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Title: "Create Task CRUD", Description: "Build complete CRUD operations", Status: "pending", Priority: "high", DueDate: ptr("2025-10-02"), UserID: 1, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 5, Title: "Frontend", Description: "Build Vue.js frontend", Status: "pending", Priority: "low", DueDate: ptr("2025-10-05"), UserID: 2, CreatedAt: base.Add(4 * time.Hour)},
	}
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApply_Filters(t *testing.T) {
	tests := []struct {
		name    string
		filter  model.TaskFilter
		wantIDs []int64
	}{
		{
			name:    "owner only",
			filter:  model.TaskFilter{OwnerID: ptr(int64(1))},
			wantIDs: []int64{1, 2, 3, 4},
		},
		{
			name:    "owner with no tasks",
			filter:  model.TaskFilter{OwnerID: ptr(int64(42))},
			wantIDs: []int64{},
		},
		{
			name:    "no owner returns everything",
			filter:  model.TaskFilter{},
			wantIDs: []int64{1, 2, 3, 4, 5},
		},
		{
			name:    "status",
			filter:  model.TaskFilter{OwnerID: ptr(int64(1)), Status: ptr("pending")},
			wantIDs: []int64{3, 4},
		},
		{
			name:    "priority",
			filter:  model.TaskFilter{OwnerID: ptr(int64(1)), Priority: ptr("high")},
			wantIDs: []int64{1, 2, 4},
		},
		{
			name:    "status and priority",
			filter:  model.TaskFilter{OwnerID: ptr(int64(1)), Status: ptr("pending"), Priority: ptr("high")},
			wantIDs: []int64{4},
		},
		{
			name:    "search in title is case-insensitive",
			filter:  model.TaskFilter{OwnerID: ptr(int64(1)), Search: "sETUP"},
			wantIDs: []int64{1},
		},
		{
			name:    "search in description",
			filter:  model.TaskFilter{OwnerID: ptr(int64(1)), Search: "jwt"},
			wantIDs: []int64{3},
		},
		{
			name:    "search never crosses owner boundary",
			filter:  model.TaskFilter{OwnerID: ptr(int64(1)), Search: "vue"},
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Apply(fixture(), model.TaskQuery{Filter: tt.filter})
			assert.Equal(t, tt.wantIDs, ids(page.Tasks))
			assert.Equal(t, len(tt.wantIDs), page.Meta.Total)
		})
	}
}

func TestApply_EveryTaskBelongsToOwner(t *testing.T) {
	owner := int64(2)
	page := Apply(fixture(), model.TaskQuery{Filter: model.TaskFilter{OwnerID: &owner}, Limit: 100})

	require.NotEmpty(t, page.Tasks)
	for _, task := range page.Tasks {
		assert.Equal(t, owner, task.UserID)
	}
}

func TestApply_Sort(t *testing.T) {
	tests := []struct {
		name    string
		sort    model.SortSpec
		wantIDs []int64
	}{
		{name: "no sort keeps insertion order", sort: model.SortSpec{}, wantIDs: []int64{1, 2, 3, 4, 5}},
		{name: "unknown field keeps insertion order", sort: model.SortSpec{Field: "nope"}, wantIDs: []int64{1, 2, 3, 4, 5}},
		{name: "title asc", sort: model.SortSpec{Field: "title"}, wantIDs: []int64{4, 2, 5, 3, 1}},
		{name: "createdAt desc", sort: model.SortSpec{Field: "createdAt", Desc: true}, wantIDs: []int64{5, 4, 3, 2, 1}},
		{name: "priority asc is stable on ties", sort: model.SortSpec{Field: "priority"}, wantIDs: []int64{1, 2, 4, 5, 3}},
		{name: "priority desc is stable on ties", sort: model.SortSpec{Field: "priority", Desc: true}, wantIDs: []int64{3, 5, 1, 2, 4}},
		{name: "dueDate asc puts null first", sort: model.SortSpec{Field: "dueDate"}, wantIDs: []int64{3, 1, 2, 4, 5}},
		{name: "dueDate desc puts null last", sort: model.SortSpec{Field: "dueDate", Desc: true}, wantIDs: []int64{5, 4, 2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Apply(fixture(), model.TaskQuery{Sort: tt.sort})
			assert.Equal(t, tt.wantIDs, ids(page.Tasks))
		})
	}
}

func TestApply_Pagination(t *testing.T) {
	tasks := make([]model.Task, 0, 5)
	for i := 1; i <= 5; i++ {
		tasks = append(tasks, model.Task{ID: int64(i), Title: fmt.Sprintf("Task %d", i), UserID: 7})
	}

	tests := []struct {
		name     string
		page     int
		limit    int
		wantIDs  []int64
		wantMeta model.PageMeta
	}{
		{
			name:     "defaults",
			wantIDs:  []int64{1, 2, 3, 4, 5},
			wantMeta: model.PageMeta{Page: 1, Limit: 10, Total: 5, TotalPages: 1},
		},
		{
			name:     "middle page",
			page:     2,
			limit:    2,
			wantIDs:  []int64{3, 4},
			wantMeta: model.PageMeta{Page: 2, Limit: 2, Total: 5, TotalPages: 3, HasNextPage: true, HasPrevPage: true},
		},
		{
			name:     "last partial page",
			page:     3,
			limit:    2,
			wantIDs:  []int64{5},
			wantMeta: model.PageMeta{Page: 3, Limit: 2, Total: 5, TotalPages: 3, HasPrevPage: true},
		},
		{
			name:     "out of range page is empty",
			page:     9,
			limit:    2,
			wantIDs:  []int64{},
			wantMeta: model.PageMeta{Page: 9, Limit: 2, Total: 5, TotalPages: 3, HasPrevPage: true},
		},
		{
			name:     "exact fit has no next page",
			page:     1,
			limit:    5,
			wantIDs:  []int64{1, 2, 3, 4, 5},
			wantMeta: model.PageMeta{Page: 1, Limit: 5, Total: 5, TotalPages: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Apply(tasks, model.TaskQuery{Page: tt.page, Limit: tt.limit})
			assert.Equal(t, tt.wantIDs, ids(page.Tasks))
			assert.Equal(t, tt.wantMeta, page.Meta)
		})
	}
}

func TestApply_EmptyCollection(t *testing.T) {
	page := Apply(nil, model.TaskQuery{})

	assert.Empty(t, page.Tasks)
	assert.NotNil(t, page.Tasks)
	assert.Equal(t, model.PageMeta{Page: 1, Limit: 10}, page.Meta)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tasks := fixture()
	Apply(tasks, model.TaskQuery{Sort: model.SortSpec{Field: "title", Desc: true}})

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(tasks))
}

func TestSortableField(t *testing.T) {
	assert.True(t, SortableField("dueDate"))
	assert.True(t, SortableField("createdAt"))
	assert.False(t, SortableField("password"))
	assert.False(t, SortableField(""))
}

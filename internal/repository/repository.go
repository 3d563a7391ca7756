package repository

import (
	"sort"

	"github.com/apiedpiper/task-api/internal/models"
	"gorm.io/gorm"
)

// ListOptions carries the document-style query surface exposed on list
// endpoints: an equality filter, a sort spec ({field: 1|-1}), a projection
// ({field: 1|0}), and skip/limit windowing. Field names are API names; each
// repository translates them through its own column whitelist so arbitrary
// input never reaches SQL.
type ListOptions struct {
	Where  map[string]interface{}
	Sort   map[string]int
	Select map[string]int
	Skip   int
	Limit  int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID, optionally projected
	FindByID(id uint64, projection map[string]int) (*models.Task, error)

	// FindByIDStrings loads the tasks whose IDs appear in the given list
	FindByIDStrings(ids []string) ([]models.Task, error)

	// List retrieves tasks matching the given options
	List(opts ListOptions) ([]models.Task, error)

	// Count counts tasks matching the filter
	Count(where map[string]interface{}) (int64, error)

	// Save writes the full task record
	Save(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// AssignBatch points every task in ids at the given user, stamps the
	// display name, and re-opens the task (completed = false)
	AssignBatch(ids []string, userID, userName string) error

	// ClearAssignments unassigns every task pointing at userID whose ID is
	// not in keep
	ClearAssignments(userID string, keep []string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID, optionally projected
	FindByID(id uint64, projection map[string]int) (*models.User, error)

	// List retrieves users matching the given options
	List(opts ListOptions) ([]models.User, error)

	// Count counts users matching the filter
	Count(where map[string]interface{}) (int64, error)

	// Save writes the full user record
	Save(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error

	// AddPendingTask appends taskID to the user's pendingTasks unless it is
	// already present. Missing users are a no-op.
	AddPendingTask(userID, taskID string) error

	// RemovePendingTask removes taskID from the user's pendingTasks.
	// Missing users or absent IDs are a no-op.
	RemovePendingTask(userID, taskID string) error
}

// applyWhere adds an equality predicate per recognized field. Unknown fields
// and operator documents are ignored rather than rejected, matching the
// permissive filter handling of the list endpoints.
func applyWhere(q *gorm.DB, where map[string]interface{}, columns map[string]string) *gorm.DB {
	for field, value := range where {
		col, ok := columns[field]
		if !ok {
			continue
		}
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			continue
		}
		q = q.Where(col+" = ?", value)
	}
	return q
}

// applySort orders by each recognized field, ascending for positive values
// and descending for negative ones. Fields are applied in name order so the
// generated SQL is deterministic.
func applySort(q *gorm.DB, sortSpec map[string]int, columns map[string]string) *gorm.DB {
	fields := make([]string, 0, len(sortSpec))
	for field := range sortSpec {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		col, ok := columns[field]
		if !ok {
			continue
		}
		dir := " ASC"
		if sortSpec[field] < 0 {
			dir = " DESC"
		}
		q = q.Order(col + dir)
	}
	return q
}

// projectionColumns translates a {field: 1|0} projection into a column list.
// A projection with any positive value is inclusive (the ID column is kept
// unless explicitly excluded); an all-zero projection is exclusive. A nil or
// empty projection selects everything.
func projectionColumns(projection map[string]int, columns map[string]string, all []string) []string {
	if len(projection) == 0 {
		return nil
	}

	include := false
	for _, v := range projection {
		if v > 0 {
			include = true
			break
		}
	}

	if include {
		// The ID column rides along unless the projection explicitly
		// excludes it.
		includeID := true
		for _, field := range []string{"id", "_id"} {
			if v, ok := projection[field]; ok && v == 0 {
				includeID = false
			}
		}

		selected := make([]string, 0, len(projection)+1)
		seen := make(map[string]bool, len(projection)+1)
		if includeID {
			selected = append(selected, "id")
			seen["id"] = true
		}
		for _, col := range all {
			for field, v := range projection {
				if v > 0 && columns[field] == col && !seen[col] {
					selected = append(selected, col)
					seen[col] = true
				}
			}
		}
		return selected
	}

	excluded := make(map[string]bool, len(projection))
	for field := range projection {
		if col, ok := columns[field]; ok {
			excluded[col] = true
		}
	}
	selected := make([]string, 0, len(all))
	for _, col := range all {
		if !excluded[col] {
			selected = append(selected, col)
		}
	}
	return selected
}

package repository

import (
	"github.com/apiedpiper/task-api/internal/constants"
	"github.com/apiedpiper/task-api/internal/database"
	"github.com/apiedpiper/task-api/internal/models"
	"gorm.io/gorm"
)

// taskColumns maps API field names to task table columns. Filters, sorts,
// and projections only pass through these.
var taskColumns = map[string]string{
	"_id":              "id",
	"id":               "id",
	"name":             "name",
	"description":      "description",
	"deadline":         "deadline",
	"completed":        "completed",
	"assignedUser":     "assigned_user",
	"assignedUserName": "assigned_user_name",
	"dateCreated":      "date_created",
}

var taskAllColumns = []string{
	"id", "name", "description", "deadline", "completed",
	"assigned_user", "assigned_user_name", "date_created",
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID, optionally projected
func (r *GormTaskRepository) FindByID(id uint64, projection map[string]int) (*models.Task, error) {
	var task models.Task
	query := r.db
	if cols := projectionColumns(projection, taskColumns, taskAllColumns); cols != nil {
		query = query.Select(cols)
	}
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDStrings loads the tasks whose IDs appear in the given list
func (r *GormTaskRepository) FindByIDStrings(ids []string) ([]models.Task, error) {
	if len(ids) == 0 {
		return []models.Task{}, nil
	}
	var tasks []models.Task
	if err := r.db.Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// List retrieves tasks matching the given options
func (r *GormTaskRepository) List(opts ListOptions) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	query = applyWhere(query, opts.Where, taskColumns)
	query = applySort(query, opts.Sort, taskColumns)
	if cols := projectionColumns(opts.Select, taskColumns, taskAllColumns); cols != nil {
		query = query.Select(cols)
	}

	if err := query.Scopes(database.SkipLimit(opts.Skip, opts.Limit)).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(where map[string]interface{}) (int64, error) {
	var count int64
	query := applyWhere(r.db.Model(&models.Task{}), where, taskColumns)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save writes the full task record
func (r *GormTaskRepository) Save(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// AssignBatch points every task in ids at the given user, stamps the display
// name, and re-opens the task
func (r *GormTaskRepository) AssignBatch(ids []string, userID, userName string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Task{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"assigned_user":      userID,
			"assigned_user_name": userName,
			"completed":          false,
		}).Error
}

// ClearAssignments unassigns every task pointing at userID whose ID is not
// in keep
func (r *GormTaskRepository) ClearAssignments(userID string, keep []string) error {
	query := r.db.Model(&models.Task{}).Where("assigned_user = ?", userID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Updates(map[string]interface{}{
		"assigned_user":      "",
		"assigned_user_name": constants.UnassignedName,
	}).Error
}

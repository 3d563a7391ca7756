package repository

import (
	"errors"

	"github.com/apiedpiper/task-api/internal/database"
	"github.com/apiedpiper/task-api/internal/models"
	"gorm.io/gorm"
)

// userColumns maps API field names to user table columns.
var userColumns = map[string]string{
	"_id":          "id",
	"id":           "id",
	"name":         "name",
	"email":        "email",
	"pendingTasks": "pending_tasks",
	"dateCreated":  "date_created",
}

var userAllColumns = []string{
	"id", "name", "email", "pending_tasks", "date_created",
}

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID, optionally projected
func (r *GormUserRepository) FindByID(id uint64, projection map[string]int) (*models.User, error) {
	var user models.User
	query := r.db
	if cols := projectionColumns(projection, userColumns, userAllColumns); cols != nil {
		query = query.Select(cols)
	}
	if err := query.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users matching the given options
func (r *GormUserRepository) List(opts ListOptions) ([]models.User, error) {
	var users []models.User

	query := r.db.Model(&models.User{})
	query = applyWhere(query, opts.Where, userColumns)
	query = applySort(query, opts.Sort, userColumns)
	if cols := projectionColumns(opts.Select, userColumns, userAllColumns); cols != nil {
		query = query.Select(cols)
	}

	if err := query.Scopes(database.SkipLimit(opts.Skip, opts.Limit)).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(where map[string]interface{}) (int64, error) {
	var count int64
	query := applyWhere(r.db.Model(&models.User{}), where, userColumns)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save writes the full user record
func (r *GormUserRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Delete(&models.User{}, id).Error
}

// AddPendingTask appends taskID to the user's pendingTasks unless it is
// already present. A missing user matches nothing and is a no-op, like a
// conditional update against an absent document.
func (r *GormUserRepository) AddPendingTask(userID, taskID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if user.PendingTasks.Contains(taskID) {
			return nil
		}
		user.PendingTasks = append(user.PendingTasks, taskID)
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("pending_tasks", user.PendingTasks).Error
	})
}

// RemovePendingTask removes taskID from the user's pendingTasks. Absent IDs
// and missing users are a no-op.
func (r *GormUserRepository) RemovePendingTask(userID, taskID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if !user.PendingTasks.Contains(taskID) {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("pending_tasks", user.PendingTasks.Without(taskID)).Error
	})
}

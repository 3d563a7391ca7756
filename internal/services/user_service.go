package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/apiedpiper/task-api/internal/models"
	"github.com/apiedpiper/task-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserFieldsRequired = errors.New("name and email are required")
)

// UserService owns the user lifecycle and the user-side consistency rules.
type UserService struct {
	userRepo repository.UserRepository
	sync     *PendingSync
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, sync *PendingSync) *UserService {
	return &UserService{
		userRepo: userRepo,
		sync:     sync,
	}
}

// UserInput represents a full user document as supplied by the client.
type UserInput struct {
	Name         string
	Email        string
	PendingTasks []string
}

// Create validates and persists a new user. The supplied pendingTasks list
// is trusted as given; only creation skips reconciliation.
func (s *UserService) Create(input UserInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, ErrUserFieldsRequired
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PendingTasks: models.TaskIDList(input.PendingTasks),
	}
	if user.PendingTasks == nil {
		user.PendingTasks = models.TaskIDList{}
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Get returns a user by ID, optionally projected
func (s *UserService) Get(id uint64, projection map[string]int) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, projection)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// List returns users matching the given options
func (s *UserService) List(opts repository.ListOptions) ([]models.User, error) {
	users, err := s.userRepo.List(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Count returns the number of users matching the filter
func (s *UserService) Count(where map[string]interface{}) (int64, error) {
	count, err := s.userRepo.Count(where)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Replace overwrites the full user document, preserving dateCreated, and
// treats the supplied pendingTasks as the desired set of tasks assigned to
// this user: dropped tasks are unassigned, named tasks are taken over and
// re-opened. This is the one sanctioned path that writes pendingTasks
// directly.
func (s *UserService) Replace(id uint64, input UserInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, ErrUserFieldsRequired
	}

	existing, err := s.userRepo.FindByID(id, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	desired := uniqueIDs(input.PendingTasks)

	updated := &models.User{
		ID:           existing.ID,
		Name:         input.Name,
		Email:        input.Email,
		PendingTasks: models.TaskIDList(desired),
		DateCreated:  existing.DateCreated,
	}

	if err := s.userRepo.Save(updated); err != nil {
		return nil, fmt.Errorf("failed to replace user: %w", err)
	}

	// Best effort, same as the task side: the user record is already
	// written, so reconciliation failures are logged rather than rolled
	// back.
	if err := s.sync.ReconcileUser(updated, desired); err != nil {
		log.Printf("pending sync after user %d replace: %v", updated.ID, err)
	}

	return updated, nil
}

// Delete removes a user and orphans every task that pointed at it
func (s *UserService) Delete(id uint64) error {
	user, err := s.userRepo.FindByID(id, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.sync.Orphan(user.IDString()); err != nil {
		log.Printf("pending sync after user %d delete: %v", id, err)
	}

	return nil
}

// uniqueIDs removes duplicate and empty entries, preserving order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}

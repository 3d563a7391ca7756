package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/apiedpiper/task-api/internal/constants"
	"github.com/apiedpiper/task-api/internal/models"
	"github.com/apiedpiper/task-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskFieldsRequired   = errors.New("name and deadline are required")
	ErrAssignedUserNotFound = errors.New("assignedUser not found")
)

// TaskService owns the task lifecycle and the task-side consistency rules.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	sync     *PendingSync
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, sync *PendingSync) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		sync:     sync,
	}
}

// TaskInput represents a full task document as supplied by the client, used
// for both create and replace.
type TaskInput struct {
	Name             string
	Description      string
	Deadline         *time.Time
	Completed        bool
	AssignedUser     string
	AssignedUserName string
}

// Create validates and persists a new task, then records it in the
// assignee's pendingTasks when it is assigned and open.
func (s *TaskService) Create(input TaskInput) (*models.Task, error) {
	if input.Name == "" || input.Deadline == nil {
		return nil, ErrTaskFieldsRequired
	}

	assignedUser, assignedUserName, err := s.resolveAssignee(input.AssignedUser, input.AssignedUserName)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:             input.Name,
		Description:      input.Description,
		Deadline:         *input.Deadline,
		Completed:        input.Completed,
		AssignedUser:     assignedUser,
		AssignedUserName: assignedUserName,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Best effort: the task is already persisted, so a failed index update
	// is logged rather than rolled back.
	if err := s.sync.AddPending(task); err != nil {
		log.Printf("pending sync after task %d create: %v", task.ID, err)
	}

	return task, nil
}

// Get returns a task by ID, optionally projected
func (s *TaskService) Get(id uint64, projection map[string]int) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, projection)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// List returns tasks matching the given options
func (s *TaskService) List(opts repository.ListOptions) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Count returns the number of tasks matching the filter
func (s *TaskService) Count(where map[string]interface{}) (int64, error) {
	count, err := s.taskRepo.Count(where)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Replace overwrites the full task document, preserving dateCreated, then
// walks the assignment transition: the prior holder loses the ID when the
// assignee changed or the task closed, and the new holder gains it when the
// task is assigned and open.
func (s *TaskService) Replace(id uint64, input TaskInput) (*models.Task, error) {
	if input.Name == "" || input.Deadline == nil {
		return nil, ErrTaskFieldsRequired
	}

	existing, err := s.taskRepo.FindByID(id, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	assignedUser, assignedUserName, err := s.resolveAssignee(input.AssignedUser, input.AssignedUserName)
	if err != nil {
		return nil, err
	}

	updated := &models.Task{
		ID:               existing.ID,
		Name:             input.Name,
		Description:      input.Description,
		Deadline:         *input.Deadline,
		Completed:        input.Completed,
		AssignedUser:     assignedUser,
		AssignedUserName: assignedUserName,
		DateCreated:      existing.DateCreated,
	}

	if err := s.taskRepo.Save(updated); err != nil {
		return nil, fmt.Errorf("failed to replace task: %w", err)
	}

	oldUser := existing.AssignedUser
	taskID := updated.IDString()

	if oldUser != "" && (oldUser != updated.AssignedUser || updated.Completed) {
		if err := s.sync.RemovePending(oldUser, taskID); err != nil {
			log.Printf("pending sync after task %d replace: %v", updated.ID, err)
		}
	}
	if err := s.sync.AddPending(updated); err != nil {
		log.Printf("pending sync after task %d replace: %v", updated.ID, err)
	}

	return updated, nil
}

// Delete removes a task and prunes it from its assignee's pendingTasks
func (s *TaskService) Delete(id uint64) error {
	task, err := s.taskRepo.FindByID(id, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if err := s.sync.RemovePending(task.AssignedUser, task.IDString()); err != nil {
		log.Printf("pending sync after task %d delete: %v", id, err)
	}

	return nil
}

// resolveAssignee validates the assignedUser reference and fills in the
// display name. An empty assignedUser is legal and keeps whatever name the
// client supplied, defaulting to the placeholder; a non-empty one must
// resolve to an existing user, whose current name overrides an absent or
// placeholder assignedUserName.
func (s *TaskService) resolveAssignee(assignedUser, assignedUserName string) (string, string, error) {
	if assignedUserName == "" {
		assignedUserName = constants.UnassignedName
	}
	if assignedUser == "" {
		return "", assignedUserName, nil
	}

	userID, err := strconv.ParseUint(assignedUser, 10, 64)
	if err != nil {
		return "", "", ErrAssignedUserNotFound
	}

	user, err := s.userRepo.FindByID(userID, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrAssignedUserNotFound
		}
		return "", "", fmt.Errorf("failed to resolve assignedUser: %w", err)
	}

	if assignedUserName == constants.UnassignedName {
		assignedUserName = user.Name
	}
	return user.IDString(), assignedUserName, nil
}

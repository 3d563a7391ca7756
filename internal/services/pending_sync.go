package services

import (
	"fmt"

	"github.com/apiedpiper/task-api/internal/models"
	"github.com/apiedpiper/task-api/internal/repository"
)

// PendingSync keeps the two sides of the task/user reference consistent:
// Task.AssignedUser is the authoritative pointer, User.PendingTasks is a
// derived index that only this component (and the explicit user-replace
// path) ever rewrites. There is no cross-table transaction; both primitives
// are idempotent so retries and races collapse into the same end state.
type PendingSync struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewPendingSync creates a new PendingSync
func NewPendingSync(userRepo repository.UserRepository, taskRepo repository.TaskRepository) *PendingSync {
	return &PendingSync{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// AddPending records the task in its assignee's pendingTasks. No-op for nil
// tasks, unassigned tasks, and completed tasks; the underlying push skips
// IDs already present, so calling this twice never duplicates an entry.
func (s *PendingSync) AddPending(task *models.Task) error {
	if task == nil || !task.Pending() {
		return nil
	}
	if err := s.userRepo.AddPendingTask(task.AssignedUser, task.IDString()); err != nil {
		return fmt.Errorf("failed to add pending task: %w", err)
	}
	return nil
}

// RemovePending removes taskID from userID's pendingTasks. No-op when either
// argument is empty or the ID is not in the list.
func (s *PendingSync) RemovePending(userID, taskID string) error {
	if userID == "" || taskID == "" {
		return nil
	}
	if err := s.userRepo.RemovePendingTask(userID, taskID); err != nil {
		return fmt.Errorf("failed to remove pending task: %w", err)
	}
	return nil
}

// ReconcileUser treats desired as the authoritative set of task IDs assigned
// to the user and rewrites the task side to match: tasks the user currently
// holds but that were dropped from the list are unassigned, and every task
// named in the list is pointed at this user and re-opened, even if it
// previously belonged to someone else or was completed. Prior holders of
// taken-over tasks have their lists pruned first.
func (s *PendingSync) ReconcileUser(user *models.User, desired []string) error {
	userID := user.IDString()

	taken, err := s.taskRepo.FindByIDStrings(desired)
	if err != nil {
		return fmt.Errorf("failed to load desired tasks: %w", err)
	}
	for i := range taken {
		task := &taken[i]
		if task.AssignedUser == "" || task.AssignedUser == userID {
			continue
		}
		if err := s.RemovePending(task.AssignedUser, task.IDString()); err != nil {
			return err
		}
	}

	if err := s.taskRepo.ClearAssignments(userID, desired); err != nil {
		return fmt.Errorf("failed to clear dropped assignments: %w", err)
	}

	if err := s.taskRepo.AssignBatch(desired, userID, user.Name); err != nil {
		return fmt.Errorf("failed to assign desired tasks: %w", err)
	}
	return nil
}

// Orphan clears the assignment of every task pointing at userID. Used after
// a user is deleted; the tasks survive, unassigned.
func (s *PendingSync) Orphan(userID string) error {
	if userID == "" {
		return nil
	}
	if err := s.taskRepo.ClearAssignments(userID, nil); err != nil {
		return fmt.Errorf("failed to orphan tasks: %w", err)
	}
	return nil
}

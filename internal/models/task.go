package models

import (
	"fmt"
	"time"
)

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`

	// AssignedUser is the authoritative relationship pointer: the assignee's
	// ID as an opaque string, or "" for an unassigned task. AssignedUserName
	// is a display copy only.
	AssignedUser     string `gorm:"type:varchar(64);not null;default:''" json:"assignedUser"`
	AssignedUserName string `gorm:"type:varchar(255);not null;default:'unassigned'" json:"assignedUserName"`

	DateCreated time.Time `gorm:"autoCreateTime" json:"dateCreated"`
}

// IDString returns the task's ID in the opaque string form stored in
// User.PendingTasks.
func (t *Task) IDString() string {
	return fmt.Sprintf("%d", t.ID)
}

// Pending reports whether the task should appear in its assignee's
// pendingTasks list.
func (t *Task) Pending() bool {
	return t.AssignedUser != "" && !t.Completed
}

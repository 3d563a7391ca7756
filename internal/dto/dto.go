package dto

import "time"

// Envelope is the uniform response body: every endpoint, success or failure,
// returns {message, data}.
type Envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// TaskPayload is the request body for task create and replace. Defaults
// mirror the document schema: empty description, not completed, unassigned.
type TaskPayload struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Deadline         *time.Time `json:"deadline"`
	Completed        bool       `json:"completed"`
	AssignedUser     string     `json:"assignedUser"`
	AssignedUserName string     `json:"assignedUserName"`
}

// UserPayload is the request body for user create and replace. On replace,
// PendingTasks is the desired set of task IDs assigned to the user.
type UserPayload struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PendingTasks []string `json:"pendingTasks"`
}

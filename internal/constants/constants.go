package constants

// UnassignedName is the display placeholder stored in a task's
// assignedUserName when the task has no assignee.
const UnassignedName = "unassigned"

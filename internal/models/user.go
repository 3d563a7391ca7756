package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TaskIDList is an ordered list of task IDs stored as a JSON text column.
// IDs are kept as opaque strings; "" never appears as an element.
type TaskIDList []string

// Value implements driver.Valuer.
func (l TaskIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *TaskIDList) Scan(value interface{}) error {
	if value == nil {
		*l = TaskIDList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TaskIDList", value)
	}

	if len(data) == 0 {
		*l = TaskIDList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports whether taskID is already in the list.
func (l TaskIDList) Contains(taskID string) bool {
	for _, id := range l {
		if id == taskID {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with every occurrence of taskID removed.
func (l TaskIDList) Without(taskID string) TaskIDList {
	result := make(TaskIDList, 0, len(l))
	for _, id := range l {
		if id != taskID {
			result = append(result, id)
		}
	}
	return result
}

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PendingTasks TaskIDList `gorm:"type:text" json:"pendingTasks"`
	DateCreated  time.Time  `gorm:"autoCreateTime" json:"dateCreated"`
}

// IDString returns the user's ID in the opaque string form used by
// Task.AssignedUser and TaskIDList.
func (u *User) IDString() string {
	return fmt.Sprintf("%d", u.ID)
}

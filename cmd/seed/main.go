package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/apiedpiper/task-api/internal/config"
	"github.com/apiedpiper/task-api/internal/constants"
	"github.com/apiedpiper/task-api/internal/database"
	"github.com/apiedpiper/task-api/internal/models"
	"gorm.io/gorm"
)

const (
	seedUserCount = 25
	seedTaskCount = 120
	assignRatio   = 0.6
)

func main() {
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Start from a clean slate
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Task{}).Error; err != nil {
		log.Fatalf("Failed to clear tasks: %v", err)
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error; err != nil {
		log.Fatalf("Failed to clear users: %v", err)
	}
	log.Println("Tables cleared")

	users := make([]models.User, seedUserCount)
	for i := range users {
		users[i] = models.User{
			Name:         fmt.Sprintf("User %d", i+1),
			Email:        fmt.Sprintf("user%d@test.com", i+1),
			PendingTasks: models.TaskIDList{},
		}
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("Failed to insert users: %v", err)
	}
	log.Printf("Inserted users: %d", len(users))

	tasks := make([]models.Task, seedTaskCount)
	for i := range tasks {
		assignedUser := ""
		assignedUserName := constants.UnassignedName
		if rand.Float64() < assignRatio {
			u := users[rand.Intn(len(users))]
			assignedUser = u.IDString()
			assignedUserName = u.Name
		}

		tasks[i] = models.Task{
			Name:             fmt.Sprintf("Task %d", i+1),
			Description:      fmt.Sprintf("Auto-generated task #%d", i+1),
			Deadline:         time.Now().AddDate(0, 0, 7+rand.Intn(50)),
			Completed:        false,
			AssignedUser:     assignedUser,
			AssignedUserName: assignedUserName,
		}
	}
	if err := db.Create(&tasks).Error; err != nil {
		log.Fatalf("Failed to insert tasks: %v", err)
	}
	log.Printf("Inserted tasks: %d", len(tasks))

	// Backfill each assignee's pendingTasks to match the tasks that point
	// at it, keeping the core invariant from the very first request.
	buckets := make(map[string]models.TaskIDList)
	for i := range tasks {
		task := &tasks[i]
		if task.AssignedUser != "" {
			buckets[task.AssignedUser] = append(buckets[task.AssignedUser], task.IDString())
		}
	}
	for userID, pending := range buckets {
		if err := db.Model(&models.User{}).
			Where("id = ?", userID).
			Update("pending_tasks", pending).Error; err != nil {
			log.Fatalf("Failed to backfill pendingTasks for user %s: %v", userID, err)
		}
	}

	log.Printf("Seeding complete: %d users, %d tasks, %d users with pending tasks",
		len(users), len(tasks), len(buckets))
}

package services

import (
	"testing"
	"time"

	"github.com/apiedpiper/task-api/internal/models"
	"github.com/stretchr/testify/require"
)

func newTaskService(env serviceTestEnv) *TaskService {
	return NewTaskService(env.taskRepo, env.userRepo, env.sync)
}

func futureDeadline() *time.Time {
	deadline := time.Now().Add(7 * 24 * time.Hour)
	return &deadline
}

func TestCreateTask_RequiresNameAndDeadline(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	_, err := svc.Create(TaskInput{Deadline: futureDeadline()})
	require.ErrorIs(t, err, ErrTaskFieldsRequired)

	_, err = svc.Create(TaskInput{Name: "T1"})
	require.ErrorIs(t, err, ErrTaskFieldsRequired)
}

func TestCreateTask_UnknownAssigneeWritesNothing(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	_, err := svc.Create(TaskInput{
		Name:         "T1",
		Deadline:     futureDeadline(),
		AssignedUser: "9999",
	})
	require.ErrorIs(t, err, ErrAssignedUserNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateTask_AssignedAppearsInPendingTasks(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	alice := env.createUser(t, "Alice", "a@x.com")

	task, err := svc.Create(TaskInput{
		Name:         "T1",
		Deadline:     futureDeadline(),
		AssignedUser: alice.IDString(),
	})
	require.NoError(t, err)
	require.Equal(t, alice.IDString(), task.AssignedUser)
	require.Equal(t, "Alice", task.AssignedUserName)

	require.Equal(t, models.TaskIDList{task.IDString()}, env.pendingOf(t, alice.ID))
}

func TestCreateTask_KeepsExplicitAssignedUserName(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	alice := env.createUser(t, "Alice", "a@x.com")

	task, err := svc.Create(TaskInput{
		Name:             "T1",
		Deadline:         futureDeadline(),
		AssignedUser:     alice.IDString(),
		AssignedUserName: "Alice the Great",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice the Great", task.AssignedUserName)
}

func TestCreateTask_CompletedSkipsPendingTasks(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	alice := env.createUser(t, "Alice", "a@x.com")

	_, err := svc.Create(TaskInput{
		Name:         "T1",
		Deadline:     futureDeadline(),
		Completed:    true,
		AssignedUser: alice.IDString(),
	})
	require.NoError(t, err)

	require.Empty(t, env.pendingOf(t, alice.ID))
}

func TestReplaceTask_CompletionRemovesFromPendingTasks(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	alice := env.createUser(t, "Alice", "a@x.com")
	task, err := svc.Create(TaskInput{
		Name:         "T1",
		Deadline:     futureDeadline(),
		AssignedUser: alice.IDString(),
	})
	require.NoError(t, err)

	_, err = svc.Replace(task.ID, TaskInput{
		Name:         "T1",
		Deadline:     futureDeadline(),
		Completed:    true,
		AssignedUser: alice.IDString(),
	})
	require.NoError(t, err)

	require.Empty(t, env.pendingOf(t, alice.ID))
}

func TestReplaceTask_ReassignmentMovesPendingEntry(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	alice := env.createUser(t, "Alice", "a@x.com")
	bob := env.createUser(t, "Bob", "b@x.com")
	task, err := svc.Create(TaskInput{
		Name:         "T2",
		Deadline:     futureDeadline(),
		AssignedUser: alice.IDString(),
	})
	require.NoError(t, err)

	updated, err := svc.Replace(task.ID, TaskInput{
		Name:         "T2",
		Deadline:     futureDeadline(),
		AssignedUser: bob.IDString(),
	})
	require.NoError(t, err)
	require.Equal(t, "Bob", updated.AssignedUserName)

	require.Empty(t, env.pendingOf(t, alice.ID))
	require.Equal(t, models.TaskIDList{task.IDString()}, env.pendingOf(t, bob.ID))
}

func TestReplaceTask_UnassignRoundTrip(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	alice := env.createUser(t, "Alice", "a@x.com")
	task, err := svc.Create(TaskInput{
		Name:         "T1",
		Deadline:     futureDeadline(),
		AssignedUser: alice.IDString(),
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskIDList{task.IDString()}, env.pendingOf(t, alice.ID))

	updated, err := svc.Replace(task.ID, TaskInput{
		Name:     "T1",
		Deadline: futureDeadline(),
	})
	require.NoError(t, err)
	require.Equal(t, "", updated.AssignedUser)
	require.Equal(t, "unassigned", updated.AssignedUserName)

	require.Empty(t, env.pendingOf(t, alice.ID))
}

func TestReplaceTask_PreservesDateCreated(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	task, err := svc.Create(TaskInput{Name: "T1", Deadline: futureDeadline()})
	require.NoError(t, err)

	var created models.Task
	require.NoError(t, env.db.First(&created, task.ID).Error)

	updated, err := svc.Replace(task.ID, TaskInput{Name: "renamed", Deadline: futureDeadline()})
	require.NoError(t, err)
	require.Equal(t, created.DateCreated.UTC(), updated.DateCreated.UTC())
	require.Equal(t, "renamed", updated.Name)
}

func TestReplaceTask_NotFound(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	_, err := svc.Replace(12345, TaskInput{Name: "T1", Deadline: futureDeadline()})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_PrunesPendingTasks(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	alice := env.createUser(t, "Alice", "a@x.com")
	task, err := svc.Create(TaskInput{
		Name:         "T1",
		Deadline:     futureDeadline(),
		AssignedUser: alice.IDString(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(task.ID))

	require.Empty(t, env.pendingOf(t, alice.ID))

	_, err = svc.Get(task.ID, nil)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_NotFound(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTaskService(env)

	require.ErrorIs(t, svc.Delete(12345), ErrTaskNotFound)
}

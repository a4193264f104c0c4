package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/apiserver/internal/store"
	"github.com/taskdeck/apiserver/types"
)

func newTaskFixture(t *testing.T) (*TaskService, int, int) {
	t.Helper()
	conn := newTestDB(t)
	users := NewUserService(store.NewUserRepository(conn))

	alice, err := users.Register(context.Background(), "alice", "a@x.com", "abcd1234")
	require.NoError(t, err)
	bob, err := users.Register(context.Background(), "bob", "b@x.com", "abcd1234")
	require.NoError(t, err)

	return NewTaskService(store.NewTaskRepository(conn)), alice.ID, bob.ID
}

func TestCreateTaskDefaults(t *testing.T) {
	tasks, aliceID, _ := newTaskFixture(t)

	task, err := tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, types.PriorityMedium, task.Priority)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, aliceID, task.OwnerID)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.Category)
}

func TestCreateTaskTitleCountsCharactersNotBytes(t *testing.T) {
	tasks, aliceID, _ := newTaskFixture(t)

	// 200 characters but 600 bytes; the limit is characters.
	title := strings.Repeat("あ", 200)
	task, err := tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: title})
	require.NoError(t, err)
	assert.Equal(t, title, task.Title)
}

func TestCreateTaskTrimsTitle(t *testing.T) {
	tasks, aliceID, _ := newTaskFixture(t)

	task, err := tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: "  Buy milk  "})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
}

func TestCreateTaskValidation(t *testing.T) {
	tasks, aliceID, _ := newTaskFixture(t)

	var ve *ValidationError

	_, err := tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: "   "})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	_, err = tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: strings.Repeat("x", 201)})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	_, err = tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: strings.Repeat("あ", 201)})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	bad := types.Priority("asap")
	_, err = tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: "ok", Priority: &bad})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "priority", ve.Field)
}

func TestUpdateTaskPartial(t *testing.T) {
	tasks, aliceID, _ := newTaskFixture(t)

	desc := "two pints"
	created, err := tasks.Create(context.Background(), aliceID, CreateTaskInput{
		Title:       "Buy milk",
		Description: &desc,
	})
	require.NoError(t, err)

	done := true
	high := types.PriorityHigh
	updated, err := tasks.Update(context.Background(), aliceID, created.ID, UpdateTaskInput{
		IsCompleted: &done,
		Priority:    &high,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, types.PriorityHigh, updated.Priority)
	// Unsupplied fields retain prior values.
	assert.Equal(t, "Buy milk", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)
}

func TestUpdateTaskEmptyPatchRefreshesUpdatedAt(t *testing.T) {
	tasks, aliceID, _ := newTaskFixture(t)

	created, err := tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: "Buy milk"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	updated, err := tasks.Update(context.Background(), aliceID, created.ID, UpdateTaskInput{})
	require.NoError(t, err)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.IsCompleted, updated.IsCompleted)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestTaskOwnershipIsolation(t *testing.T) {
	tasks, aliceID, bobID := newTaskFixture(t)

	created, err := tasks.Create(context.Background(), aliceID, CreateTaskInput{Title: "Alice's"})
	require.NoError(t, err)

	_, err = tasks.Get(context.Background(), bobID, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	title := "hijacked"
	_, err = tasks.Update(context.Background(), bobID, created.ID, UpdateTaskInput{Title: &title})
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, tasks.Delete(context.Background(), bobID, created.ID), store.ErrNotFound)

	list, err := tasks.List(context.Background(), bobID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskStats(t *testing.T) {
	tasks, aliceID, bobID := newTaskFixture(t)

	urgent := types.PriorityUrgent
	for i, input := range []CreateTaskInput{
		{Title: "a"},
		{Title: "b", Priority: &urgent},
		{Title: "c"},
	} {
		_, err := tasks.Create(context.Background(), aliceID, input)
		require.NoError(t, err, "task %d", i)
	}
	_, err := tasks.Create(context.Background(), bobID, CreateTaskInput{Title: "bob's"})
	require.NoError(t, err)

	list, err := tasks.List(context.Background(), aliceID)
	require.NoError(t, err)
	done := true
	_, err = tasks.Update(context.Background(), aliceID, list[0].ID, UpdateTaskInput{IsCompleted: &done})
	require.NoError(t, err)

	stats, err := tasks.Stats(context.Background(), aliceID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 2, stats.ByPriority[types.PriorityMedium])
	assert.Equal(t, 1, stats.ByPriority[types.PriorityUrgent])
	assert.Equal(t, 0, stats.ByPriority[types.PriorityLow])
}

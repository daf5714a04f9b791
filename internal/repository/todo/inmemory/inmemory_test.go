package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"todoApp/internal/models/todo"
	"todoApp/internal/repository"
	"todoApp/internal/repository/todo/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTodoStorage_New тестирует создание хранилища
func TestTodoStorage_New(t *testing.T) {
	storage := inmemory.NewTodoStorage()
	assert.NotNil(t, storage)
	assert.Equal(t, 0, storage.Count())
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestTodoStorage_Create тестирует создание задачи
func TestTodoStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	todoToCreate := todo.NewDraft("Test Task", "3")

	err := storage.Create(ctx, todoToCreate)
	require.NoError(t, err)

	retrieved, err := storage.GetByID(ctx, todoToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, todoToCreate, retrieved)

	// Повторное создание с тем же id
	err = storage.Create(ctx, todoToCreate)
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, 1, storage.Count())
}

// TestTodoStorage_GetByID тестирует получение несуществующей задачи
func TestTodoStorage_GetByID(t *testing.T) {
	storage := inmemory.NewTodoStorage()

	_, err := storage.GetByID(context.Background(), todo.NewID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTodoStorage_Update тестирует замену записи
func TestTodoStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	first := todo.NewDraft("First", "1")
	second := todo.NewDraft("Second", "2")
	require.NoError(t, storage.Create(ctx, first))
	require.NoError(t, storage.Create(ctx, second))

	err := storage.Update(ctx, first.Toggled())
	require.NoError(t, err)

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// позиция сохраняется
	assert.Equal(t, first.ID, all[0].ID)
	assert.True(t, all[0].Done)

	err = storage.Update(ctx, todo.NewDraft("Missing", "1"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTodoStorage_Delete тестирует удаление
func TestTodoStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	todos := make([]todo.Todo, 5)
	for i := range todos {
		todos[i] = todo.NewDraft(fmt.Sprintf("Task %d", i), "1")
		require.NoError(t, storage.Create(ctx, todos[i]))
	}

	// Удаляем задачу из середины
	err := storage.Delete(ctx, todos[2].ID)
	require.NoError(t, err)

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []todo.ID{todos[0].ID, todos[1].ID, todos[3].ID, todos[4].ID},
		[]todo.ID{all[0].ID, all[1].ID, all[2].ID, all[3].ID})

	err = storage.Delete(ctx, todos[2].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTodoStorage_GetAll_ReturnsCopy тестирует, что снаружи нельзя изменить хранилище
func TestTodoStorage_GetAll_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()
	require.NoError(t, storage.Create(ctx, todo.NewDraft("Task", "1")))

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	all[0].Title = "Changed"

	again, err := storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Task", again[0].Title)
}

// TestTodoStorage_ReplaceAll тестирует полную замену содержимого
func TestTodoStorage_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()
	require.NoError(t, storage.Create(ctx, todo.NewDraft("Old", "1")))

	err := storage.ReplaceAll(ctx, []todo.Todo{
		{ID: "a", Title: "A", Time: "1"},
		{ID: "b", Title: "B", Time: "2"},
		{ID: "a", Title: "A2", Time: "3"},
	})
	require.NoError(t, err)

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, todo.ID("a"), all[0].ID)
	assert.Equal(t, "A2", all[0].Title)
	assert.Equal(t, todo.ID("b"), all[1].ID)

	require.NoError(t, storage.ReplaceAll(ctx, nil))
	assert.Equal(t, 0, storage.Count())
}

// TestTodoStorage_Revision тестирует счётчик изменений
func TestTodoStorage_Revision(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()
	assert.Equal(t, uint64(0), storage.Revision())

	draft := todo.NewDraft("Task", "1")
	require.NoError(t, storage.Create(ctx, draft))
	require.NoError(t, storage.Update(ctx, draft.Toggled()))
	require.NoError(t, storage.Delete(ctx, draft.ID))
	assert.Equal(t, uint64(3), storage.Revision())

	// неудачные операции не меняют ревизию
	assert.Error(t, storage.Delete(ctx, draft.ID))
	assert.Equal(t, uint64(3), storage.Revision())
}

// TestTodoStorage_ConcurrentAccess тестирует конкурентный доступ
func TestTodoStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()
	todoCount := 100
	goroutines := 10

	var wg sync.WaitGroup
	errors := make(chan error, todoCount)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < todoCount/goroutines; j++ {
				if err := storage.Create(ctx, todo.NewDraft(fmt.Sprintf("Task %d %d", workerID, j), "1")); err != nil {
					errors <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errors)

	for err := range errors {
		assert.NoError(t, err)
	}

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, todoCount)
}

package services_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mongo-todo/internal/apperrors"
	"go-mongo-todo/internal/models"
	"go-mongo-todo/internal/services"
	"go-mongo-todo/testutil"
)

func TestTodoService_CreateDefaultsCompleted(t *testing.T) {
	svc := services.NewTodoService(testutil.NewMemoryStore())
	summary := "Test"

	created, err := svc.CreateTodo(context.Background(), models.NewTodoInput{Summary: &summary})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.Completed)
	assert.Nil(t, created.Description)
}

func TestTodoService_GetTodosEmptyIsNotNil(t *testing.T) {
	svc := services.NewTodoService(testutil.NewMemoryStore())

	todos, err := svc.GetTodos(context.Background(), models.TodoFilter{})
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

// cursorErrStore は一件返したあとカーソルエラーを返すストアです。
type cursorErrStore struct {
	services.TodoStore
}

func (cursorErrStore) Find(context.Context, models.TodoFilter) (iter.Seq2[*models.Todo, error], error) {
	return func(yield func(*models.Todo, error) bool) {
		if !yield(&models.Todo{Summary: "first"}, nil) {
			return
		}
		yield(nil, apperrors.Database(errors.New("cursor killed")))
	}, nil
}

func TestTodoService_GetTodosStopsOnCursorError(t *testing.T) {
	svc := services.NewTodoService(cursorErrStore{})

	todos, err := svc.GetTodos(context.Background(), models.TodoFilter{})
	assert.Nil(t, todos)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

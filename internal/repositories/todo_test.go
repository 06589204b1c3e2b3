package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-mongo-todo/internal/apperrors"
	"go-mongo-todo/internal/database"
	"go-mongo-todo/internal/models"
	"go-mongo-todo/internal/repositories"
	"go-mongo-todo/testutil"
)

// setupRepo はテスト用DBに接続し、todos コレクションを空にします。
func setupRepo(t *testing.T) *repositories.TodoRepository {
	uri, dbName := testutil.MongoTestURI(t)
	ctx := context.Background()

	m, err := database.Connect(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	_, err = m.Todos().DeleteMany(ctx, map[string]any{})
	require.NoError(t, err)

	return repositories.NewTodoRepository(m.Todos())
}

func collect(t *testing.T, repo *repositories.TodoRepository, f models.TodoFilter) []*models.Todo {
	seq, err := repo.Find(context.Background(), f)
	require.NoError(t, err)

	var out []*models.Todo
	for todo, err := range seq {
		require.NoError(t, err)
		out = append(out, todo)
	}
	return out
}

func TestTodoRepository_CRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Todo{Summary: "Test", Description: ptr("first")})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
	id := created.ID.Hex()

	fetched, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	replaced, err := repo.Replace(ctx, id, &models.Todo{Summary: "Replaced", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, "Replaced", replaced.Summary)
	assert.Nil(t, replaced.Description)
	assert.True(t, replaced.Completed)

	updated, err := repo.Update(ctx, id, models.TodoPatch{Completed: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Replaced", updated.Summary)
	assert.False(t, updated.Completed)

	unchanged, err := repo.Update(ctx, id, models.TodoPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	deleted, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)

	_, err = repo.Delete(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrTodoNotFound)
	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrTodoNotFound)
}

func TestTodoRepository_FindFilter(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Todo{Summary: "Buy milk"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Todo{Summary: "Clean house", Completed: true})
	require.NoError(t, err)

	assert.Len(t, collect(t, repo, models.TodoFilter{}), 2)

	got := collect(t, repo, models.TodoFilter{Summary: ptr("MILK")})
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Summary)

	got = collect(t, repo, models.TodoFilter{Completed: ptr(true)})
	require.Len(t, got, 1)
	assert.Equal(t, "Clean house", got[0].Summary)

	assert.Empty(t, collect(t, repo, models.TodoFilter{Summary: ptr("milk"), Completed: ptr(true)}))
}

func TestTodoRepository_InvalidAndMissingID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)

	missing := primitive.NewObjectID().Hex()
	_, err = repo.Update(ctx, missing, models.TodoPatch{Summary: ptr("x")})
	assert.ErrorIs(t, err, apperrors.ErrTodoNotFound)
	_, err = repo.Replace(ctx, missing, &models.Todo{Summary: "x"})
	assert.ErrorIs(t, err, apperrors.ErrTodoNotFound)
}

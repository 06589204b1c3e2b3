package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-mongo-todo/internal/apperrors"
	"go-mongo-todo/internal/models"
	"go-mongo-todo/internal/repositories"
)

func ptr[T any](v T) *T { return &v }

func TestApplyFilter_Empty(t *testing.T) {
	q := repositories.NewBSONQuery()
	repositories.ApplyFilter(q, models.TodoFilter{})

	assert.Equal(t, bson.D{}, q.Filter())
}

func TestApplyFilter_AllFields(t *testing.T) {
	q := repositories.NewBSONQuery()
	repositories.ApplyFilter(q, models.TodoFilter{
		Summary:     ptr("milk"),
		Description: ptr("store"),
		Completed:   ptr(true),
	})

	want := bson.D{
		{Key: "summary", Value: primitive.Regex{Pattern: "milk", Options: "i"}},
		{Key: "description", Value: primitive.Regex{Pattern: "store", Options: "i"}},
		{Key: "completed", Value: true},
	}
	assert.Equal(t, want, q.Filter())
}

func TestApplyPatch_OnlySuppliedFields(t *testing.T) {
	q := repositories.NewBSONQuery()
	repositories.ApplyPatch(q, models.TodoPatch{Completed: ptr(true)})

	require.True(t, q.HasUpdates())
	assert.Equal(t, bson.D{{Key: "$set", Value: bson.D{{Key: "completed", Value: true}}}}, q.Update())
	// 検索条件には影響しない
	assert.Equal(t, bson.D{}, q.Filter())
}

func TestApplyPatch_Empty(t *testing.T) {
	q := repositories.NewBSONQuery()
	repositories.ApplyPatch(q, models.TodoPatch{})
	assert.False(t, q.HasUpdates())
}

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := repositories.ParseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = repositories.ParseID("not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)
}

// Package repositories はMongoDBへのTodoの読み書きを行います。
package repositories

import (
	"context"
	"errors"
	"iter"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-mongo-todo/internal/apperrors"
	"go-mongo-todo/internal/models"
)

// TodoRepository は todos コレクションを操作します。
type TodoRepository struct {
	coll *mongo.Collection
}

// NewTodoRepository は新しいTodoRepositoryを作成します。
func NewTodoRepository(coll *mongo.Collection) *TodoRepository {
	return &TodoRepository{coll: coll}
}

// ParseID は16進24文字のObjectIDを解析します。不正な形式は InvalidID です。
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidID(err)
	}
	return oid, nil
}

// Create は新しいTodoを挿入し、採番されたIDを設定して返します。
func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	t.ID = primitive.NilObjectID
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return nil, classify(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, apperrors.Database(errors.New("inserted id is not an ObjectID"))
	}
	t.ID = oid
	return t, nil
}

// Find は条件に一致するTodoを順に返すイテレータを返します。
// カーソルを一度だけ読み進めるので、二回目以降の反復では何も返しません。
// カーソルは反復の終了時 (途中で抜けた場合も含む) に閉じられるので、
// 呼び出し側は返されたイテレータを必ず一度 range してください。
func (r *TodoRepository) Find(ctx context.Context, f models.TodoFilter) (iter.Seq2[*models.Todo, error], error) {
	q := NewBSONQuery()
	ApplyFilter(q, f)

	cur, err := r.coll.Find(ctx, q.Filter())
	if err != nil {
		return nil, classify(err)
	}

	return func(yield func(*models.Todo, error) bool) {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var t models.Todo
			if err := cur.Decode(&t); err != nil {
				yield(nil, apperrors.Database(err))
				return
			}
			if !yield(&t, nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(nil, apperrors.Database(err))
		}
	}, nil
}

// FindByID は指定IDのTodoを取得します。
func (r *TodoRepository) FindByID(ctx context.Context, id string) (*models.Todo, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.decodeOne(r.coll.FindOne(ctx, byID(oid)), id)
}

// Replace は _id 以外の全フィールドを置き換え、置換後のTodoを返します。
func (r *TodoRepository) Replace(ctx context.Context, id string, t *models.Todo) (*models.Todo, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	t.ID = primitive.NilObjectID // omitempty で置換ドキュメントから _id を外す

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	return r.decodeOne(r.coll.FindOneAndReplace(ctx, byID(oid), t, opts), id)
}

// Update は指定されたフィールドだけを $set で更新し、更新後のTodoを返します。
// 更新対象が無い場合は現在のTodoをそのまま返します。
func (r *TodoRepository) Update(ctx context.Context, id string, p models.TodoPatch) (*models.Todo, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	q := NewBSONQuery()
	ApplyPatch(q, p)
	if !q.HasUpdates() {
		return r.decodeOne(r.coll.FindOne(ctx, byID(oid)), id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return r.decodeOne(r.coll.FindOneAndUpdate(ctx, byID(oid), q.Update(), opts), id)
}

// Delete は指定IDのTodoを削除し、削除したTodoを返します。
func (r *TodoRepository) Delete(ctx context.Context, id string) (*models.Todo, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.decodeOne(r.coll.FindOneAndDelete(ctx, byID(oid)), id)
}

func (r *TodoRepository) decodeOne(res *mongo.SingleResult, id string) (*models.Todo, error) {
	var t models.Todo
	if err := res.Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound(id)
		}
		return nil, classify(err)
	}
	return &t, nil
}

func byID(oid primitive.ObjectID) bson.D {
	return bson.D{{Key: FieldID, Value: oid}}
}

// classify はドライバーのエラーを EncodingError か DatabaseError に分類します。
func classify(err error) error {
	var me mongo.MarshalError
	if errors.As(err, &me) {
		return apperrors.Encoding(err)
	}
	var mep *mongo.MarshalError
	if errors.As(err, &mep) {
		return apperrors.Encoding(err)
	}
	return apperrors.Database(err)
}

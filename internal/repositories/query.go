package repositories

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-mongo-todo/internal/models"
)

// Todo ドキュメントのフィールド名
const (
	FieldID          = "_id"
	FieldSummary     = "summary"
	FieldDescription = "description"
	FieldCompleted   = "completed"
)

// Query は検索条件と更新内容を組み立てるビルダーです。
// ストレージごとに実装を持ち、ハンドラー側はドライバーを意識しません。
type Query interface {
	// Equal は field が value と完全一致する条件を追加します。
	Equal(field string, value any) Query
	// Pattern は field が pattern に大文字小文字を区別せず一致する条件を追加します。
	Pattern(field, pattern string) Query
	// Set は更新時に field を value で上書きします。
	Set(field string, value any) Query
}

// ApplyFilter は一覧取得の条件を q に追加します。条件同士は AND で結合されます。
func ApplyFilter(q Query, f models.TodoFilter) Query {
	if f.Summary != nil {
		q = q.Pattern(FieldSummary, *f.Summary)
	}
	if f.Description != nil {
		q = q.Pattern(FieldDescription, *f.Description)
	}
	if f.Completed != nil {
		q = q.Equal(FieldCompleted, *f.Completed)
	}
	return q
}

// ApplyPatch は部分更新で指定されたフィールドだけを q に追加します。
func ApplyPatch(q Query, p models.TodoPatch) Query {
	if p.Summary != nil {
		q = q.Set(FieldSummary, *p.Summary)
	}
	if p.Description != nil {
		q = q.Set(FieldDescription, *p.Description)
	}
	if p.Completed != nil {
		q = q.Set(FieldCompleted, *p.Completed)
	}
	return q
}

// BSONQuery は MongoDB 用の Query 実装です。
type BSONQuery struct {
	filter bson.D
	set    bson.D
}

// NewBSONQuery は空の BSONQuery を作成します。
func NewBSONQuery() *BSONQuery {
	return &BSONQuery{}
}

func (q *BSONQuery) Equal(field string, value any) Query {
	q.filter = append(q.filter, bson.E{Key: field, Value: value})
	return q
}

func (q *BSONQuery) Pattern(field, pattern string) Query {
	q.filter = append(q.filter, bson.E{Key: field, Value: primitive.Regex{Pattern: pattern, Options: "i"}})
	return q
}

func (q *BSONQuery) Set(field string, value any) Query {
	q.set = append(q.set, bson.E{Key: field, Value: value})
	return q
}

// Filter は検索条件ドキュメントを返します。条件が無ければ全件一致の空ドキュメントです。
func (q *BSONQuery) Filter() bson.D {
	if q.filter == nil {
		return bson.D{}
	}
	return q.filter
}

// Update は $set 更新ドキュメントを返します。
func (q *BSONQuery) Update() bson.D {
	return bson.D{{Key: "$set", Value: q.set}}
}

// HasUpdates は Set が一度でも呼ばれたかを返します。
func (q *BSONQuery) HasUpdates() bool {
	return len(q.set) > 0
}

// Package models はTodoとリクエスト入力を定義します。
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Todo は todos コレクションに保存されるドキュメントです。
type Todo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`        // サーバー側で採番
	Summary     string             `bson:"summary" json:"summary"`         // 必須
	Description *string            `bson:"description" json:"description"` // 未設定なら null
	Completed   bool               `bson:"completed" json:"completed"`
}

// NewTodoInput は POST /todo のリクエストボディです。
// summary はキーの存在だけを要求し、空文字列は許可します。
type NewTodoInput struct {
	Summary     *string `json:"summary" binding:"required"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ToTodo は入力から保存用の Todo を作成します。completed 省略時は false。
func (in NewTodoInput) ToTodo() *Todo {
	t := &Todo{Description: in.Description}
	if in.Summary != nil {
		t.Summary = *in.Summary
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	return t
}

// SubstituteTodoInput は PUT /todo/:id のリクエストボディです (全フィールド置換)。
type SubstituteTodoInput struct {
	Summary     *string `json:"summary" binding:"required"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed" binding:"required"`
}

// ToTodo は置換用の Todo を作成します。ID は設定しません。
func (in SubstituteTodoInput) ToTodo() *Todo {
	t := &Todo{Description: in.Description}
	if in.Summary != nil {
		t.Summary = *in.Summary
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	return t
}

// UpdateTodoInput は PATCH のボディと GET /todo のクエリの両方で使います。
type UpdateTodoInput struct {
	Summary     *string `json:"summary" form:"summary"`
	Description *string `json:"description" form:"description"`
	Completed   *bool   `json:"completed" form:"completed"`
}

// Filter はクエリパラメータを一覧取得の条件に変換します。
func (in UpdateTodoInput) Filter() TodoFilter {
	return TodoFilter{Summary: in.Summary, Description: in.Description, Completed: in.Completed}
}

// Patch はボディを部分更新の内容に変換します。
func (in UpdateTodoInput) Patch() TodoPatch {
	return TodoPatch{Summary: in.Summary, Description: in.Description, Completed: in.Completed}
}

// TodoFilter は一覧取得の条件です。nil のフィールドは条件に含めません。
// Summary と Description は大文字小文字を区別しないパターン一致、Completed は完全一致。
type TodoFilter struct {
	Summary     *string
	Description *string
	Completed   *bool
}

// TodoPatch は部分更新で書き換えるフィールドです。nil のフィールドは変更しません。
type TodoPatch struct {
	Summary     *string
	Description *string
	Completed   *bool
}

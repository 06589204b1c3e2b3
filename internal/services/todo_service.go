package services

import (
	"context"
	"iter"

	"go-mongo-todo/internal/models"
)

// TodoStore はTodoの永続化を担うストアです。
// 本番では repositories.TodoRepository、テストでは testutil.MemoryStore が実装します。
type TodoStore interface {
	Create(ctx context.Context, t *models.Todo) (*models.Todo, error)
	Find(ctx context.Context, f models.TodoFilter) (iter.Seq2[*models.Todo, error], error)
	FindByID(ctx context.Context, id string) (*models.Todo, error)
	Replace(ctx context.Context, id string, t *models.Todo) (*models.Todo, error)
	Update(ctx context.Context, id string, p models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id string) (*models.Todo, error)
}

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	store TodoStore
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(store TodoStore) *TodoService {
	return &TodoService{store: store}
}

// CreateTodo は新しいTodoを作成します。completed 省略時は false。
func (s *TodoService) CreateTodo(ctx context.Context, in models.NewTodoInput) (*models.Todo, error) {
	return s.store.Create(ctx, in.ToTodo())
}

// GetTodos は条件に一致するTodoをすべて取得します。一致が無ければ空スライスです。
func (s *TodoService) GetTodos(ctx context.Context, f models.TodoFilter) ([]*models.Todo, error) {
	seq, err := s.store.Find(ctx, f)
	if err != nil {
		return nil, err
	}

	todos := []*models.Todo{}
	for t, err := range seq {
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, nil
}

// GetTodoByID は指定IDのTodoを取得します。
func (s *TodoService) GetTodoByID(ctx context.Context, id string) (*models.Todo, error) {
	return s.store.FindByID(ctx, id)
}

// ReplaceTodo はTodoを全フィールド置換します。
func (s *TodoService) ReplaceTodo(ctx context.Context, id string, in models.SubstituteTodoInput) (*models.Todo, error) {
	return s.store.Replace(ctx, id, in.ToTodo())
}

// UpdateTodo は指定されたフィールドだけを更新します。
func (s *TodoService) UpdateTodo(ctx context.Context, id string, p models.TodoPatch) (*models.Todo, error) {
	return s.store.Update(ctx, id, p)
}

// DeleteTodo はTodoを削除し、削除したTodoを返します。
func (s *TodoService) DeleteTodo(ctx context.Context, id string) (*models.Todo, error) {
	return s.store.Delete(ctx, id)
}

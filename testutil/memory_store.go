package testutil

import (
	"context"
	"fmt"
	"iter"
	"regexp"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-mongo-todo/internal/apperrors"
	"go-mongo-todo/internal/models"
	"go-mongo-todo/internal/repositories"
)

// MemoryStore はMongoDBを使わずにハンドラーをテストするためのストアです。
// IDの形式・絞り込み・NotFound の扱いは TodoRepository と同じです。
type MemoryStore struct {
	mu    sync.Mutex
	items []models.Todo

	// PingErr を設定するとヘルスチェックが失敗します。
	PingErr error
}

// NewMemoryStore は空の MemoryStore を作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return s.PingErr
}

func (s *MemoryStore) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = primitive.NewObjectID()
	s.items = append(s.items, clone(*t))
	return t, nil
}

func (s *MemoryStore) Find(ctx context.Context, f models.TodoFilter) (iter.Seq2[*models.Todo, error], error) {
	q := &memQuery{}
	repositories.ApplyFilter(q, f)
	if q.err != nil {
		return nil, apperrors.Database(q.err)
	}

	s.mu.Lock()
	var matched []models.Todo
	for _, t := range s.items {
		if q.matches(&t) {
			matched = append(matched, clone(t))
		}
	}
	s.mu.Unlock()

	return func(yield func(*models.Todo, error) bool) {
		for i := range matched {
			if !yield(&matched[i], nil) {
				return
			}
		}
	}, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}
	t := clone(s.items[i])
	return &t, nil
}

func (s *MemoryStore) Replace(ctx context.Context, id string, t *models.Todo) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}
	replaced := clone(*t)
	replaced.ID = s.items[i].ID
	s.items[i] = replaced
	out := clone(replaced)
	return &out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, p models.TodoPatch) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}
	q := &memQuery{}
	repositories.ApplyPatch(q, p)
	q.apply(&s.items[i])
	out := clone(s.items[i])
	return &out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}
	deleted := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return &deleted, nil
}

// Len は保存されている件数を返します。
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MemoryStore) indexOf(id string) (int, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return -1, err
	}
	for i := range s.items {
		if s.items[i].ID == oid {
			return i, nil
		}
	}
	return -1, apperrors.NotFound(id)
}

func clone(t models.Todo) models.Todo {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}

// memQuery は repositories.Query のメモリ上の実装です。
type memQuery struct {
	preds []func(*models.Todo) bool
	sets  []func(*models.Todo)
	err   error
}

func (q *memQuery) Equal(field string, value any) repositories.Query {
	q.preds = append(q.preds, func(t *models.Todo) bool {
		return fieldValue(t, field) == value
	})
	return q
}

func (q *memQuery) Pattern(field, pattern string) repositories.Query {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		q.err = fmt.Errorf("invalid pattern for %s: %w", field, err)
		return q
	}
	q.preds = append(q.preds, func(t *models.Todo) bool {
		s, ok := fieldValue(t, field).(string)
		return ok && re.MatchString(s)
	})
	return q
}

func (q *memQuery) Set(field string, value any) repositories.Query {
	q.sets = append(q.sets, func(t *models.Todo) {
		switch field {
		case repositories.FieldSummary:
			t.Summary = value.(string)
		case repositories.FieldDescription:
			d := value.(string)
			t.Description = &d
		case repositories.FieldCompleted:
			t.Completed = value.(bool)
		}
	})
	return q
}

func (q *memQuery) apply(t *models.Todo) {
	for _, set := range q.sets {
		set(t)
	}
}

func (q *memQuery) matches(t *models.Todo) bool {
	for _, p := range q.preds {
		if !p(t) {
			return false
		}
	}
	return true
}

func fieldValue(t *models.Todo, field string) any {
	switch field {
	case repositories.FieldSummary:
		return t.Summary
	case repositories.FieldDescription:
		if t.Description == nil {
			return nil
		}
		return *t.Description
	case repositories.FieldCompleted:
		return t.Completed
	}
	return nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"go-mongo-todo/internal/apperrors"
	"go-mongo-todo/internal/logger"
	"go-mongo-todo/internal/models"
	"go-mongo-todo/internal/repositories"
	"go-mongo-todo/internal/services"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
	log         *logrus.Entry
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService, log *logrus.Entry) *TodoHandler {
	return &TodoHandler{todoService: todoService, log: log}
}

// CreateTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	var input models.NewTodoInput
	if err := bindJSON(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.todoService.CreateTodo(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetTodosHandler はクエリ条件に一致するTodoリストを取得します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	var search models.UpdateTodoInput
	if err := c.ShouldBindQuery(&search); err != nil {
		h.respondError(c, apperrors.InvalidJSON(err))
		return
	}

	todos, err := h.todoService.GetTodos(c.Request.Context(), search.Filter())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// GetTodoByIDHandler は指定IDのTodoを取得します。
func (h *TodoHandler) GetTodoByIDHandler(c *gin.Context) {
	id := c.Param("id")
	if _, err := repositories.ParseID(id); err != nil {
		h.respondError(c, err)
		return
	}

	todo, err := h.todoService.GetTodoByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// ReplaceTodoHandler はTodoを全フィールド置換します。
func (h *TodoHandler) ReplaceTodoHandler(c *gin.Context) {
	id := c.Param("id")
	if _, err := repositories.ParseID(id); err != nil {
		h.respondError(c, err)
		return
	}

	var input models.SubstituteTodoInput
	if err := bindJSON(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	replaced, err := h.todoService.ReplaceTodo(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, replaced)
}

// UpdateTodoHandler はボディで指定されたフィールドだけを更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	id := c.Param("id")
	if _, err := repositories.ParseID(id); err != nil {
		h.respondError(c, err)
		return
	}

	var input models.UpdateTodoInput
	if err := bindJSON(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.todoService.UpdateTodo(c.Request.Context(), id, input.Patch())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTodoHandler はTodoを削除し、削除したTodoを返します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	id := c.Param("id")
	if _, err := repositories.ParseID(id); err != nil {
		h.respondError(c, err)
		return
	}

	deleted, err := h.todoService.DeleteTodo(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

// respondError はエラーを {"error": "..."} とステータスコードに変換して返します。
// 5xx の場合だけ元のエラーをログに残します。
func (h *TodoHandler) respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	entry := h.log.WithFields(logrus.Fields{
		logger.RequestIDKey: c.GetString(logger.RequestIDKey),
		"status":            status,
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithError(err).Debug("request rejected")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": apperrors.Message(err)})
}

// bindJSON はボディをデコードし、binding タグで検証します。
// Content-Type が JSON でないもの、未知のフィールド (クライアントが指定した id など)、
// JSON の後に続く余分なデータはエラーにします。
func bindJSON(c *gin.Context, obj any) error {
	if ct := c.ContentType(); ct != binding.MIMEJSON && !strings.HasSuffix(ct, "+json") {
		return apperrors.InvalidJSON(fmt.Errorf("content type error: expected %s, got %q", binding.MIMEJSON, ct))
	}
	if c.Request.Body == nil {
		return apperrors.InvalidJSON(errors.New("request body must not be empty"))
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidJSON(errors.New("request body must not be empty"))
		}
		return apperrors.InvalidJSON(err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return apperrors.InvalidJSON(errors.New("trailing characters after JSON value"))
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return apperrors.InvalidJSON(err)
	}
	return nil
}

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"go-mongo-todo/internal/config"
	"go-mongo-todo/internal/logger"
	"go-mongo-todo/internal/models"
	"go-mongo-todo/internal/routes"
)

// SetupTestRouter はメモリ上のストアを使うテスト用のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T) (*gin.Engine, *MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewMemoryStore()
	cfg := &config.Config{CORSOrigins: []string{"http://localhost:3000"}}
	r := routes.SetupRouter(cfg, store, store, logger.Discard())
	return r, store
}

// MongoTestURI はテスト用MongoDBの接続先を返します。
// TEST_DB_URI が設定されていない場合はテストをスキップします。
func MongoTestURI(t *testing.T) (uri, dbName string) {
	t.Helper()

	// リポジトリ直下の .env があれば読み込む (無くてもよい)
	_ = godotenv.Load("../../.env")

	uri = os.Getenv("TEST_DB_URI")
	if uri == "" {
		t.Skip("TEST_DB_URI is not set; skipping MongoDB integration test")
	}
	dbName = os.Getenv("TEST_DB_NAME")
	if dbName == "" {
		dbName = "todo-app-test"
	}
	return uri, dbName
}

// DoJSON はJSONボディ付きのリクエストをルーターに送り、レスポンスを返します。
func DoJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// CreateTestTodo は POST /todo でTodoを作成し、作成結果を返します。
func CreateTestTodo(t *testing.T, router http.Handler, summary string, description *string, completed bool) *models.Todo {
	t.Helper()

	payload := map[string]any{
		"summary":     summary,
		"description": description,
		"completed":   completed,
	}
	resp := DoJSON(t, router, http.MethodPost, "/todo", payload)
	require.Equal(t, http.StatusCreated, resp.Code, "Todo作成に失敗しました: %s", resp.Body.String())

	var created models.Todo
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	return &created
}

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"go-mongo-todo/internal/apperrors"
)

// TodoCollection はTodoを保存するコレクション名です。
const TodoCollection = "todos"

// Mongo はプロセス全体で共有する接続です。*mongo.Client は並行利用に安全です。
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect はMongoDBに接続し、todos コレクションのスキーマとインデックスを同期します。
// どの段階で失敗しても DatabaseError を返します。
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, apperrors.Database(fmt.Errorf("open mongo client: %w", err))
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Database(fmt.Errorf("ping mongo: %w", err))
	}

	m := &Mongo{Client: client, DB: client.Database(dbName)}
	if err := m.syncTodos(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Database(err)
	}
	return m, nil
}

// Todos は todos コレクションを返します。
func (m *Mongo) Todos() *mongo.Collection {
	return m.DB.Collection(TodoCollection)
}

// Ping はヘルスチェック用に primary への疎通を確認します。
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close は接続を切断します。
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// syncTodos はコレクションが無ければバリデータ付きで作成し、
// あれば collMod でバリデータを更新してからインデックスを作成します。
func (m *Mongo) syncTodos(ctx context.Context) error {
	names, err := m.DB.ListCollectionNames(ctx, bson.D{{Key: "name", Value: TodoCollection}})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	validator := bson.D{{Key: "$jsonSchema", Value: TodoSchema()}}
	if len(names) == 0 {
		opts := options.CreateCollection().SetValidator(validator)
		if err := m.DB.CreateCollection(ctx, TodoCollection, opts); err != nil {
			return fmt.Errorf("create collection %s: %w", TodoCollection, err)
		}
	} else {
		cmd := bson.D{
			{Key: "collMod", Value: TodoCollection},
			{Key: "validator", Value: validator},
		}
		if err := m.DB.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("update validator for %s: %w", TodoCollection, err)
		}
	}

	if _, err := m.Todos().Indexes().CreateMany(ctx, TodoIndexes()); err != nil {
		return fmt.Errorf("create indexes for %s: %w", TodoCollection, err)
	}
	return nil
}

// TodoSchema は todos コレクションの $jsonSchema です。
func TodoSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"summary", "completed"},
		"properties": bson.M{
			"summary":     bson.M{"bsonType": "string"},
			"description": bson.M{"bsonType": bson.A{"string", "null"}},
			"completed":   bson.M{"bsonType": "bool"},
		},
	}
}

// TodoIndexes は一覧取得の絞り込みで使うインデックスです。
func TodoIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "completed", Value: 1}},
			Options: options.Index().SetName("completed_1"),
		},
		{
			Keys:    bson.D{{Key: "summary", Value: 1}},
			Options: options.Index().SetName("summary_1"),
		},
	}
}

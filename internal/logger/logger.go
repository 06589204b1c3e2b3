// Package logger は構造化ロガー (logrus) を初期化します。
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New は JSON 形式で出力する logrus ロガーを作成します。
// level が解釈できない場合は info になります。
func New(serviceName, level string) *logrus.Entry {
	return newWithOutput(serviceName, level, os.Stdout)
}

func newWithOutput(serviceName, level string, out io.Writer) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l.WithField("service", serviceName)
}

// Discard はテスト用に何も出力しないロガーを返します。
func Discard() *logrus.Entry {
	return newWithOutput("test", "panic", io.Discard)
}

// RequestIDKey はリクエストIDを gin.Context とログのフィールドに格納するキーです。
const RequestIDKey = "request_id"

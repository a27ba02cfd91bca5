// Package redis はミラー保管用のRedis接続の初期化を提供します。
package redis

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
)

// defaultPort はREDIS_PORT未設定時に使用するポートです。
const defaultPort = "6379"

// Addr はREDIS_HOSTとREDIS_PORTから接続先アドレスを組み立てます。
// ポートが未設定の場合はRedisの標準ポートを使用します。
func Addr() string {
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = defaultPort
	}
	return os.Getenv("REDIS_HOST") + ":" + port
}

// NewRedisClient はミラー保管用のRedis接続を生成します。
// 接続確認（PING）に失敗した場合はエラーを返し、呼び出し側が
// ローカルDBミラーへのフォールバックを判断できるようにします。
func NewRedisClient() (*redis.Client, error) {
	addr := Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}

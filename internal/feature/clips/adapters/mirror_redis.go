package adapters

import (
	"context"
	"errors"
	"fmt"

	"kabuclip/internal/feature/clips/domain"
	"kabuclip/internal/feature/clips/usecase"

	"github.com/redis/go-redis/v9"
)

// mirrorRedis はMirrorインターフェースのRedis実装です。
// コレクション全体を単一のキーの下に保持し、TTLは設定しません。
type mirrorRedis struct {
	client *redis.Client
	key    string
	quota  int
}

var _ usecase.Mirror = (*mirrorRedis)(nil)

// NewMirrorRedis は指定されたクライアントとプレフィックスでmirrorRedisの新しいインスタンスを生成します。
// prefixが空の場合は "kabuclip" を使用します。quotaが0以下の場合はDefaultQuotaBytesを使用します。
func NewMirrorRedis(client *redis.Client, prefix string, quota int) *mirrorRedis {
	if prefix == "" {
		prefix = "kabuclip"
	}
	if quota <= 0 {
		quota = DefaultQuotaBytes
	}
	return &mirrorRedis{
		client: client,
		key:    fmt.Sprintf("%s:%s", prefix, mirrorKey),
		quota:  quota,
	}
}

// Read はミラーの内容全体を返します。キーが未作成の場合は (nil, nil) を返します。
func (m *mirrorRedis) Read(ctx context.Context) ([]byte, error) {
	data, err := m.client.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write はコレクション全体を1回のSETとして書き込みます。
// 容量上限を超えるデータはミラーに触れる前にdomain.ErrQuotaExceededで拒否します。
func (m *mirrorRedis) Write(ctx context.Context, data []byte) error {
	if len(data) > m.quota {
		return domain.ErrQuotaExceeded
	}
	return m.client.Set(ctx, m.key, data, 0).Err()
}

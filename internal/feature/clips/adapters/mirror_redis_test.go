package adapters

import (
	"context"
	"testing"

	"kabuclip/internal/feature/clips/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewMirrorRedis はコンストラクタがプレフィックスとクォータの既定値を正しく適用することを検証します。
func TestNewMirrorRedis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		prefix        string
		quota         int
		expectedKey   string
		expectedQuota int
	}{
		{"defaults", "", 0, "kabuclip:clips", DefaultQuotaBytes},
		{"custom prefix", "myapp", 0, "myapp:clips", DefaultQuotaBytes},
		{"custom quota", "", 2048, "kabuclip:clips", 2048},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _ := redismock.NewClientMock()
			m := NewMirrorRedis(client, tt.prefix, tt.quota)

			assert.Equal(t, tt.expectedKey, m.key)
			assert.Equal(t, tt.expectedQuota, m.quota)
		})
	}
}

// TestMirrorRedis_Read_Absent はキー未作成時に (nil, nil) を返すことを検証します。
func TestMirrorRedis_Read_Absent(t *testing.T) {
	t.Parallel()

	client, mock := redismock.NewClientMock()
	mock.ExpectGet("kabuclip:clips").RedisNil()

	m := NewMirrorRedis(client, "", 0)
	data, err := m.Read(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMirrorRedis_Read はキーの内容がそのまま返されることを検証します。
func TestMirrorRedis_Read(t *testing.T) {
	t.Parallel()

	doc := `[{"id":"id-1","code":"7203","name":"Toyota Motor"}]`
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("kabuclip:clips").SetVal(doc)

	m := NewMirrorRedis(client, "", 0)
	data, err := m.Read(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte(doc), data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMirrorRedis_Write はコレクション全体が単一キーへTTLなしで書き込まれることを検証します。
func TestMirrorRedis_Write(t *testing.T) {
	t.Parallel()

	doc := []byte(`[{"id":"id-1","code":"7203","name":"Toyota Motor"}]`)
	client, mock := redismock.NewClientMock()
	mock.ExpectSet("kabuclip:clips", doc, 0).SetVal("OK")

	m := NewMirrorRedis(client, "", 0)

	assert.NoError(t, m.Write(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMirrorRedis_Write_QuotaExceeded はクォータ超過の書き込みがRedisへ到達する前に
// 拒否されることを検証します。
func TestMirrorRedis_Write_QuotaExceeded(t *testing.T) {
	t.Parallel()

	client, mock := redismock.NewClientMock()
	// SETの期待を登録しない: Redisが呼ばれたらExpectationsWereMetで検出される

	m := NewMirrorRedis(client, "", 8)
	err := m.Write(context.Background(), []byte(`["definitely more than eight bytes"]`))

	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

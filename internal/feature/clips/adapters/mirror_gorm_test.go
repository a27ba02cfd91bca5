package adapters

import (
	"context"
	"testing"

	"kabuclip/internal/feature/clips/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// ミラーテーブルを作成
	err = db.AutoMigrate(&MirrorRecord{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// TestNewMirrorGorm はコンストラクタがクォータの既定値を正しく適用することを検証します。
func TestNewMirrorGorm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		quota         int
		expectedQuota int
	}{
		{"zero quota uses default", 0, DefaultQuotaBytes},
		{"negative quota uses default", -1, DefaultQuotaBytes},
		{"custom quota preserved", 1024, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMirrorGorm(setupTestDB(t), tt.quota)

			assert.NotNil(t, m)
			assert.Equal(t, tt.expectedQuota, m.quota)
		})
	}
}

// TestMirrorGorm_Read_Absent は未作成のミラーが (nil, nil) を返すことを検証します。
func TestMirrorGorm_Read_Absent(t *testing.T) {
	t.Parallel()

	m := NewMirrorGorm(setupTestDB(t), 0)
	data, err := m.Read(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, data)
}

// TestMirrorGorm_WriteRead は書き込んだ内容がそのまま読み出せることを検証します。
func TestMirrorGorm_WriteRead(t *testing.T) {
	t.Parallel()

	m := NewMirrorGorm(setupTestDB(t), 0)
	doc := []byte(`[{"id":"id-1","code":"7203","name":"Toyota Motor"}]`)

	require.NoError(t, m.Write(context.Background(), doc))

	data, err := m.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, data)
}

// TestMirrorGorm_Write_Overwrites は2回目の書き込みが同じキーを上書きし、
// レコードが増えないことを検証します（ミラーは常にコレクション全体の単一コピー）。
func TestMirrorGorm_Write_Overwrites(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	m := NewMirrorGorm(db, 0)
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, []byte(`["first"]`)))
	require.NoError(t, m.Write(ctx, []byte(`["second"]`)))

	data, err := m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["second"]`), data)

	var count int64
	require.NoError(t, db.Model(&MirrorRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "mirror is a single record under one key")
}

// TestMirrorGorm_Write_QuotaExceeded はクォータ超過の書き込みが拒否され、
// 既存のミラーが無傷で残ることを検証します。
func TestMirrorGorm_Write_QuotaExceeded(t *testing.T) {
	t.Parallel()

	m := NewMirrorGorm(setupTestDB(t), 16)
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, []byte(`["small"]`)))

	err := m.Write(ctx, []byte(`["this document is definitely larger than sixteen bytes"]`))
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	data, readErr := m.Read(ctx)
	require.NoError(t, readErr)
	assert.Equal(t, []byte(`["small"]`), data, "rejected write never touches the mirror")
}

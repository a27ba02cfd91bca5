// Package adapters はclipsフィーチャーの耐久ミラー実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"kabuclip/internal/feature/clips/domain"
	"kabuclip/internal/feature/clips/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultQuotaBytes は耐久ミラーの既定の容量上限です。
// 元のアプリが動作していたlocalStorageの5MiBクォータに合わせています。
const DefaultQuotaBytes = 5 << 20

// mirrorKey はコレクション全体を保持する周知のキーです。
const mirrorKey = "clips"

// MirrorRecord は1つの周知キーの下にコレクション全体の直列化コピーを保持するKVレコードです。
type MirrorRecord struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// mirrorGorm はMirrorインターフェースのgorm（SQLite/PostgreSQL）実装です。
type mirrorGorm struct {
	db    *gorm.DB
	quota int
}

var _ usecase.Mirror = (*mirrorGorm)(nil)

// NewMirrorGorm は指定されたDB接続でmirrorGormの新しいインスタンスを生成します。
// quotaが0以下の場合はDefaultQuotaBytesを使用します。
func NewMirrorGorm(db *gorm.DB, quota int) *mirrorGorm {
	if quota <= 0 {
		quota = DefaultQuotaBytes
	}
	return &mirrorGorm{db: db, quota: quota}
}

// Read はミラーの内容全体を返します。レコードが未作成の場合は (nil, nil) を返します。
func (m *mirrorGorm) Read(ctx context.Context) ([]byte, error) {
	var rec MirrorRecord
	err := m.db.WithContext(ctx).First(&rec, "key = ?", mirrorKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Value), nil
}

// Write はコレクション全体を1回のupsertとして書き込みます。
// 容量上限を超えるデータはミラーに触れる前にdomain.ErrQuotaExceededで拒否します。
func (m *mirrorGorm) Write(ctx context.Context, data []byte) error {
	if len(data) > m.quota {
		return domain.ErrQuotaExceeded
	}
	rec := MirrorRecord{
		Key:       mirrorKey,
		Value:     string(data),
		UpdatedAt: time.Now(),
	}
	return m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

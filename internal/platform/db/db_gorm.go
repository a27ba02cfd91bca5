// Package db はローカルデータベース接続の初期化を提供します。
package db

import (
	"log"
	"os"

	"kabuclip/internal/feature/clips/adapters"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenDB は耐久ミラー用のデータベースを開きます。
// 既定ではローカルのSQLiteファイルを使用し、DB_DSNが設定されている場合は
// PostgreSQLへ接続します。ミラーテーブルのマイグレーションも行います。
func OpenDB() *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "kabuclip.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("DB open failed: %v", err)
	}

	// マイグレーション（ミラーレコードのみ）
	if err := db.AutoMigrate(&adapters.MirrorRecord{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

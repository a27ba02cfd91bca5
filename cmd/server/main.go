package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kabuclip/internal/app/router"
	authhandler "kabuclip/internal/feature/auth/transport/handler"
	authusecase "kabuclip/internal/feature/auth/usecase"
	clipsadapters "kabuclip/internal/feature/clips/adapters"
	cliphandler "kabuclip/internal/feature/clips/transport/handler"
	clipsusecase "kabuclip/internal/feature/clips/usecase"
	platformdb "kabuclip/internal/platform/db"
	jwtmw "kabuclip/internal/platform/jwt"
	platformredis "kabuclip/internal/platform/redis"
)

func main() {
	quota := mirrorQuota()

	// ミラー: 既定はローカルDB、REDIS_HOSTが設定されていればRedisを使用
	var mirror clipsusecase.Mirror
	if os.Getenv("REDIS_HOST") != "" {
		rdb, err := platformredis.NewRedisClient()
		if err != nil {
			log.Println("[WARN] Redis unavailable. Falling back to local DB mirror.")
			mirror = clipsadapters.NewMirrorGorm(platformdb.OpenDB(), quota)
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
			mirror = clipsadapters.NewMirrorRedis(rdb, "kabuclip", quota)
		}
	} else {
		mirror = clipsadapters.NewMirrorGorm(platformdb.OpenDB(), quota)
	}

	// Usecase
	store := clipsusecase.NewClipStore(mirror)
	// 起動時にミラーを読み込む。壊れている場合は空のコレクションで継続する
	if _, err := store.Load(context.Background()); err != nil {
		slog.Warn("mirror unreadable, starting with an empty collection", "error", err)
	}

	passwordHash := os.Getenv("APP_PASSWORD_HASH")
	gen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour)
	authUC := authusecase.NewAuthUsecase(passwordHash, gen)

	// Handler
	clipH := cliphandler.NewClipHandler(store)
	authH := authhandler.NewAuthHandler(authUC)

	// 認証はAPP_PASSWORD_HASHが設定されている場合のみ必須にする
	authRequired := jwtmw.AuthRequired()
	if passwordHash == "" {
		log.Println("[WARN] APP_PASSWORD_HASH is not set. Clip routes are unprotected.")
		authRequired = func(c *gin.Context) { c.Next() }
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// ルータ生成
	router := router.NewRouter(clipH, authH, authRequired)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

// mirrorQuota はMIRROR_QUOTA_BYTESを読み取ります。未設定または不正な場合は0を返し、
// アダプター側の既定値（5MiB）に委ねます。
func mirrorQuota() int {
	v := os.Getenv("MIRROR_QUOTA_BYTES")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] invalid MIRROR_QUOTA_BYTES %q, using default", v)
		return 0
	}
	return n
}

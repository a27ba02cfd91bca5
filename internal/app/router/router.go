package router

import (
	authhandler "kabuclip/internal/feature/auth/transport/handler"
	cliphandler "kabuclip/internal/feature/clips/transport/handler"
	platformhandler "kabuclip/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

// NewRouter はすべてのルートを登録したgin.Engineを生成します。
// authRequiredにはJWT検証ミドルウェア、または認証を使わない構成の場合は
// パススルーのミドルウェアを渡します。
func NewRouter(clips *cliphandler.ClipHandler, auth *authhandler.AuthHandler,
	authRequired gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	// ログイン（JWT 発行）
	r.POST("/login", auth.Login)

	// クリップ操作のルートグループ
	g := r.Group("/clips")
	g.Use(authRequired)
	{
		g.GET("", clips.List)
		g.GET("/search", clips.Search)
		g.GET("/export", clips.Export)
		g.POST("", clips.Create)
		g.POST("/import", clips.Import)
		g.PUT("/:id", clips.Update)
		g.DELETE("/:id", clips.Delete)
	}

	return r
}

// Package handler はclipsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"kabuclip/internal/feature/clips/domain"
	"kabuclip/internal/feature/clips/domain/entity"
	"kabuclip/internal/feature/clips/transport/http/dto"
	"kabuclip/internal/feature/clips/usecase"

	"github.com/gin-gonic/gin"
)

// maxImportBytes はインポートドキュメントの読み込み上限です。
// インポートは一括読み込み（ストリーミング解析なし）のため、上限で保護します。
const maxImportBytes = 16 << 20

// ClipStore はクリップコレクション操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ClipStore interface {
	All() []entity.Clip
	Search(term string) []entity.Clip
	Save(ctx context.Context, draft entity.Draft, existingID string) ([]entity.Clip, error)
	Delete(ctx context.Context, id string) ([]entity.Clip, error)
	ExportAll() ([]byte, error)
	ImportMerge(ctx context.Context, doc []byte) (usecase.ImportResult, []entity.Clip, error)
}

// ClipHandler はクリップコレクションのHTTPリクエストを処理します。
// UIはここで返されたコレクションから再描画し、変更は必ずこれらの操作を通して行います。
type ClipHandler struct {
	store ClipStore
}

// NewClipHandler は指定されたストアでClipHandlerの新しいインスタンスを生成します。
func NewClipHandler(store ClipStore) *ClipHandler {
	return &ClipHandler{store: store}
}

// List は現在のコレクション全体を返すAPIです。
//
// GET /clips
func (h *ClipHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, toResponses(h.store.All()))
}

// Search は検索語でフィルタしたコレクションを返すAPIです。
// 空のqはすべてのクリップにマッチします。
//
// GET /clips/search?q=term
func (h *ClipHandler) Search(c *gin.Context) {
	term := c.Query("q")
	c.JSON(http.StatusOK, toResponses(h.store.Search(term)))
}

// Create は新規ドラフトを保存し、更新後のコレクションを返すAPIです。
// ドラフトが無効な場合は400を返します。
//
// POST /clips
func (h *ClipHandler) Create(c *gin.Context) {
	h.save(c, "")
}

// Update は既存クリップのフィールドを置き換え、更新後のコレクションを返すAPIです。
// 指定されたIDが存在しない場合は404を返します。
//
// PUT /clips/:id
func (h *ClipHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

// save はCreateとUpdateで共通の保存処理です。
func (h *ClipHandler) save(c *gin.Context, existingID string) {
	var req dto.SaveClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	draft := entity.Draft{
		Code:   req.Code,
		Name:   req.Name,
		Rating: req.Rating,
		Memo:   req.Memo,
		Markup: req.Markup,
	}
	clips, err := h.store.Save(c.Request.Context(), draft, existingID)
	if err != nil {
		h.fail(c, err, "save failed")
		return
	}
	status := http.StatusOK
	if existingID == "" {
		status = http.StatusCreated
	}
	c.JSON(status, toResponses(clips))
}

// Delete は指定されたIDのクリップを削除し、更新後のコレクションを返すAPIです。
// 存在しないIDでも200を返します（削除済みとして扱います）。
//
// DELETE /clips/:id
func (h *ClipHandler) Delete(c *gin.Context) {
	clips, err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "delete failed")
		return
	}
	c.JSON(http.StatusOK, toResponses(clips))
}

// Export はコレクション全体を整形済みJSONファイルとしてダウンロードさせるAPIです。
// ファイル名には当日の日付が入ります。
//
// GET /clips/export
func (h *ClipHandler) Export(c *gin.Context) {
	data, err := h.store.ExportAll()
	if err != nil {
		h.fail(c, err, "export failed")
		return
	}
	filename := fmt.Sprintf("clips-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// Import はリクエストボディのドキュメントをコレクションへマージするAPIです。
// ボディ全体を一括で読み込んでから解析します。
// トップレベルが配列でない場合は400を返し、一切取り込みません。
//
// POST /clips/import
func (h *ClipHandler) Import(c *gin.Context) {
	doc, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	result, clips, err := h.store.ImportMerge(c.Request.Context(), doc)
	if err != nil {
		h.fail(c, err, "import failed")
		return
	}
	slog.Info("import merged", "added", result.Added, "updated", result.Updated)
	c.JSON(http.StatusOK, dto.ImportResultResponse{
		AddedCount:   result.Added,
		UpdatedCount: result.Updated,
		Clips:        toResponses(clips),
	})
}

// fail はドメインエラーをHTTPステータスへ対応付けてレスポンスします。
func (h *ClipHandler) fail(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidDraft), errors.Is(err, domain.ErrInvalidFormat):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrClipNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrQuotaExceeded):
		// 容量不足はユーザーが内容を削るか削除することで回復できる
		status = http.StatusInsufficientStorage
	}
	if status == http.StatusInternalServerError {
		slog.Error(msg, "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// toResponses はエンティティのコレクションをDTOへ変換します。
func toResponses(clips []entity.Clip) []dto.ClipResponse {
	out := make([]dto.ClipResponse, 0, len(clips))
	for _, x := range clips {
		out = append(out, dto.ClipResponse{
			ID:        x.ID,
			Code:      x.Code,
			Name:      x.Name,
			Rating:    x.Rating,
			Memo:      x.Memo,
			Markup:    x.Markup,
			UpdatedAt: x.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

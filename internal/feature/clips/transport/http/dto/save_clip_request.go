// Package dto はclipsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// SaveClipRequest はクリップの新規作成・更新リクエストのボディを表します。
// バリデーション（code/name必須、ratingは1〜5）はユースケース側で行うため、
// ここではバインドのみを行います。
type SaveClipRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Memo   string `json:"memo"`
	Markup string `json:"markup"`
}

package dto

// ClipResponse は1件のクリップのレスポンス表現です。
// updatedAtはISO-8601（RFC 3339）形式の文字列です。
type ClipResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Memo      string `json:"memo"`
	Markup    string `json:"markup"`
	UpdatedAt string `json:"updatedAt"`
}

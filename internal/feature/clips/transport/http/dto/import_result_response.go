package dto

// ImportResultResponse はインポート結果のサマリと取り込み後のコレクションを返します。
type ImportResultResponse struct {
	AddedCount   int            `json:"addedCount"`
	UpdatedCount int            `json:"updatedCount"`
	Clips        []ClipResponse `json:"clips"`
}

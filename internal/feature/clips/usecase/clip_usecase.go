// Package usecase はクリップコレクションの永続化・マージ・整列ロジックを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"kabuclip/internal/feature/clips/domain"
	"kabuclip/internal/feature/clips/domain/entity"

	"github.com/google/uuid"
)

// Mirror は耐久ミラー（コレクション全体の直列化コピー）を保持するKVメディアを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type Mirror interface {
	// Read はミラーの内容全体を返します。ミラーが未作成の場合は (nil, nil) を返します。
	Read(ctx context.Context) ([]byte, error)

	// Write はコレクション全体を1回の更新として書き込みます。
	// メディアの容量を超える場合はdomain.ErrQuotaExceededを返し、ミラーには触れません。
	Write(ctx context.Context, data []byte) error
}

// ImportResult はImportMergeの集計結果です。
// 呼び出し側がユーザーへサマリを提示するために使用します。
type ImportResult struct {
	Added   int
	Updated int
}

// ClipStore はクリップコレクションの唯一の所有者です。
// インメモリのコレクションをcodeの昇順（数値認識）に保ち、
// すべての変更操作でコレクション全体を耐久ミラーへ書き込みます。
// 永続化に失敗した場合、インメモリの状態は呼び出し前の状態へ巻き戻されます。
type ClipStore struct {
	mirror Mirror

	mu    sync.Mutex
	clips []entity.Clip
}

// NewClipStore は指定されたミラーでClipStoreの新しいインスタンスを生成します。
// コレクションは空の状態で始まります。起動時にLoadを呼び出してください。
func NewClipStore(mirror Mirror) *ClipStore {
	return &ClipStore{mirror: mirror}
}

// Load は耐久ミラーを読み込みコレクションを復元します。
// ミラーが存在しない場合は空のコレクションになります。
// 内容が解析できない場合はdomain.ErrCorruptDataを返し、コレクションは空のままにします
// （呼び出し側は起動を中断せず空のコレクションで継続できます）。
// ミラーは手作業で編集されたり古い並び順で取り込まれている可能性があるため、常に再整列します。
func (s *ClipStore) Load(ctx context.Context) ([]entity.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.mirror.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read mirror: %w", err)
	}
	s.clips = nil
	if len(data) == 0 {
		return s.snapshot(), nil
	}

	var clips []entity.Clip
	if err := json.Unmarshal(data, &clips); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptData, err)
	}
	entity.SortClips(clips)
	s.clips = clips
	return s.snapshot(), nil
}

// All は現在のコレクションのスナップショットを返します。
// 返されたスライスは使い捨てのコピーであり、変更してもストアには影響しません。
func (s *ClipStore) All() []entity.Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Save はドラフトを検証しコレクションへ反映します。
//   - ドラフトが無効な場合はdomain.ErrInvalidDraftを返し、状態は変更しません。
//   - existingIDが指定され存在する場合、そのクリップのフィールドを置き換えます
//     （IDは維持し、updatedAtを更新します）。
//   - existingIDが指定されたが存在しない場合はdomain.ErrClipNotFoundを返します
//     （呼び出し側のプログラミングエラー）。
//   - existingIDが空の場合、新しいIDを採番してクリップを追加します。
//
// 反映後はコレクション全体をcode順に再整列し、1回のミラー書き込みで永続化します。
// 書き込みに失敗した場合はインメモリの状態を巻き戻してエラーを返します。
func (s *ClipStore) Save(ctx context.Context, draft entity.Draft, existingID string) ([]entity.Clip, error) {
	if !draft.Valid() {
		return nil, domain.ErrInvalidDraft
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	now := time.Now()
	if existingID != "" {
		idx := indexByID(next, existingID)
		if idx < 0 {
			return nil, domain.ErrClipNotFound
		}
		next[idx] = entity.Clip{
			ID:        existingID,
			Code:      draft.Code,
			Name:      draft.Name,
			Rating:    draft.Rating,
			Memo:      draft.Memo,
			Markup:    draft.Markup,
			UpdatedAt: now,
		}
	} else {
		fresh := entity.Clip{
			ID:        uuid.NewString(),
			Code:      draft.Code,
			Name:      draft.Name,
			Rating:    draft.Rating,
			Memo:      draft.Memo,
			Markup:    draft.Markup,
			UpdatedAt: now,
		}
		// 新規クリップは先頭へ追加してから整列する
		next = append([]entity.Clip{fresh}, next...)
	}
	entity.SortClips(next)

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.clips = next
	return s.snapshot(), nil
}

// Delete は指定されたIDのクリップをコレクションから取り除き、永続化します。
// IDが存在しない場合は何もしません（エラーにはなりません）。
// 書き込みに失敗した場合はインメモリの状態を巻き戻してエラーを返します。
func (s *ClipStore) Delete(ctx context.Context, id string) ([]entity.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByID(s.clips, id)
	if idx < 0 {
		return s.snapshot(), nil
	}

	next := make([]entity.Clip, 0, len(s.clips)-1)
	next = append(next, s.clips[:idx]...)
	next = append(next, s.clips[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.clips = next
	return s.snapshot(), nil
}

// Search は現在のコレクションを副作用なしでフィルタします。
// nameは大文字小文字を無視した部分一致、codeは英数字の銘柄コードのため
// 大文字小文字を区別した部分一致で照合します。
// 空のtermはすべてのクリップにマッチします。並び順は維持され、再整列は行いません。
func (s *ClipStore) Search(term string) []entity.Clip {
	s.mu.Lock()
	defer s.mu.Unlock()

	if term == "" {
		return s.snapshot()
	}
	lowered := strings.ToLower(term)
	out := make([]entity.Clip, 0, len(s.clips))
	for _, c := range s.clips {
		if strings.Contains(strings.ToLower(c.Name), lowered) || strings.Contains(c.Code, term) {
			out = append(out, c)
		}
	}
	return out
}

// ExportAll は現在のコレクション全体を整形済みJSONとして直列化します。
// ユーザーが外部ファイルとして保存するための持ち出し可能なドキュメントです。
func (s *ClipStore) ExportAll() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clips := s.clips
	if clips == nil {
		clips = []entity.Clip{}
	}
	data, err := json.MarshalIndent(clips, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return data, nil
}

// ImportMerge は外部から与えられたドキュメントを解析し、IDをキーにマージします。
//   - トップレベルが配列でない場合はdomain.ErrInvalidFormatを返します。
//   - 個々のレコードは、idとnameが空でないものだけを採用します。
//     解析できないレコードや要件を満たさないレコードは黙って読み飛ばします
//     （部分的なドキュメントは想定内のため、エラーにはしません）。
//   - 採用されたレコードは、既存のIDと一致すれば丸ごと置き換え（取り込み順の後勝ち、
//     タイムスタンプ比較なし）、一致しなければ新規として追加します。
//
// 全レコードの処理後に1回だけ再整列・永続化します（レコード毎ではありません）。
// 書き込みに失敗した場合はインメモリの状態を巻き戻してエラーを返します。
func (s *ClipStore) ImportMerge(ctx context.Context, doc []byte) (ImportResult, []entity.Clip, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(doc, &records); err != nil {
		return ImportResult{}, nil, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
	// "null" はエラーにならずnilスライスへ復号されるが、配列ではない
	if records == nil {
		return ImportResult{}, nil, fmt.Errorf("%w: document is not an array", domain.ErrInvalidFormat)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	var result ImportResult
	for _, record := range records {
		var cand entity.Clip
		if err := json.Unmarshal(record, &cand); err != nil {
			continue
		}
		if cand.ID == "" || cand.Name == "" {
			continue
		}
		// 欠けているフィールドはモデル側で補正して受け入れる
		cand.Rating = entity.ClampRating(cand.Rating)
		if cand.UpdatedAt.IsZero() {
			cand.UpdatedAt = time.Now()
		}

		if idx := indexByID(next, cand.ID); idx >= 0 {
			next[idx] = cand
			result.Updated++
		} else {
			next = append(next, cand)
			result.Added++
		}
	}
	entity.SortClips(next)

	if err := s.persist(ctx, next); err != nil {
		return ImportResult{}, nil, err
	}
	s.clips = next
	return result, s.snapshot(), nil
}

// persist はコレクション全体を1回のミラー更新として書き込みます。
// 部分的な書き込みは行いません。
func (s *ClipStore) persist(ctx context.Context, clips []entity.Clip) error {
	if clips == nil {
		clips = []entity.Clip{}
	}
	data, err := json.Marshal(clips)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := s.mirror.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to write mirror: %w", err)
	}
	return nil
}

// snapshot は呼び出し元へ渡すためのコレクションのコピーを返します。
// 呼び出す側でmuを保持している必要があります。
func (s *ClipStore) snapshot() []entity.Clip {
	out := make([]entity.Clip, len(s.clips))
	copy(out, s.clips)
	return out
}

// indexByID は指定されたIDを持つクリップの位置を返します。見つからない場合は-1です。
func indexByID(clips []entity.Clip, id string) int {
	for i, c := range clips {
		if c.ID == id {
			return i
		}
	}
	return -1
}

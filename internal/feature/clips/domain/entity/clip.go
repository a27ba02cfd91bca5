// Package entity defines the domain models for the clips feature.
package entity

import (
	"sort"
	"strings"
	"time"
)

// Rating bounds for a clip.
const (
	MinRating = 1
	MaxRating = 5
)

// Clip represents one persisted analysis record for a single stock ticker.
// It pairs a security code with a free-text memo, a 1-5 rating and an opaque
// blob of externally copied markup (e.g. a broker site's chart widget).
// The ID is assigned once at creation and never changes; it is the sole
// merge key on import.
type Clip struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Memo      string    `json:"memo"`
	Markup    string    `json:"markup"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft は保存前の編集中クリップを表します。
// UIが一時的に保持する使い捨ての値であり、saveを通じてのみコレクションに反映されます。
type Draft struct {
	Code   string
	Name   string
	Rating int
	Memo   string
	Markup string
}

// Valid はドラフトが永続化可能かどうかを判定する純粋な述語です。
// codeとnameが空でなく、ratingが1〜5の範囲内の場合にtrueを返します。
func (d Draft) Valid() bool {
	return d.Code != "" && d.Name != "" &&
		d.Rating >= MinRating && d.Rating <= MaxRating
}

// ClampRating は評価値を1〜5の範囲に丸めます。
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// CompareCodes は銘柄コードを数値認識で比較します。
// 数字の連続は数値として比較するため、"7" < "12" < "100" となります
// （単純な辞書順では "10" が "2" より前に並んでしまう）。
// 数字以外の部分は大文字小文字を無視した辞書順で比較します。
// 戻り値は a<b で負、a==b で0、a>b で正です。
func CompareCodes(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			// 数字の連続を切り出して数値として比較する
			ia, jb := i, j
			for ia < len(a) && isDigit(a[ia]) {
				ia++
			}
			for jb < len(b) && isDigit(b[jb]) {
				jb++
			}
			na := strings.TrimLeft(a[i:ia], "0")
			nb := strings.TrimLeft(b[j:jb], "0")
			if len(na) != len(nb) {
				return len(na) - len(nb)
			}
			if na != nb {
				return strings.Compare(na, nb)
			}
			i, j = ia, jb
			continue
		}
		ca, cb := lower(a[i]), lower(b[j])
		if ca != cb {
			return int(ca) - int(cb)
		}
		i++
		j++
	}
	// 片方だけ残っている場合は短い方が先
	return (len(a) - i) - (len(b) - j)
}

// SortClips はコレクションをcodeの昇順（数値認識）で安定ソートします。
// 同じcodeを持つクリップ同士の相対順序は保持されます。
func SortClips(clips []Clip) {
	sort.SliceStable(clips, func(i, j int) bool {
		return CompareCodes(clips[i].Code, clips[j].Code) < 0
	})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

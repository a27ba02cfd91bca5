// Package usecase はauthフィーチャーのビジネスロジックを実装します。
// このアプリは単一ユーザー構成のため、ユーザーテーブルは持たず、
// 環境変数で設定されたbcryptハッシュとの照合のみを行います。
package usecase

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// TokenGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateToken は署名済みJWTトークンを生成します。
	GenerateToken() (string, error)
}

// authUsecase は単一ユーザー認証のビジネスロジックを実装します。
type authUsecase struct {
	passwordHash string
	tokens       TokenGenerator
}

// NewAuthUsecase は設定済みのbcryptハッシュとトークンジェネレーターで
// authUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(passwordHash string, tokens TokenGenerator) *authUsecase {
	return &authUsecase{
		passwordHash: passwordHash,
		tokens:       tokens,
	}
}

// Login はパスワードを検証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ハッシュが未設定の場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(password string) (string, error) {
	// ハッシュ未設定時のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	hash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if u.passwordHash != "" {
		hash = u.passwordHash
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if u.passwordHash == "" || compareErr != nil {
		return "", ErrInvalidPassword
	}

	token, err := u.tokens.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

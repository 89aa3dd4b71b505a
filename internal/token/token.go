// Package token はベアラートークンの発行と検証を提供する。
// トークンはHS256署名付きJWTで、subjectクレームにユーザーIDを持つ。
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/todoman/internal/model"
)

// Issuer は署名付きトークンを発行する。
type Issuer struct {
	secret []byte
	expiry time.Duration
}

// NewIssuer はIssuerを生成する。
// expiryは発行時刻からの有効期間を指定する。
func NewIssuer(secret []byte, expiry time.Duration) *Issuer {
	return &Issuer{secret: secret, expiry: expiry}
}

// Issue は指定ユーザーIDを主体とする署名付きトークンを発行する。
func (i *Issuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verifier はトークンを検証し、ユーザーIDを取り出す。
type Verifier struct {
	secret []byte
}

// NewVerifier はVerifierを生成する。
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify はトークン文字列を検証し、主体のユーザーIDを返す。
// 形式不正・署名不一致・期限切れはすべてForbiddenエラーとして返す。
// ユーザーが現在も存在するかどうかは確認しない。
func (v *Verifier) Verify(raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return "", model.NewForbiddenError()
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", model.NewForbiddenError()
	}

	return claims.Subject, nil
}

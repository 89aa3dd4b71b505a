// Package auth はユーザー登録・ログインのドメインロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

const (
	// minUsernameLength はユーザー名の最小文字数。
	minUsernameLength = 3
	// minPasswordLength はハッシュ化前のパスワードの最小文字数。
	minPasswordLength = 6
)

// TokenIssuer はログイン成功時のトークン発行インターフェース。
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Recorder は認証イベントのメトリクス記録インターフェース。
type Recorder interface {
	RecordUserRegistered()
	RecordTokenIssued()
}

// Service はユーザー登録・ログインのサービス層。
type Service struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
	recorder Recorder
	cost     int
}

// NewService はServiceの新しいインスタンスを生成する。
// costはbcryptのワークファクタを指定する。recorderはnil可。
func NewService(userRepo repository.UserRepository, issuer TokenIssuer, recorder Recorder, cost int) *Service {
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
		recorder: recorder,
		cost:     cost,
	}
}

// ValidateCredentials は登録入力を検証し、トリム済みユーザー名を返す。
// ユーザー名は前後の空白を除去した上で3文字以上、パスワードは6文字以上を要求する。
func ValidateCredentials(username, password string) (string, error) {
	name := strings.TrimSpace(username)
	if utf8.RuneCountInString(name) < minUsernameLength {
		return "", model.NewValidationError(
			fmt.Sprintf("ユーザー名は%d文字以上で指定してください", minUsernameLength))
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", model.NewValidationError(
			fmt.Sprintf("パスワードは%d文字以上で指定してください", minPasswordLength))
	}
	return name, nil
}

// Register は新規ユーザーを登録する。
// パスワードはbcryptでハッシュ化して保存し、平文は保持しない。
// ユーザー名が既に存在する場合はDuplicateUsernameエラーを返す。
// トークンは発行しない（呼び出し側が別途ログインする）。
func (s *Service) Register(ctx context.Context, username, password string) error {
	name, err := ValidateCredentials(username, password)
	if err != nil {
		return err
	}

	existing, err := s.userRepo.FindByUsername(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return model.NewDuplicateUsernameError(name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 一意インデックスが同時登録の競合を防ぐ（リポジトリがDuplicateUsernameに変換する）
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	if s.recorder != nil {
		s.recorder.RecordUserRegistered()
	}

	slog.Info("user registered", slog.String("user_id", user.ID))
	return nil
}

// Login はユーザー名とパスワードを検証し、署名付きトークンを発行する。
// ユーザーが存在しない場合はUserNotFound、パスワード不一致はInvalidCredentialsを返す。
// パスワードの比較はbcryptハッシュに対して行い、ログには出力しない。
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	name := strings.TrimSpace(username)

	user, err := s.userRepo.FindByUsername(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", model.NewUserNotFoundError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.NewInvalidCredentialsError()
	}

	tok, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordTokenIssued()
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return tok, nil
}

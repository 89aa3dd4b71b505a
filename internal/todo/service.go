// Package todo はTodo項目のドメインロジックを提供する。
package todo

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// Recorder はTodo操作のメトリクス記録インターフェース。
type Recorder interface {
	RecordTodoCreated()
}

// Service はTodo CRUDのサービス層。
// すべての操作は検証済みの呼び出し元ユーザーIDで所有者スコープを絞る。
type Service struct {
	todoRepo  repository.TodoRepository
	recorder  Recorder
	sanitizer *bluemonday.Policy
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnil可。
func NewService(todoRepo repository.TodoRepository, recorder Recorder) *Service {
	return &Service{
		todoRepo: todoRepo,
		recorder: recorder,
		// タイトルと説明はプレーンテキストとして保存するため、HTMLタグをすべて除去する
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// sanitize はHTMLタグを除去し、前後の空白をトリムしたプレーンテキストを返す。
// StrictPolicyはテキストをHTMLエスケープするため、エスケープを戻して元の文字を保つ。
func (s *Service) sanitize(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))
}

// validateTitle はタイトルを検証し、サニタイズ済みの値を返す。
func (s *Service) validateTitle(title string) (string, error) {
	t := s.sanitize(title)
	if t == "" {
		return "", model.NewValidationError("タイトルは必須です")
	}
	return t, nil
}

// List は呼び出し元ユーザーのTodo一覧を作成日時の降順（新しい順）で返す。
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	todos, err := s.todoRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Create は新規Todoを作成する。
// タイトルは必須、説明は省略可。所有者は呼び出し元、completedはfalseで初期化する。
func (s *Service) Create(ctx context.Context, ownerID, title, description string) (*model.Todo, error) {
	t, err := s.validateTitle(title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	todo := &model.Todo{
		ID:          uuid.NewString(),
		Title:       t,
		Description: s.sanitize(description),
		Completed:   false,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordTodoCreated()
	}

	return todo, nil
}

// Update は指定IDのTodoのtitle/description/completedを上書き更新する。
// 所有者は変更できない。IDと所有者の組で検索するため、
// 他ユーザーのTodoはTodoNotFoundになる（存在を漏らさない）。
func (s *Service) Update(ctx context.Context, ownerID, id, title, description string, completed bool) (*model.Todo, error) {
	t, err := s.validateTitle(title)
	if err != nil {
		return nil, err
	}

	updated, err := s.todoRepo.UpdateByIDAndOwner(ctx, &model.Todo{
		ID:          id,
		OwnerID:     ownerID,
		Title:       t,
		Description: s.sanitize(description),
		Completed:   completed,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	if updated == nil {
		return nil, model.NewTodoNotFoundError(id)
	}

	return updated, nil
}

// Delete は指定IDのTodoを完全に削除する。
// 該当がない場合（削除済み・他ユーザー所有を含む）はTodoNotFoundを返す。
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.todoRepo.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if !deleted {
		return model.NewTodoNotFoundError(id)
	}

	return nil
}

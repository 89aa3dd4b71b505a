// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/todoman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// ユーザー名が既に存在する場合はmodel.ErrCodeDuplicateUsernameのAPIErrorを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// TodoRepository はTodoデータの永続化インターフェース。
// 読み取り・更新・削除はすべてID + 所有者の組で絞り込む。
type TodoRepository interface {
	// ListByOwner は所有者のTodo一覧を作成日時の降順（新しい順）で返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error)

	// Create はTodoを作成する。
	Create(ctx context.Context, todo *model.Todo) error

	// UpdateByIDAndOwner は指定ID・所有者のTodoのtitle/description/completedを
	// 上書き更新し、更新後のレコードを返す。該当がない場合はnilを返す。
	UpdateByIDAndOwner(ctx context.Context, todo *model.Todo) (*model.Todo, error)

	// DeleteByIDAndOwner は指定ID・所有者のTodoを削除する。
	// 削除した場合はtrue、該当がない場合はfalseを返す。
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error)
}

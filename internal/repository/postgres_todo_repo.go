package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したTodoリポジトリ。
type PostgresTodoRepo struct {
	db *sql.DB
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(db *sql.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

// ListByOwner は所有者のTodo一覧を作成日時の降順で返す。
func (r *PostgresTodoRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, completed, owner_id, created_at, updated_at
		 FROM todos
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []*model.Todo{}
	for rows.Next() {
		todo := &model.Todo{}
		if err := rows.Scan(
			&todo.ID, &todo.Title, &todo.Description, &todo.Completed,
			&todo.OwnerID, &todo.CreatedAt, &todo.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// Create はTodoを作成する。
func (r *PostgresTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, title, description, completed, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		todo.ID, todo.Title, todo.Description, todo.Completed,
		todo.OwnerID, todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	return nil
}

// UpdateByIDAndOwner は指定ID・所有者のTodoを上書き更新し、更新後のレコードを返す。
// ID と所有者の両方が一致しない限り更新しないため、他ユーザーのTodoの存在は漏れない。
// 該当がない場合はnilを返す。
func (r *PostgresTodoRepo) UpdateByIDAndOwner(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	updated := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE todos
		 SET title = $1, description = $2, completed = $3, updated_at = $4
		 WHERE id = $5 AND owner_id = $6
		 RETURNING id, title, description, completed, owner_id, created_at, updated_at`,
		todo.Title, todo.Description, todo.Completed, todo.UpdatedAt,
		todo.ID, todo.OwnerID,
	).Scan(
		&updated.ID, &updated.Title, &updated.Description, &updated.Completed,
		&updated.OwnerID, &updated.CreatedAt, &updated.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

// DeleteByIDAndOwner は指定ID・所有者のTodoを削除する。
// 削除した場合はtrue、該当がない場合はfalseを返す。
func (r *PostgresTodoRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)

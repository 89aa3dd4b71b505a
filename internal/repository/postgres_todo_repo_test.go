package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresTodoRepoはTodoRepositoryインターフェースを満たすことを検証
func TestPostgresTodoRepo_ImplementsInterface(t *testing.T) {
	var _ TodoRepository = (*PostgresTodoRepo)(nil)
}

// NewPostgresTodoRepoが正しく初期化されることを検証
func TestNewPostgresTodoRepo_Initializes(t *testing.T) {
	repo := NewPostgresTodoRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// --- DB接続が必要なテスト ---

// testTodo はテスト用のTodoレコードを生成する。
func testTodo(ownerID, title string, createdAt time.Time) *model.Todo {
	return &model.Todo{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "",
		Completed:   false,
		OwnerID:     ownerID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestPostgresTodoRepo_ListByOwner_NewestFirst(t *testing.T) {
	db := setupRepoTestDB(t)
	userRepo := NewPostgresUserRepo(db)
	repo := NewPostgresTodoRepo(db)
	ctx := context.Background()

	owner := testUser("alice")
	if err := userRepo.Create(ctx, owner); err != nil {
		t.Fatalf("ユーザー作成に失敗: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Microsecond)
	titles := []string{"first", "second", "third"}
	for i, title := range titles {
		todo := testTodo(owner.ID, title, base.Add(time.Duration(i)*time.Second))
		if err := repo.Create(ctx, todo); err != nil {
			t.Fatalf("Todo作成に失敗: %v", err)
		}
	}

	todos, err := repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("todos length = %d, want 3", len(todos))
	}

	// 作成日時の降順（新しい順）であること
	want := []string{"third", "second", "first"}
	for i, todo := range todos {
		if todo.Title != want[i] {
			t.Errorf("todos[%d].Title = %q, want %q", i, todo.Title, want[i])
		}
	}
}

func TestPostgresTodoRepo_ListByOwner_DoesNotIncludeOthersTodos(t *testing.T) {
	db := setupRepoTestDB(t)
	userRepo := NewPostgresUserRepo(db)
	repo := NewPostgresTodoRepo(db)
	ctx := context.Background()

	alice := testUser("alice")
	bob := testUser("bob")
	for _, u := range []*model.User{alice, bob} {
		if err := userRepo.Create(ctx, u); err != nil {
			t.Fatalf("ユーザー作成に失敗: %v", err)
		}
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	if err := repo.Create(ctx, testTodo(alice.ID, "aliceのTodo", now)); err != nil {
		t.Fatalf("Todo作成に失敗: %v", err)
	}

	todos, err := repo.ListByOwner(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("bob's todos length = %d, want 0", len(todos))
	}
}

func TestPostgresTodoRepo_UpdateByIDAndOwner(t *testing.T) {
	db := setupRepoTestDB(t)
	userRepo := NewPostgresUserRepo(db)
	repo := NewPostgresTodoRepo(db)
	ctx := context.Background()

	owner := testUser("alice")
	if err := userRepo.Create(ctx, owner); err != nil {
		t.Fatalf("ユーザー作成に失敗: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	todo := testTodo(owner.ID, "before", now)
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Todo作成に失敗: %v", err)
	}

	updated, err := repo.UpdateByIDAndOwner(ctx, &model.Todo{
		ID:          todo.ID,
		OwnerID:     owner.ID,
		Title:       "after",
		Description: "説明を追加",
		Completed:   true,
		UpdatedAt:   now.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("UpdateByIDAndOwner returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated todo, got nil")
	}
	if updated.Title != "after" {
		t.Errorf("Title = %q, want %q", updated.Title, "after")
	}
	if updated.Description != "説明を追加" {
		t.Errorf("Description = %q, want %q", updated.Description, "説明を追加")
	}
	if !updated.Completed {
		t.Error("expected Completed = true")
	}
	// CreatedAtは変化しないこと
	if !updated.CreatedAt.Equal(todo.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", updated.CreatedAt, todo.CreatedAt)
	}
}

func TestPostgresTodoRepo_UpdateByIDAndOwner_OtherOwner_ReturnsNil(t *testing.T) {
	db := setupRepoTestDB(t)
	userRepo := NewPostgresUserRepo(db)
	repo := NewPostgresTodoRepo(db)
	ctx := context.Background()

	alice := testUser("alice")
	bob := testUser("bob")
	for _, u := range []*model.User{alice, bob} {
		if err := userRepo.Create(ctx, u); err != nil {
			t.Fatalf("ユーザー作成に失敗: %v", err)
		}
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	todo := testTodo(alice.ID, "aliceのTodo", now)
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Todo作成に失敗: %v", err)
	}

	// bobがaliceのTodoを更新しようとしてもnil（存在を漏らさない）
	updated, err := repo.UpdateByIDAndOwner(ctx, &model.Todo{
		ID:        todo.ID,
		OwnerID:   bob.ID,
		Title:     "乗っ取り",
		Completed: true,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("UpdateByIDAndOwner returned error: %v", err)
	}
	if updated != nil {
		t.Errorf("expected nil for other owner's todo, got %+v", updated)
	}
}

func TestPostgresTodoRepo_DeleteByIDAndOwner(t *testing.T) {
	db := setupRepoTestDB(t)
	userRepo := NewPostgresUserRepo(db)
	repo := NewPostgresTodoRepo(db)
	ctx := context.Background()

	owner := testUser("alice")
	if err := userRepo.Create(ctx, owner); err != nil {
		t.Fatalf("ユーザー作成に失敗: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	todo := testTodo(owner.ID, "削除対象", now)
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Todo作成に失敗: %v", err)
	}

	deleted, err := repo.DeleteByIDAndOwner(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("DeleteByIDAndOwner returned error: %v", err)
	}
	if !deleted {
		t.Error("expected deleted = true")
	}

	// 削除済みIDへの再削除はfalse（冪等）
	deleted, err = repo.DeleteByIDAndOwner(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("DeleteByIDAndOwner returned error: %v", err)
	}
	if deleted {
		t.Error("expected deleted = false for already-deleted todo")
	}
}
